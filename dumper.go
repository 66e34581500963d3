package gridpager

import (
	"fmt"
	"reflect"

	"github.com/samber/lo"
)

// DefaultMaxDepth bounds how deep nested entities are expanded.
const DefaultMaxDepth = 32

type (
	// EntityNamer lets an entity report the name its field mapping is stored
	// under.
	EntityNamer interface {
		EntityName() string
	}

	// TypeNameResolver returns the mapping name of an entity. Use it to unwrap
	// lazy-loading wrappers to the entity they stand in for.
	TypeNameResolver func(entity any) string

	// Option configures a Dumper.
	Option func(*Dumper)
)

// Dumper converts entities into grid records. Field values are read through
// getters, issers, exported fields or map keys, discovered once per
// (type, field) pair and cached for the lifetime of the Dumper. A Dumper is
// safe for concurrent use.
type Dumper struct {
	mappings   FieldMapping
	cache      *accessorCache
	entityName TypeNameResolver
	isAdmin    bool
	maxDepth   int
	dateLayout string
}

// WithTypeNameResolver overrides how entity mapping names are derived.
func WithTypeNameResolver(resolver TypeNameResolver) Option {
	return func(d *Dumper) {
		if resolver != nil {
			d.entityName = resolver
		}
	}
}

// WithAdmin makes the Dumper prefer the GroupAdmin field group.
func WithAdmin(isAdmin bool) Option {
	return func(d *Dumper) {
		d.isAdmin = isAdmin
	}
}

// WithMaxDepth sets the maximum nesting level of expanded entities.
func WithMaxDepth(maxDepth int) Option {
	return func(d *Dumper) {
		if maxDepth > 0 {
			d.maxDepth = maxDepth
		}
	}
}

// WithDateLayout overrides DateLayout.
func WithDateLayout(layout string) Option {
	return func(d *Dumper) {
		if layout != "" {
			d.dateLayout = layout
		}
	}
}

// NewDumper creates a Dumper over a read-only field mapping. mappings may be
// nil when every dump passes explicit fields.
func NewDumper(mappings FieldMapping, opts ...Option) *Dumper {
	d := &Dumper{
		mappings:   mappings,
		cache:      newAccessorCache(),
		entityName: DefaultEntityName,
		maxDepth:   DefaultMaxDepth,
		dateLayout: DateLayout,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// ForAdmin returns a copy of the Dumper with the admin flag set. The copy
// shares the accessor cache and the field mapping.
func (d *Dumper) ForAdmin(isAdmin bool) *Dumper {
	cp := *d
	cp.isAdmin = isAdmin

	return &cp
}

// IsAdmin reports whether the Dumper prefers the GroupAdmin field group.
func (d *Dumper) IsAdmin() bool {
	return d.isAdmin
}

// DefaultEntityName returns EntityNamer.EntityName when implemented, the
// Go type name otherwise. Pointers are dereferenced.
func DefaultEntityName(entity any) string {
	if namer, ok := entity.(EntityNamer); ok && !isNil(entity) {
		return namer.EntityName()
	}

	if entity == nil {
		return ""
	}

	t := reflect.TypeOf(entity)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return lo.Ternary(t.Name() != "", t.Name(), t.String())
}

// EntityName returns the mapping name of entity.
func (d *Dumper) EntityName(entity any) string {
	return d.entityName(entity)
}

// HasMapping reports whether a field mapping is configured for entityName.
func (d *Dumper) HasMapping(entityName string) bool {
	return d.mappings.Has(entityName)
}

// FieldsFor returns the configured fields of the entity's type: the admin
// group for admin dumpers when configured, the default group otherwise.
func (d *Dumper) FieldsFor(entity any) ([]string, error) {
	name := d.EntityName(entity)
	group := lo.Ternary(d.isAdmin, GroupAdmin, GroupDefault)

	fields, ok := d.mappings.Fields(name, group)
	if !ok {
		return nil, fmt.Errorf("%w: no dumper fields for entity '%s'", ErrNoMappingConfigured, name)
	}

	return fields, nil
}

// DumpOne converts entity into a Record with one key per field, in order.
// Without fields the entity's configured fields are used.
func (d *Dumper) DumpOne(entity any, fields ...string) (Record, error) {
	return d.dump(entity, fields, 0)
}

func (d *Dumper) dump(entity any, fields []string, depth int) (Record, error) {
	if depth > d.maxDepth {
		return Record{}, fmt.Errorf("%w: '%s' nested deeper than %d levels", ErrMaxDepthExceeded, typeName(entity), d.maxDepth)
	}

	if len(fields) == 0 {
		var err error
		fields, err = d.FieldsFor(entity)
		if err != nil {
			return Record{}, err
		}
	}

	record := newRecord(len(fields))
	for _, path := range fields {
		raw, err := d.resolvePath(entity, path)
		if err != nil {
			return Record{}, fmt.Errorf("cannot dump '%s' of '%s': %w", path, d.EntityName(entity), err)
		}

		value, err := d.normalize(raw, depth)
		if err != nil {
			return Record{}, fmt.Errorf("cannot dump '%s' of '%s': %w", path, d.EntityName(entity), err)
		}

		record.Set(path, value)
	}

	return record, nil
}

// DumpMany converts every entity into a Record. The first failure aborts
// the whole dump.
func DumpMany[T any](d *Dumper, entities []T, fields ...string) ([]Record, error) {
	records := make([]Record, 0, len(entities))
	for i, entity := range entities {
		record, err := d.DumpOne(entity, fields...)
		if err != nil {
			return nil, fmt.Errorf("cannot dump entity #%d: %w", i, err)
		}

		records = append(records, record)
	}

	return records, nil
}

// Project converts entities with a caller supplied function, bypassing
// member resolution and normalization.
func Project[T, R any](entities []T, project func(T) R) []R {
	return lo.Map(entities, func(entity T, _ int) R {
		return project(entity)
	})
}

// DumpCollection dumps entities into an Envelope without a limit: total is
// the number of entities and limit is 0.
func DumpCollection[T any](d *Dumper, entities []T, fields ...string) (Envelope[Record], error) {
	records, err := DumpMany(d, entities, fields...)
	if err != nil {
		return Envelope[Record]{}, err
	}

	return Wrap(records, nil, nil), nil
}

// DumpPage dumps a page fetched by Pager into an Envelope carrying the
// page's total and limit.
func DumpPage[T any](d *Dumper, page *Page[T], fields ...string) (Envelope[Record], error) {
	if page == nil {
		return Wrap[Record](nil, nil, nil), nil
	}

	records, err := DumpMany(d, page.Entities, fields...)
	if err != nil {
		return Envelope[Record]{}, err
	}

	return Wrap(records, &page.Total, &page.Limit), nil
}

// DumpPageFunc projects a page with a caller supplied function.
func DumpPageFunc[T, R any](page *Page[T], project func(T) R) Envelope[R] {
	if page == nil {
		return Wrap[R](nil, nil, nil)
	}

	return Wrap(Project(page.Entities, project), &page.Total, &page.Limit)
}
