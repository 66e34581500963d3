package gridpager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type (
	// Filter narrows the dataset before it is counted and paged, e.g.
	//
	//	func(db *gorm.DB) *gorm.DB { return db.Where("active = ?", true) }
	Filter func(*gorm.DB) *gorm.DB

	// Page is one page of entities with the size of the whole filtered
	// dataset.
	Page[T any] struct {
		// Entities of the page, in query order.
		Entities []T
		// Total number of entities matching the filter.
		Total int64
		// Limit effective page size used for the query.
		Limit int
		// Offset number of entities skipped.
		Offset int
	}
)

// Pager loads grid pages of T through GORM: a count query followed by an
// ordered LIMIT/OFFSET query, both narrowed by the same Filter.
type Pager[T any] struct {
	db          *gorm.DB
	columns     ColumnMapping
	filter      Filter
	defaultSort Orderings
	maxLimit    int
	schemaCache *sync.Map
}

func NewPager[T any](db *gorm.DB) *Pager[T] {
	return &Pager[T]{
		db:          db,
		maxLimit:    MaxLimit,
		schemaCache: new(sync.Map),
	}
}

// WithColumnMapping sets aliases for sort properties. Aliases are looked up
// before the columns of T.
func (p *Pager[T]) WithColumnMapping(columns ColumnMapping) *Pager[T] {
	if p == nil {
		p = NewPager[T](nil)
	}

	p.columns = columns

	return p
}

// WithFilter sets the filter applied to both the count and the page query.
func (p *Pager[T]) WithFilter(filter Filter) *Pager[T] {
	if p == nil {
		p = NewPager[T](nil)
	}

	p.filter = filter

	return p
}

// WithDefaultSort sets the ordering used when the grid sends none. Without
// it the primary key of T is used, ascending.
func (p *Pager[T]) WithDefaultSort(orderBy ...OrderBy) *Pager[T] {
	if p == nil {
		p = NewPager[T](nil)
	}

	p.defaultSort = orderBy

	return p
}

// WithMaxLimit overrides MaxLimit for this pager.
func (p *Pager[T]) WithMaxLimit(maxLimit int) *Pager[T] {
	if p == nil {
		p = NewPager[T](nil)
	}

	if maxLimit > 0 {
		p.maxLimit = maxLimit
	}

	return p
}

// Fetch loads the page described by params.
func (p *Pager[T]) Fetch(ctx context.Context, params Params) (*Page[T], error) {
	if p == nil || p.db == nil {
		return nil, errors.New("pager has no database")
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	sort, err := p.ordering(params.Sort)
	if err != nil {
		return nil, err
	}

	limit := NormalizeLimitMax(params.Limit, p.maxLimit)
	req := NewPageRequest().
		WithLimitMax(limit, p.maxLimit).
		WithOffset(params.Offset(limit)).
		WithSubstitutedSort(sort...)

	query := p.db.WithContext(ctx).Model(new(T))
	if p.filter != nil {
		query = p.filter(query)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err = query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("cannot count entities: %w", err)
	}

	paged, err := req.Paginate(query)
	if err != nil {
		return nil, err
	}

	var entities []T
	if err = paged.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("cannot load entities: %w", err)
	}

	return &Page[T]{
		Entities: entities,
		Total:    total,
		Limit:    req.GetLimit(),
		Offset:   req.GetOffset(),
	}, nil
}

// ordering converts grid sorters to Orderings, falling back to the default
// sort and then to the primary key.
func (p *Pager[T]) ordering(sorters []Sorter) (Orderings, error) {
	if len(sorters) > 0 {
		return ParseSort(sorters, p.resolveColumn)
	}

	if len(p.defaultSort) > 0 {
		return p.defaultSort, nil
	}

	sch, err := p.schema()
	if err != nil {
		return nil, err
	}

	if sch.PrioritizedPrimaryField == nil {
		return nil, fmt.Errorf("%w: no sort given and '%s' has no primary key", ErrInvalidSort, sch.Name)
	}

	return Orderings{{Column: sch.PrioritizedPrimaryField.DBName, Direction: DirectionASC}}, nil
}

// resolveColumn - implements ColumnResolver. Column aliases win; otherwise
// the property must name a column or a field of T, in any case style.
func (p *Pager[T]) resolveColumn(property string) (string, error) {
	if column, ok := p.columns.Lookup(property); ok {
		return column, nil
	}

	sch, err := p.schema()
	if err != nil {
		return "", err
	}

	for _, name := range []string{property, exportedName(property), p.db.NamingStrategy.ColumnName("", property)} {
		if field := sch.LookUpField(name); field != nil && field.DBName != "" {
			return field.DBName, nil
		}
	}

	known := append(lo.Keys(p.columns), sch.DBNames...)

	return "", fmt.Errorf("%w: invalid sort property '%s'. closest: '%s'", ErrInvalidSort, property, closestAlias(property, known))
}

func (p *Pager[T]) schema() (*schema.Schema, error) {
	sch, err := schema.Parse(new(T), p.schemaCache, p.db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("cannot parse schema of entity: %w", err)
	}

	return sch, nil
}
