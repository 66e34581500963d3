package gridpager

import (
	"database/sql/driver"
	"encoding"
	"fmt"
	"reflect"
	"time"
)

// DateLayout is the default layout dates are rendered with.
const DateLayout = time.DateOnly

var (
	_timeType          = reflect.TypeFor[time.Time]()
	_valuerType        = reflect.TypeFor[driver.Valuer]()
	_textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// normalize converts a resolved value to its wire form:
//   - dates become DateLayout strings;
//   - driver.Valuer values (gorm.DeletedAt, sql.Null*) become their driver
//     value;
//   - encoding.TextMarshaler values become strings;
//   - collections of entities become []Record, each element dumped with its
//     own default fields;
//   - single entities become a Record of their default fields;
//   - string-keyed maps and other collections are normalized element-wise;
//   - scalars are returned unchanged.
//
// depth is the nesting level of the entity the value belongs to.
func (d *Dumper) normalize(value any, depth int) (any, error) {
	if isNil(value) {
		return nil, nil
	}

	switch v := value.(type) {
	case time.Time:
		return v.Format(d.dateLayout), nil
	case *time.Time:
		return v.Format(d.dateLayout), nil
	case []byte:
		return v, nil
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return nil, fmt.Errorf("cannot read driver value of '%T': %w", value, err)
		}

		return d.normalize(dv, depth)
	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("cannot marshal '%T' as text: %w", value, err)
		}

		return string(text), nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.Elem().Kind() == reflect.Pointer {
			return d.normalize(rv.Elem().Interface(), depth)
		}

		if isEntityType(rv.Type()) {
			return d.dump(value, nil, depth+1)
		}

		return d.normalize(rv.Elem().Interface(), depth)
	case reflect.Struct:
		if isEntityType(rv.Type()) {
			return d.dump(value, nil, depth+1)
		}

		// Valuer or TextMarshaler declared on the pointer receiver.
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)

		return d.normalize(ptr.Interface(), depth)
	case reflect.Slice, reflect.Array:
		return d.normalizeCollection(rv, depth)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return value, nil
		}

		ret := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			nv, err := d.normalize(iter.Value().Interface(), depth)
			if err != nil {
				return nil, err
			}
			ret[iter.Key().String()] = nv
		}

		return ret, nil
	default:
		return value, nil
	}
}

func (d *Dumper) normalizeCollection(rv reflect.Value, depth int) (any, error) {
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return rv.Interface(), nil
	}

	if isEntityType(rv.Type().Elem()) {
		records := make([]Record, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i)
			if elem.Kind() == reflect.Pointer && elem.IsNil() {
				continue
			}

			record, err := d.dump(elem.Interface(), nil, depth+1)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}

		return records, nil
	}

	ret := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		nv, err := d.normalize(rv.Index(i).Interface(), depth)
		if err != nil {
			return nil, err
		}
		ret = append(ret, nv)
	}

	return ret, nil
}

// isEntityType reports whether values of t are dumped as records: structs or
// pointers to structs that are not dates or self-rendering values.
func isEntityType(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct || t == _timeType {
		return false
	}

	pt := reflect.PointerTo(t)

	return !t.Implements(_valuerType) && !t.Implements(_textMarshalerType) &&
		!pt.Implements(_valuerType) && !pt.Implements(_textMarshalerType)
}
