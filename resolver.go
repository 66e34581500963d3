package gridpager

import (
	"fmt"
	"reflect"
	"strings"
)

// resolvePath returns the raw value addressed by a dotted path, e.g.
// "address.city". Each segment is read through the accessor cache.
func (d *Dumper) resolvePath(object any, path string) (any, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidFieldPath)
	}

	head, rest, nested := strings.Cut(path, ".")
	if head == "" || (nested && rest == "") {
		return nil, fmt.Errorf("%w: empty segment in '%s'", ErrInvalidFieldPath, path)
	}

	value, err := d.resolveMember(object, head)
	if err != nil {
		return nil, err
	}

	if !nested {
		return value, nil
	}

	if isNil(value) {
		return nil, fmt.Errorf(
			"%w: '%s' of type '%s' is nil, cannot resolve '%s'",
			ErrFieldNotFound, head, typeName(object), rest,
		)
	}

	return d.resolvePath(value, rest)
}

// resolveMember reads a single member off object.
func (d *Dumper) resolveMember(object any, name string) (any, error) {
	if isNil(object) {
		return nil, fmt.Errorf("%w: cannot read '%s' of nil '%s'", ErrFieldNotFound, name, typeName(object))
	}

	// **T and deeper are read as *T.
	v := reflect.ValueOf(object)
	for v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Pointer {
		v = v.Elem()
		if v.IsNil() {
			return nil, fmt.Errorf("%w: cannot read '%s' of nil '%s'", ErrFieldNotFound, name, typeName(object))
		}
	}

	a, err := d.cache.strategy(v.Type(), name)
	if err != nil {
		return nil, err
	}

	return d.cache.access(v, a)
}

// isNil reports whether v is nil or a typed nil pointer, map, slice,
// interface or func.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}

	return reflect.TypeOf(v).String()
}
