package gridpager

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// AccessorKind is the strategy used to read a named member off a type.
type AccessorKind int

const (
	// AccessorRegistered reads the member through a function registered with
	// RegisterAccessors.
	AccessorRegistered AccessorKind = iota + 1
	// AccessorGetter calls an exported zero-argument method: GetName or Name.
	AccessorGetter
	// AccessorIsser calls an exported zero-argument IsName method.
	AccessorIsser
	// AccessorField reads an exported struct field.
	AccessorField
	// AccessorDynamic reads a key of a string-keyed map.
	AccessorDynamic
)

func (k AccessorKind) String() string {
	switch k {
	case AccessorRegistered:
		return "registered"
	case AccessorGetter:
		return "getter"
	case AccessorIsser:
		return "isser"
	case AccessorField:
		return "field"
	case AccessorDynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("AccessorKind(%d)", int(k))
	}
}

type (
	accessorKey struct {
		typ  reflect.Type
		name string
	}

	// accessor is the resolved strategy for one (type, field) pair.
	accessor struct {
		kind AccessorKind
		// name is the member name as declared on the type.
		name string
		// method is the method index in the method set of the receiver type.
		method int
		// pointerReceiver is set when the method is declared on *T and the
		// cached type is T.
		pointerReceiver bool
		// index is the field index path, promoted fields included.
		index []int
		// keys are the candidate map keys for dynamic attributes.
		keys []string
		// fn is the registered accessor function.
		fn func(reflect.Value) any
	}

	// accessorCache memoizes accessor discovery per concrete type and field
	// name. Entries are never evicted: the number of distinct (type, field)
	// pairs in a process is bounded by the entity model, not by traffic.
	accessorCache struct {
		mu         sync.RWMutex
		entries    map[accessorKey]accessor
		registered map[accessorKey]func(reflect.Value) any
	}
)

func newAccessorCache() *accessorCache {
	return &accessorCache{
		entries:    make(map[accessorKey]accessor),
		registered: make(map[accessorKey]func(reflect.Value) any),
	}
}

// strategy returns the cached accessor for typ and field, discovering it on
// first use.
func (c *accessorCache) strategy(typ reflect.Type, field string) (accessor, error) {
	key := accessorKey{typ: typ, name: field}

	c.mu.RLock()
	a, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return a, nil
	}

	a, err := c.discover(typ, field)
	if err != nil {
		return accessor{}, err
	}

	c.mu.Lock()
	// A registration may have landed while discovering.
	if camel := Camelize(field); camel != "" {
		if fn, ok := c.lookupRegisteredLocked(typ, camel); ok {
			a = accessor{kind: AccessorRegistered, name: camel, fn: fn}
		}
	}
	c.entries[key] = a
	c.mu.Unlock()

	return a, nil
}

// len returns the number of cached strategies.
func (c *accessorCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *accessorCache) register(typ reflect.Type, field string, fn func(reflect.Value) any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := Camelize(field)
	c.registered[accessorKey{typ: typ, name: name}] = fn

	// Drop strategies discovered before the registration.
	for key := range c.entries {
		if Camelize(key.name) == name && (key.typ == typ || key.typ == reflect.PointerTo(typ)) {
			delete(c.entries, key)
		}
	}
}

func (c *accessorCache) lookupRegistered(typ reflect.Type, name string) (func(reflect.Value) any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lookupRegisteredLocked(typ, name)
}

// lookupRegisteredLocked is lookupRegistered for callers holding c.mu.
func (c *accessorCache) lookupRegisteredLocked(typ reflect.Type, name string) (func(reflect.Value) any, bool) {
	if fn, ok := c.registered[accessorKey{typ: typ, name: name}]; ok {
		return fn, true
	}
	if typ.Kind() == reflect.Pointer {
		fn, ok := c.registered[accessorKey{typ: typ.Elem(), name: name}]
		return fn, ok
	}

	return nil, false
}

// discover finds how field is read off typ. The first match wins:
//  1. an accessor registered for the type;
//  2. method GetField;
//  3. method IsField;
//  4. method Field;
//  5. exported struct field Field (initialisms such as ID match too);
//  6. a key of a string-keyed map.
func (c *accessorCache) discover(typ reflect.Type, field string) (accessor, error) {
	camel := Camelize(field)
	if camel == "" {
		return accessor{}, fmt.Errorf("%w: empty member name on type '%s'", ErrInvalidFieldPath, typ)
	}
	exported := exportedName(camel)

	if fn, ok := c.lookupRegistered(typ, camel); ok {
		return accessor{kind: AccessorRegistered, name: camel, fn: fn}, nil
	}

	candidates := []struct {
		name string
		kind AccessorKind
	}{
		{"Get" + exported, AccessorGetter},
		{"Is" + exported, AccessorIsser},
		{exported, AccessorGetter},
	}
	for _, candidate := range candidates {
		a, ok, err := lookupMethod(typ, candidate.name, candidate.kind)
		if err != nil {
			return accessor{}, err
		}
		if ok {
			return a, nil
		}
	}

	structType := typ
	for structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	switch structType.Kind() {
	case reflect.Struct:
		if f, ok := structType.FieldByName(exported); ok && f.IsExported() {
			return accessor{kind: AccessorField, name: f.Name, index: f.Index}, nil
		}

		f, ok := structType.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, exported)
		})
		if ok {
			if !f.IsExported() {
				return accessor{}, fmt.Errorf(
					"%w: field '%s' is not exported in type '%s', add method 'Get%s()' or 'Is%s()'",
					ErrAccessDenied, f.Name, typ, exported, exported,
				)
			}

			return accessor{kind: AccessorField, name: f.Name, index: f.Index}, nil
		}
	case reflect.Map:
		if structType.Key().Kind() == reflect.String {
			keys := []string{field}
			if camel != field {
				keys = append(keys, camel)
			}

			return accessor{kind: AccessorDynamic, name: field, keys: keys}, nil
		}
	default:
	}

	return accessor{}, fmt.Errorf(
		"%w: neither field '%s' nor method 'Get%s()' nor method 'Is%s()' exists in type '%s'",
		ErrNoSuchMember, exported, exported, exported, typ,
	)
}

// lookupMethod looks for an exported method on typ, falling back to the
// method set of *typ for addressable copies. Exact names win over
// case-insensitive matches, so "GetId" finds GetID.
func lookupMethod(typ reflect.Type, name string, kind AccessorKind) (accessor, bool, error) {
	m, pointerReceiver, ok := findMethod(typ, name)
	if !ok {
		return accessor{}, false, nil
	}

	if !isGetterSignature(m.Type) {
		return accessor{}, false, fmt.Errorf(
			"%w: method '%s()' of type '%s' is not a zero-argument getter",
			ErrAccessDenied, m.Name, typ,
		)
	}

	return accessor{
		kind:            kind,
		name:            m.Name,
		method:          m.Index,
		pointerReceiver: pointerReceiver,
	}, true, nil
}

func findMethod(typ reflect.Type, name string) (reflect.Method, bool, bool) {
	receivers := []reflect.Type{typ}
	if typ.Kind() != reflect.Pointer && typ.Kind() != reflect.Interface {
		receivers = append(receivers, reflect.PointerTo(typ))
	}

	for i, receiver := range receivers {
		if m, ok := receiver.MethodByName(name); ok {
			return m, i > 0, true
		}
	}

	for i, receiver := range receivers {
		for j := 0; j < receiver.NumMethod(); j++ {
			if m := receiver.Method(j); strings.EqualFold(m.Name, name) {
				return m, i > 0, true
			}
		}
	}

	return reflect.Method{}, false, false
}

var _errorType = reflect.TypeFor[error]()

// isGetterSignature accepts func(recv) T and func(recv) (T, error).
func isGetterSignature(methodType reflect.Type) bool {
	if methodType.NumIn() != 1 || methodType.IsVariadic() {
		return false
	}

	switch methodType.NumOut() {
	case 1:
		return true
	case 2:
		return methodType.Out(1) == _errorType
	default:
		return false
	}
}

// access reads the member described by a off v. v must not be a nil pointer.
func (c *accessorCache) access(v reflect.Value, a accessor) (any, error) {
	switch a.kind {
	case AccessorRegistered:
		return a.fn(v), nil
	case AccessorGetter, AccessorIsser:
		receiver := v
		if a.pointerReceiver {
			if receiver.CanAddr() {
				receiver = receiver.Addr()
			} else {
				ptr := reflect.New(receiver.Type())
				ptr.Elem().Set(receiver)
				receiver = ptr
			}
		}

		out := receiver.Method(a.method).Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, fmt.Errorf("method '%s()' of type '%s' failed: %w", a.name, v.Type(), out[1].Interface().(error))
		}

		return out[0].Interface(), nil
	case AccessorField:
		sv := reflect.Indirect(v)
		f, err := sv.FieldByIndexErr(a.index)
		if err != nil {
			return nil, fmt.Errorf("%w: field '%s' of type '%s': %w", ErrFieldNotFound, a.name, v.Type(), err)
		}

		return f.Interface(), nil
	case AccessorDynamic:
		sv := reflect.Indirect(v)
		for _, key := range a.keys {
			mv := sv.MapIndex(reflect.ValueOf(key).Convert(sv.Type().Key()))
			if mv.IsValid() {
				return mv.Interface(), nil
			}
		}

		return nil, fmt.Errorf("%w: key '%s' does not exist in '%s'", ErrNoSuchMember, a.name, v.Type())
	default:
		return nil, fmt.Errorf("unexpected accessor kind '%s'", a.kind)
	}
}
