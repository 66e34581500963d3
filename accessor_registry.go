package gridpager

import "reflect"

// Accessors maps field names to functions reading them off an entity. Use
// it for computed fields, or to avoid reflection on hot types. Registered
// accessors take precedence over getters and fields.
//
// Example:
//
//	gridpager.RegisterAccessors(dumper, gridpager.Accessors[models.User]{
//		"full_name": func(u models.User) any { return u.FirstName + " " + u.LastName },
//	})
type Accessors[T any] map[string]func(T) any

// RegisterAccessors registers accessors for T. They also serve *T values.
// Field names are camelized, so "full_name" and "fullName" are the same
// field.
func RegisterAccessors[T any](d *Dumper, accessors Accessors[T]) {
	typ := reflect.TypeFor[T]()

	for name, fn := range accessors {
		fn := fn
		d.cache.register(typ, name, func(v reflect.Value) any {
			for v.Type() != typ && v.Kind() == reflect.Pointer {
				v = v.Elem()
			}

			return fn(v.Interface().(T))
		})
	}
}
