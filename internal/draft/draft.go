// Package draft produces independent deep copies of Go values.
//
// Reducers mutate a draft of the current state; committing the draft means
// returning it. Because the draft shares no maps, slices or pointers with the
// input, the previous state value is never observed to change.
package draft

import "reflect"

// Clone returns a deep copy of v.
//
// Maps, slices, arrays, pointers, interfaces and exported struct fields are
// copied recursively. Unexported struct fields, channels and functions are
// copied shallowly. Cyclic pointer graphs are not supported.
func Clone[T any](v T) T {
	src := reflect.ValueOf(&v).Elem()
	out := reflect.New(src.Type())
	copyValue(out.Elem(), src)
	return *out.Interface().(*T)
}

func copyValue(dst, src reflect.Value) {
	switch src.Kind() {
	case reflect.Pointer:
		if src.IsNil() {
			return
		}
		elem := reflect.New(src.Type().Elem())
		copyValue(elem.Elem(), src.Elem())
		dst.Set(elem)

	case reflect.Interface:
		if src.IsNil() {
			return
		}
		inner := src.Elem()
		copied := reflect.New(inner.Type()).Elem()
		copyValue(copied, inner)
		dst.Set(copied)

	case reflect.Map:
		if src.IsNil() {
			return
		}
		m := reflect.MakeMapWithSize(src.Type(), src.Len())
		iter := src.MapRange()
		for iter.Next() {
			val := reflect.New(src.Type().Elem()).Elem()
			copyValue(val, iter.Value())
			m.SetMapIndex(iter.Key(), val)
		}
		dst.Set(m)

	case reflect.Slice:
		if src.IsNil() {
			return
		}
		s := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			copyValue(s.Index(i), src.Index(i))
		}
		dst.Set(s)

	case reflect.Array:
		for i := 0; i < src.Len(); i++ {
			copyValue(dst.Index(i), src.Index(i))
		}

	case reflect.Struct:
		// Shallow copy first so unexported fields carry over.
		dst.Set(src)
		for i := 0; i < src.NumField(); i++ {
			if !dst.Field(i).CanSet() {
				continue
			}
			copyValue(dst.Field(i), src.Field(i))
		}

	default:
		dst.Set(src)
	}
}
