package cacheload

import "reflect"

// clone copies the slices, maps and pointers reachable from v through
// exported fields, so callers and the cache never share mutable memory.
// Unexported fields are copied by value.
func clone[T any](v T) T {
	src := reflect.ValueOf(&v).Elem()
	if !needsCopy(src.Type()) {
		return v
	}
	return cloneValue(src).Interface().(T)
}

func cloneValue(src reflect.Value) reflect.Value {
	switch src.Kind() {
	case reflect.Slice:
		if src.IsNil() {
			return src
		}
		dst := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			dst.Index(i).Set(cloneValue(src.Index(i)))
		}
		return dst

	case reflect.Map:
		if src.IsNil() {
			return src
		}
		dst := reflect.MakeMapWithSize(src.Type(), src.Len())
		iter := src.MapRange()
		for iter.Next() {
			dst.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return dst

	case reflect.Pointer:
		if src.IsNil() {
			return src
		}
		dst := reflect.New(src.Type().Elem())
		dst.Elem().Set(cloneValue(src.Elem()))
		return dst

	case reflect.Array, reflect.Struct:
		if !needsCopy(src.Type()) {
			return src
		}
		dst := reflect.New(src.Type()).Elem()
		dst.Set(src)
		if src.Kind() == reflect.Array {
			for i := 0; i < src.Len(); i++ {
				dst.Index(i).Set(cloneValue(src.Index(i)))
			}
			return dst
		}
		for i := 0; i < src.NumField(); i++ {
			if field := dst.Field(i); field.CanSet() {
				field.Set(cloneValue(src.Field(i)))
			}
		}
		return dst
	}

	return src
}

// needsCopy reports whether values of t can reach shared memory through
// exported fields.
func needsCopy(t reflect.Type) bool {
	return reachesShared(t, map[reflect.Type]bool{})
}

func reachesShared(t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true

	switch t.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer:
		return true
	case reflect.Array:
		return reachesShared(t.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if f := t.Field(i); f.IsExported() && reachesShared(f.Type, seen) {
				return true
			}
		}
	}
	return false
}
