package internal

import "reflect"

// Traversable is implemented by reactive sources that can be walked deeply.
// Traverse must read every own property through its tracking accessor and
// hand each value to visit.
type Traversable interface {
	Traverse(visit func(value any))
}

type seenKey struct {
	typ reflect.Type
	ptr uintptr
}

// Traverse reads everything reachable from value so that each read is tracked
// by the active effect. Cycles are cut with seen, which may be nil.
func Traverse(value any, seen map[any]struct{}) {
	if seen == nil {
		seen = make(map[any]struct{})
	}

	traverse(value, seen)
}

func traverse(value any, seen map[any]struct{}) {
	if value == nil {
		return
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return
		}
		key := seenKey{typ: rv.Type(), ptr: rv.Pointer()}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
	case reflect.Struct, reflect.Array:
	default:
		return
	}

	if t, ok := value.(Traversable); ok {
		t.Traverse(func(child any) { traverse(child, seen) })
		return
	}

	visit := func(v reflect.Value) {
		if v.IsValid() && v.CanInterface() {
			traverse(v.Interface(), seen)
		}
	}

	switch rv.Kind() {
	case reflect.Pointer:
		visit(rv.Elem())
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			visit(iter.Value())
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			visit(rv.Index(i))
		}
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			visit(rv.Field(i))
		}
	}
}
