package reactive

import (
	"cmp"
	"maps"
	"slices"

	"github.com/AnatoleLucet/reactive/internal"
)

// iterateKey is tracked by reads that depend on the set of keys rather than
// on one key.
type iterateKey struct{}

// Record is a reactive keyed object. Every Get tracks its key, every Set
// triggers it. Adding or removing a key also triggers readers of Keys and Len.
type Record[K cmp.Ordered, V any] struct {
	rt     *internal.Runtime
	target *internal.Target

	data map[K]V
}

// NewRecord creates a record holding a copy of init.
func NewRecord[K cmp.Ordered, V any](r *Runtime, init map[K]V) *Record[K, V] {
	data := make(map[K]V, len(init))
	maps.Copy(data, init)

	return &Record[K, V]{
		rt:     r.rt,
		target: internal.NewTarget(),
		data:   data,
	}
}

func (r *Record[K, V]) Get(key K) V {
	v, _ := r.Lookup(key)
	return v
}

func (r *Record[K, V]) Lookup(key K) (V, bool) {
	r.rt.Track(r.target, key)
	v, ok := r.data[key]
	return v, ok
}

func (r *Record[K, V]) Has(key K) bool {
	_, ok := r.Lookup(key)
	return ok
}

// Peek returns the value for key without tracking it.
func (r *Record[K, V]) Peek(key K) V { return r.data[key] }

func (r *Record[K, V]) Set(key K, v V) {
	_, existed := r.data[key]
	r.data[key] = v

	r.rt.Trigger(r.target, key)
	if !existed {
		r.rt.Trigger(r.target, iterateKey{})
	}
}

// Update is Set(key, fn(Get(key))).
func (r *Record[K, V]) Update(key K, fn func(V) V) {
	r.Set(key, fn(r.Get(key)))
}

func (r *Record[K, V]) Delete(key K) bool {
	if _, ok := r.data[key]; !ok {
		return false
	}
	delete(r.data, key)

	r.rt.Trigger(r.target, key)
	r.rt.Trigger(r.target, iterateKey{})
	return true
}

// Keys returns the keys in ascending order.
func (r *Record[K, V]) Keys() []K {
	r.rt.Track(r.target, iterateKey{})
	return slices.Sorted(maps.Keys(r.data))
}

func (r *Record[K, V]) Len() int {
	r.rt.Track(r.target, iterateKey{})
	return len(r.data)
}

func (r *Record[K, V]) Target() *Target { return r.target }

// Traverse visits every value in key order, tracking the keys as it goes.
func (r *Record[K, V]) Traverse(visit func(value any)) {
	for _, k := range r.Keys() {
		visit(r.Get(k))
	}
}
