package reactive

import "github.com/AnatoleLucet/reactive/internal"

const refKey = "value"

// Ref is a single reactive value.
type Ref[T any] struct {
	rt     *internal.Runtime
	target *internal.Target

	value T
}

func NewRef[T any](r *Runtime, initial T) *Ref[T] {
	return &Ref[T]{
		rt:     r.rt,
		target: internal.NewTarget(),
		value:  initial,
	}
}

// Get returns the value and tracks it in the running effect.
func (r *Ref[T]) Get() T {
	r.rt.Track(r.target, refKey)
	return r.value
}

// Peek returns the value without tracking it.
func (r *Ref[T]) Peek() T { return r.value }

// Set stores v and triggers the dependents. Values are not compared: every
// Set triggers.
func (r *Ref[T]) Set(v T) {
	r.value = v
	r.rt.Trigger(r.target, refKey)
}

// Update is Set(fn(Get())).
func (r *Ref[T]) Update(fn func(T) T) {
	r.Set(fn(r.Get()))
}

func (r *Ref[T]) Target() *Target { return r.target }

func (r *Ref[T]) Traverse(visit func(value any)) {
	visit(r.Get())
}
