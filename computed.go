package reactive

import "github.com/AnatoleLucet/reactive/internal"

// Computed is a lazily evaluated, cached value derived from other sources.
type Computed[T any] struct {
	computed *internal.Computed
}

// NewComputed creates a computed value. getter runs on the first Value call
// and again on the first Value call after one of its sources changed.
func NewComputed[T any](r *Runtime, getter func() T) *Computed[T] {
	return &Computed[T]{
		r.rt.NewComputed(func() any { return getter() }, ""),
	}
}

// Value returns the cached value, recomputing it if a source changed.
// Effects reading Value re-run when the value becomes stale.
func (c *Computed[T]) Value() T {
	return as[T](c.computed.Value())
}

// Dirty reports whether the next Value call recomputes.
func (c *Computed[T]) Dirty() bool { return c.computed.Dirty() }

// Stop detaches the computed from its sources; Value keeps returning the
// last cached result.
func (c *Computed[T]) Stop() { c.computed.Stop() }

func (c *Computed[T]) Target() *Target { return c.computed.Target() }

func (c *Computed[T]) Traverse(visit func(value any)) {
	visit(c.Value())
}
