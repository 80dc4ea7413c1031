package internal

// ComputedKey is the only key a computed value exposes.
const ComputedKey = "value"

// Computed is a lazy, cached derived value. Its getter runs in a lazy effect;
// when one of the getter's sources changes the effect is not re-run, the
// computed is only marked dirty and its own readers are triggered.
type Computed struct {
	target *Target
	effect *Effect

	dirty bool
	value any
}

func (r *Runtime) NewComputed(getter func() any, name string) *Computed {
	c := &Computed{
		target: NewTarget(),
		dirty:  true,
	}

	c.effect = r.NewEffect(getter, EffectOptions{
		Lazy: true,
		Kind: EffectComputed,
		Name: name,
		Scheduler: func(*Effect) {
			c.dirty = true
			// readers of Value() depend on the computed's target, not on the
			// getter's sources, so they are only reached through this trigger
			r.Trigger(c.target, ComputedKey)
		},
	})

	return c
}

// Value returns the cached value, recomputing it first when dirty.
func (c *Computed) Value() any {
	if c.dirty {
		c.value = c.effect.Run()
		c.dirty = false
	}

	c.effect.rt.Track(c.target, ComputedKey)
	return c.value
}

func (c *Computed) Dirty() bool { return c.dirty }

func (c *Computed) Target() *Target { return c.target }

func (c *Computed) Effect() *Effect { return c.effect }

// Stop detaches the computed from its sources. The cached value is kept.
func (c *Computed) Stop() {
	c.effect.Stop()
}
