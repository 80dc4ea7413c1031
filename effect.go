package reactive

import "github.com/AnatoleLucet/reactive/internal"

// Scheduler decides how a triggered effect re-runs: now, later, or batched.
// It must eventually call h.Run for the effect to pick up the change.
type Scheduler func(h *Handle)

type effectConfig struct {
	lazy      bool
	scheduler Scheduler
	name      string
	onTrack   func(TrackEvent)
	onTrigger func(TriggerEvent)
}

// EffectOption configures an effect.
type EffectOption func(*effectConfig)

// Lazy registers the effect without running it. Call Run to start tracking.
func Lazy() EffectOption {
	return func(c *effectConfig) { c.lazy = true }
}

// WithScheduler overrides how the effect re-runs when triggered.
func WithScheduler(s Scheduler) EffectOption {
	return func(c *effectConfig) { c.scheduler = s }
}

// WithName names the effect for observers.
func WithName(name string) EffectOption {
	return func(c *effectConfig) { c.name = name }
}

// OnTrack is called each time the effect picks up a new dependency.
func OnTrack(fn func(TrackEvent)) EffectOption {
	return func(c *effectConfig) { c.onTrack = fn }
}

// OnTrigger is called each time a write is about to re-run the effect.
func OnTrigger(fn func(TriggerEvent)) EffectOption {
	return func(c *effectConfig) { c.onTrigger = fn }
}

// Handle is a registered effect.
type Handle struct {
	effect *internal.Effect
}

func newHandle(r *Runtime, fn func() any, opts []EffectOption) *Handle {
	var cfg effectConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Handle{}

	options := internal.EffectOptions{
		Lazy:      cfg.lazy,
		Kind:      internal.EffectUser,
		Name:      cfg.name,
		OnTrack:   cfg.onTrack,
		OnTrigger: cfg.onTrigger,
	}
	if s := cfg.scheduler; s != nil {
		options.Scheduler = func(*internal.Effect) { s(h) }
	}

	h.effect = r.rt.CreateEffect(fn, options)
	if !cfg.lazy {
		h.effect.Run()
	}

	return h
}

// NewEffect registers fn and runs it once, unless Lazy is given. fn re-runs
// whenever something it read during its last run changes.
func NewEffect(r *Runtime, fn func(), opts ...EffectOption) *Handle {
	return newHandle(r, func() any {
		fn()
		return nil
	}, opts)
}

// Run re-collects the effect's dependencies by running it now.
func (h *Handle) Run() { h.effect.Run() }

// Stop unsubscribes the effect from everything it depends on.
func (h *Handle) Stop() { h.effect.Stop() }

func (h *Handle) Stopped() bool { return h.effect.Stopped() }

func (h *Handle) ID() uint64 { return h.effect.ID() }

// Deps returns the number of (source, key) pairs the effect depends on.
func (h *Handle) Deps() int { return len(h.effect.Deps()) }

// EffectFunc is an effect whose function returns a value.
type EffectFunc[T any] struct {
	*Handle
}

// NewEffectFunc is NewEffect for a function with a result, usually combined
// with Lazy so the caller decides when to evaluate it.
func NewEffectFunc[T any](r *Runtime, fn func() T, opts ...EffectOption) *EffectFunc[T] {
	return &EffectFunc[T]{
		newHandle(r, func() any { return fn() }, opts),
	}
}

// Run runs the effect and returns its result.
func (f *EffectFunc[T]) Run() T {
	return as[T](f.effect.Run())
}
