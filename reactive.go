// Package reactive tracks which state each effect reads and re-runs or
// schedules the right effects when that state changes.
package reactive

import (
	"log/slog"

	"github.com/AnatoleLucet/reactive/eventloop"
	"github.com/AnatoleLucet/reactive/internal"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Target is the identity of a reactive source. Custom sources hold one and
// call Runtime.Track on reads and Runtime.Trigger after writes.
type Target = internal.Target

// NewTarget allocates a fresh source identity.
func NewTarget() *Target { return internal.NewTarget() }

type (
	Observer     = internal.Observer
	EffectInfo   = internal.EffectInfo
	TrackEvent   = internal.TrackEvent
	TriggerEvent = internal.TriggerEvent
)

// Observers fans events out to every observer, in order.
func Observers(observers ...Observer) Observer {
	return internal.MultiObserver(observers)
}

// LogObserver logs every track, trigger and effect run at debug level.
func LogObserver(logger *slog.Logger) Observer {
	return internal.LogObserver{Logger: logger, Level: slog.LevelDebug}
}

// Option configures a Runtime.
type Option func(*internal.RuntimeOptions)

// WithObserver installs observers on the runtime. Several observers are
// combined with Observers.
func WithObserver(observers ...Observer) Option {
	return func(o *internal.RuntimeOptions) {
		if len(observers) == 1 {
			o.Observer = observers[0]
			return
		}
		o.Observer = Observers(observers...)
	}
}

// WithLogger sets the runtime logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *internal.RuntimeOptions) {
		o.Logger = logger
	}
}

// WithLoop sets the loop deferred work is queued on.
// By default each runtime gets its own loop.
func WithLoop(loop *eventloop.Loop) Option {
	return func(o *internal.RuntimeOptions) {
		o.Loop = loop
	}
}

// Runtime is one independent reactive graph. It is not safe for concurrent
// use: create, read and write its sources from a single goroutine.
type Runtime struct {
	rt *internal.Runtime
}

// NewRuntime creates an isolated reactive graph.
func NewRuntime(opts ...Option) *Runtime {
	var options internal.RuntimeOptions
	for _, opt := range opts {
		opt(&options)
	}

	return &Runtime{internal.NewRuntime(options)}
}

// Default returns the calling goroutine's runtime, creating it on first use.
func Default() *Runtime {
	return &Runtime{internal.GetRuntime()}
}

// ReleaseDefault forgets the calling goroutine's runtime.
// Call it before a goroutine that used Default exits.
func ReleaseDefault() {
	internal.ReleaseRuntime()
}

// Loop returns the loop that runs the runtime's deferred work.
func (r *Runtime) Loop() *eventloop.Loop { return r.rt.Loop() }

// Track registers the running effect, if any, as a dependent of (t, key).
func (r *Runtime) Track(t *Target, key any) { r.rt.Track(t, key) }

// Trigger runs or schedules the effects depending on (t, key).
func (r *Runtime) Trigger(t *Target, key any) { r.rt.Trigger(t, key) }

// Tracking reports whether an effect is currently collecting dependencies.
func (r *Runtime) Tracking() bool { return r.rt.Active() != nil }

// Sources returns the number of targets the dependency store holds.
func (r *Runtime) Sources() int { return r.rt.Store().Len() }

// Dependents returns how many effects depend on (t, key).
func (r *Runtime) Dependents(t *Target, key any) int {
	set := r.rt.Store().Lookup(t, key)
	if set == nil {
		return 0
	}

	return set.Len()
}

// Untrack runs fn without tracking any reads.
func Untrack[T any](r *Runtime, fn func() T) T {
	var result T
	r.rt.Untrack(func() { result = fn() })
	return result
}
