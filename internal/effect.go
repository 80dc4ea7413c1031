package internal

import "sync/atomic"

var effectIDs atomic.Uint64

type EffectKind int

const (
	EffectUser EffectKind = iota
	EffectComputed
	EffectWatch
)

func (k EffectKind) String() string {
	switch k {
	case EffectComputed:
		return "computed"
	case EffectWatch:
		return "watch"
	default:
		return "effect"
	}
}

// Scheduler decides how a triggered effect is re-run. It receives the effect
// and is expected to call Run on it, now or later.
type Scheduler func(*Effect)

type EffectOptions struct {
	Lazy      bool
	Scheduler Scheduler

	Kind EffectKind
	Name string

	// debugger hooks, called for this effect only
	OnTrack   func(TrackEvent)
	OnTrigger func(TriggerEvent)
}

type Effect struct {
	rt *Runtime
	id uint64

	fn func() any

	// every dep set this effect joined during its last run
	deps []*DepSet

	opts    EffectOptions
	stopped bool
}

// NewEffect registers fn and, unless opts.Lazy is set, runs it once.
func (r *Runtime) NewEffect(fn func() any, opts EffectOptions) *Effect {
	e := r.CreateEffect(fn, opts)

	if !opts.Lazy {
		e.Run()
	}

	return e
}

// CreateEffect registers fn without running it, whatever opts.Lazy says.
func (r *Runtime) CreateEffect(fn func() any, opts EffectOptions) *Effect {
	return &Effect{
		rt:   r,
		id:   effectIDs.Add(1),
		fn:   fn,
		opts: opts,
	}
}

// Run drops the effect's dependencies, runs its function as the active effect
// and returns the function's result.
func (e *Effect) Run() any {
	var result any
	if e.stopped {
		e.rt.ctx.RunWithEffect(nil, func() {
			result = e.fn()
		})
		return result
	}

	e.rt.observer.Run(e.Info(), func() {
		e.rt.store.unlink(e)
		e.rt.ctx.RunWithEffect(e, func() {
			result = e.fn()
		})
	})

	return result
}

// Stop removes the effect from every dep set. A stopped effect is never
// triggered again; running it by hand calls its function without tracking.
func (e *Effect) Stop() {
	if e.stopped {
		return
	}

	e.rt.store.unlink(e)
	e.stopped = true

	e.rt.logger.Debug("effect stopped", "effect", e.id, "kind", e.opts.Kind.String())
}

func (e *Effect) ID() uint64 { return e.id }

func (e *Effect) Stopped() bool { return e.stopped }

func (e *Effect) Runtime() *Runtime { return e.rt }

// Deps returns a copy of the effect's membership list.
func (e *Effect) Deps() []*DepSet {
	return e.rt.store.deps(e)
}

func (e *Effect) Info() EffectInfo {
	return EffectInfo{
		ID:   e.id,
		Name: e.opts.Name,
		Kind: e.opts.Kind,
		Lazy: e.opts.Lazy,
	}
}
