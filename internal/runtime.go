package internal

import (
	"log/slog"

	"github.com/AnatoleLucet/reactive/eventloop"
)

type RuntimeOptions struct {
	Observer Observer
	Logger   *slog.Logger

	// Loop receives deferred work (post-flush watchers, job queues).
	Loop *eventloop.Loop
}

// Runtime owns one reactive graph: its dependency store and execution context.
// A runtime is not safe for concurrent use; drive it from one goroutine.
type Runtime struct {
	store *Store
	ctx   *ExecutionContext

	observer Observer
	logger   *slog.Logger
	loop     *eventloop.Loop
}

func NewRuntime(opts RuntimeOptions) *Runtime {
	r := &Runtime{
		store:    NewStore(),
		ctx:      NewContext(),
		observer: opts.Observer,
		logger:   opts.Logger,
		loop:     opts.Loop,
	}

	if r.observer == nil {
		r.observer = NopObserver{}
	}
	if r.logger == nil {
		r.logger = slog.Default().With("component", "reactive")
	}
	if r.loop == nil {
		r.loop = eventloop.New(eventloop.WithLogger(r.logger))
	}

	return r
}

func (r *Runtime) Store() *Store { return r.store }

func (r *Runtime) Context() *ExecutionContext { return r.ctx }

func (r *Runtime) Loop() *eventloop.Loop { return r.loop }

func (r *Runtime) Logger() *slog.Logger { return r.logger }

// Active returns the effect currently collecting dependencies, if any.
func (r *Runtime) Active() *Effect {
	return r.ctx.Active()
}

// Untrack runs fn with no active effect.
func (r *Runtime) Untrack(fn func()) {
	r.ctx.RunWithEffect(nil, fn)
}

// Defer queues fn as a microtask on the runtime's loop.
func (r *Runtime) Defer(fn func()) {
	r.loop.QueueMicrotask(fn)
}
