package eventloop

import (
	"container/heap"
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used for dropped work and handled panics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithPanicHandler recovers task panics and hands them to fn instead of
// stopping Run.
func WithPanicHandler(fn func(v any)) Option {
	return func(l *Loop) {
		l.onPanic = fn
	}
}

// Loop is a single-threaded event loop with a microtask queue and timers.
// Microtasks run first-in first-out and are drained completely after every
// task. Timers fire in deadline order. Work may be queued from any goroutine
// but only the goroutine calling Run executes it.
type Loop struct {
	mu sync.Mutex

	microtasks []func()
	timers     timerHeap
	seq        uint64
	closed     bool

	wake chan struct{}

	logger  *slog.Logger
	onPanic func(v any)
}

func New(opts ...Option) *Loop {
	l := &Loop{
		microtasks: make([]func(), 0),
		timers:     make(timerHeap, 0),
		wake:       make(chan struct{}, 1),
		logger:     slog.Default().With("component", "eventloop"),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// QueueMicrotask defers fn to the end of the current turn.
func (l *Loop) QueueMicrotask(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		l.logger.Debug("dropping microtask on closed loop")
		return
	}

	l.microtasks = append(l.microtasks, fn)
	l.notify()
}

// SetTimeout runs fn as a task once delay has elapsed.
func (l *Loop) SetTimeout(fn func(), delay time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		l.logger.Debug("dropping timer on closed loop", "delay", delay)
		return
	}

	l.seq++
	heap.Push(&l.timers, &timer{
		deadline: time.Now().Add(delay),
		seq:      l.seq,
		fn:       fn,
	})
	l.notify()
}

// Pending returns the number of queued microtasks and timers.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.microtasks) + len(l.timers)
}

// Close drops all pending work. Run returns ErrClosed afterwards.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	l.microtasks = nil
	l.timers = nil
	l.notify()
}

// RunMicrotasks drains the microtask queue, including microtasks queued
// while draining.
func (l *Loop) RunMicrotasks() error {
	for {
		l.mu.Lock()
		if len(l.microtasks) == 0 {
			l.mu.Unlock()
			return nil
		}
		fn := l.microtasks[0]
		l.microtasks[0] = nil
		l.microtasks = l.microtasks[1:]
		l.mu.Unlock()

		if err := l.call(fn); err != nil {
			return err
		}
	}
}

// Run executes queued work until none is left, ctx is done, or a task panics
// without a panic handler installed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := l.RunMicrotasks(); err != nil {
			return err
		}

		l.mu.Lock()
		if l.closed {
			l.mu.Unlock()
			return ErrClosed
		}

		next := l.timers.peek()
		if next == nil {
			idle := len(l.microtasks) == 0
			l.mu.Unlock()
			if idle {
				return nil
			}
			continue
		}

		wait := time.Until(next.deadline)
		if wait <= 0 {
			heap.Pop(&l.timers)
			l.mu.Unlock()

			if err := l.call(next.fn); err != nil {
				return err
			}
			continue
		}
		l.mu.Unlock()

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-l.wake:
			t.Stop()
		case <-t.C:
		}
	}
}

func (l *Loop) call(fn func()) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}

		if l.onPanic != nil {
			l.logger.Warn("task panicked", "panic", v)
			l.onPanic(v)
			return
		}

		err = &PanicError{Value: v, Stack: debug.Stack()}
	}()

	fn()
	return nil
}

// must hold l.mu
func (l *Loop) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
