package reactive

import "github.com/AnatoleLucet/reactive/internal"

type FlushMode = internal.FlushMode

const (
	// FlushSync runs the callback inside the write that caused it.
	FlushSync = internal.FlushSync
	// FlushPost defers the callback to a microtask on the runtime's loop.
	FlushPost = internal.FlushPost
)

// WatchOption configures a watcher.
type WatchOption func(*internal.WatchOptions)

// Immediate calls the callback once at setup, with a zero old value.
func Immediate() WatchOption {
	return func(o *internal.WatchOptions) { o.Immediate = true }
}

// WithFlush sets when the callback runs relative to the write.
func WithFlush(mode FlushMode) WatchOption {
	return func(o *internal.WatchOptions) { o.Flush = mode }
}

// WithWatchName names the watcher's effect for observers.
func WithWatchName(name string) WatchOption {
	return func(o *internal.WatchOptions) { o.Name = name }
}

type Watcher struct {
	watcher *internal.Watcher
}

// Stop detaches the watcher; pending deferred callbacks are dropped.
func (w *Watcher) Stop() { w.watcher.Stop() }

func watchOptions(opts []WatchOption) internal.WatchOptions {
	options := internal.WatchOptions{Flush: FlushSync}
	for _, opt := range opts {
		opt(&options)
	}

	return options
}

// Watch calls callback with the new and previous result of getter each time
// a source getter read changes.
func Watch[T any](r *Runtime, getter func() T, callback func(newValue, oldValue T), opts ...WatchOption) *Watcher {
	return &Watcher{
		r.rt.Watch(
			func() any { return getter() },
			func(newValue, oldValue any) { callback(as[T](newValue), as[T](oldValue)) },
			watchOptions(opts),
		),
	}
}

// WatchObject deeply watches source: any change to a reactive value reachable
// from it calls callback.
//
// Both arguments of callback are source itself. Sources are tracked by
// reference, so the old value cannot show the state before the write.
//
// Function values are never called, use Watch for getters.
func WatchObject[S any](r *Runtime, source S, callback func(newValue, oldValue S), opts ...WatchOption) *Watcher {
	getter := func() any {
		internal.Traverse(source, nil)
		return source
	}

	return &Watcher{
		r.rt.Watch(
			getter,
			func(newValue, oldValue any) { callback(as[S](newValue), as[S](oldValue)) },
			watchOptions(opts),
		),
	}
}
