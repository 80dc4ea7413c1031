package internal

type FlushMode string

const (
	FlushSync FlushMode = "sync"
	FlushPost FlushMode = "post"
)

type WatchOptions struct {
	Immediate bool
	Flush     FlushMode
	Name      string
}

// Watcher calls back with the new and old value of a source whenever the
// source's dependencies change.
type Watcher struct {
	effect *Effect

	callback func(newValue, oldValue any)
	oldValue any
}

// Watch observes source. A func() any source is used as the getter, anything
// else is traversed deeply and passed as both values.
func (r *Runtime) Watch(source any, callback func(newValue, oldValue any), opts WatchOptions) *Watcher {
	var getter func() any
	if fn, ok := source.(func() any); ok {
		getter = fn
	} else {
		getter = func() any {
			Traverse(source, nil)
			return source
		}
	}

	w := &Watcher{callback: callback}

	w.effect = r.NewEffect(getter, EffectOptions{
		Lazy: true,
		Kind: EffectWatch,
		Name: opts.Name,
		Scheduler: func(*Effect) {
			if opts.Flush == FlushPost {
				r.Defer(w.job)
			} else {
				w.job()
			}
		},
	})

	if opts.Immediate {
		w.job()
	} else {
		w.oldValue = w.effect.Run()
	}

	return w
}

func (w *Watcher) job() {
	if w.effect.stopped {
		return
	}

	newValue := w.effect.Run()
	w.callback(newValue, w.oldValue)
	w.oldValue = newValue
}

func (w *Watcher) Effect() *Effect { return w.effect }

// Stop detaches the watcher. Jobs already deferred become no-ops.
func (w *Watcher) Stop() {
	w.effect.Stop()
}
