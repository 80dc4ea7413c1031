package internal

// Track registers the active effect as a dependent of (t, key).
// It is a no-op outside of an effect run.
func (r *Runtime) Track(t *Target, key any) {
	e := r.ctx.Active()
	if e == nil || e.stopped {
		return
	}

	if _, added := r.store.link(e, t, key); !added {
		return
	}

	ev := TrackEvent{Effect: e.Info(), Target: t.ID(), Key: key}
	r.observer.Track(ev)
	if e.opts.OnTrack != nil {
		e.opts.OnTrack(ev)
	}
}

// Trigger runs or schedules every effect depending on (t, key), except the
// active one so an effect writing what it reads does not recurse.
func (r *Runtime) Trigger(t *Target, key any) {
	set := r.store.lookup(t, key)
	if set == nil {
		return
	}

	effects := r.store.snapshot(set, r.ctx.Active())

	ev := TriggerEvent{Target: t.ID(), Key: key}
	for _, e := range effects {
		if e.opts.Scheduler != nil {
			ev.Scheduled++
		} else {
			ev.Direct++
		}
	}
	r.observer.Trigger(ev)

	for _, e := range effects {
		// an earlier effect in this pass may have stopped it
		if e.stopped {
			r.logger.Debug("skipping stopped effect", "effect", e.id, "target", ev.Target)
			continue
		}

		if e.opts.OnTrigger != nil {
			e.opts.OnTrigger(ev)
		}

		if e.opts.Scheduler != nil {
			e.opts.Scheduler(e)
		} else {
			e.Run()
		}
	}
}
