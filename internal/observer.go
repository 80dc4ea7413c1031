package internal

import (
	"context"
	"log/slog"
	"time"
)

type EffectInfo struct {
	ID   uint64
	Name string
	Kind EffectKind
	Lazy bool
}

type TrackEvent struct {
	Effect EffectInfo
	Target uint64
	Key    any
}

type TriggerEvent struct {
	Target uint64
	Key    any

	// dispatch paths taken for the snapshot of dependents
	Scheduled int
	Direct    int
}

// Observer sees every track, trigger and effect run of a runtime.
// Run wraps an effect execution and must call next exactly once.
type Observer interface {
	Track(TrackEvent)
	Trigger(TriggerEvent)
	Run(info EffectInfo, next func())
}

type NopObserver struct{}

func (NopObserver) Track(TrackEvent)             {}
func (NopObserver) Trigger(TriggerEvent)         {}
func (NopObserver) Run(_ EffectInfo, next func()) { next() }

// MultiObserver fans events out in order. For Run, the first observer is the
// outermost wrapper.
type MultiObserver []Observer

func (m MultiObserver) Track(ev TrackEvent) {
	for _, o := range m {
		o.Track(ev)
	}
}

func (m MultiObserver) Trigger(ev TriggerEvent) {
	for _, o := range m {
		o.Trigger(ev)
	}
}

func (m MultiObserver) Run(info EffectInfo, next func()) {
	run := next
	for i := len(m) - 1; i >= 0; i-- {
		o, inner := m[i], run
		run = func() { o.Run(info, inner) }
	}

	run()
}

// LogObserver writes every event to a slog logger.
type LogObserver struct {
	Logger *slog.Logger
	Level  slog.Level
}

func (o LogObserver) Track(ev TrackEvent) {
	o.Logger.Log(context.Background(), o.Level, "track",
		"effect", ev.Effect.ID,
		"kind", ev.Effect.Kind.String(),
		"target", ev.Target,
		"key", ev.Key,
	)
}

func (o LogObserver) Trigger(ev TriggerEvent) {
	o.Logger.Log(context.Background(), o.Level, "trigger",
		"target", ev.Target,
		"key", ev.Key,
		"scheduled", ev.Scheduled,
		"direct", ev.Direct,
	)
}

func (o LogObserver) Run(info EffectInfo, next func()) {
	start := time.Now()
	defer func() {
		o.Logger.Log(context.Background(), o.Level, "effect run",
			"effect", info.ID,
			"name", info.Name,
			"kind", info.Kind.String(),
			"duration", time.Since(start),
		)
	}()

	next()
}
