// Package metrics exports runtime activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AnatoleLucet/reactive"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "reactive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for effect run duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) { c.Subsystem = subsystem }
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

func defaultConfig() Config {
	return Config{
		Namespace: "reactive",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer is a reactive.Observer recording Prometheus metrics.
type Observer struct {
	tracks     prometheus.Counter
	triggers   prometheus.Counter
	dispatched *prometheus.CounterVec
	runs       *prometheus.CounterVec
	panics     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

var _ reactive.Observer = (*Observer)(nil)

// New registers the collectors and returns the observer. Registering twice on
// the same registry panics, as with promauto.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Observer{
		tracks: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tracks_total",
			Help:        "Total number of dependencies recorded",
			ConstLabels: config.ConstLabels,
		}),

		triggers: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggers_total",
			Help:        "Total number of triggers that reached at least one dependent",
			ConstLabels: config.ConstLabels,
		}),

		dispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_dispatched_total",
			Help:        "Total number of effects dispatched by triggers",
			ConstLabels: config.ConstLabels,
		}, []string{"path"}),

		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of effect runs",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		panics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_panics_total",
			Help:        "Total number of effect runs that panicked",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_run_duration_seconds",
			Help:        "Effect run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),
	}
}

func (o *Observer) Track(reactive.TrackEvent) {
	o.tracks.Inc()
}

func (o *Observer) Trigger(ev reactive.TriggerEvent) {
	if ev.Scheduled+ev.Direct == 0 {
		return
	}

	o.triggers.Inc()
	o.dispatched.WithLabelValues("scheduler").Add(float64(ev.Scheduled))
	o.dispatched.WithLabelValues("direct").Add(float64(ev.Direct))
}

func (o *Observer) Run(info reactive.EffectInfo, next func()) {
	kind := info.Kind.String()
	start := time.Now()

	panicked := true
	defer func() {
		o.runs.WithLabelValues(kind).Inc()
		o.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		if panicked {
			o.panics.WithLabelValues(kind).Inc()
		}
	}()

	next()
	panicked = false
}
