// Package tracing records effect runs as OpenTelemetry spans.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AnatoleLucet/reactive"
)

// Default tracer name.
const defaultTracerName = "reactive"

// Config configures the OpenTelemetry observer.
type Config struct {
	// TracerName is the name of the tracer (default: "reactive").
	TracerName string

	// TracerProvider provides the tracer (default: the global provider).
	TracerProvider trace.TracerProvider

	// Root is the context spans of top level runs are started from
	// (default: context.Background()).
	Root context.Context
}

// Option configures the OpenTelemetry observer.
type Option func(*Config)

func WithTracerName(name string) Option {
	return func(c *Config) { c.TracerName = name }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) { c.TracerProvider = tp }
}

func WithRoot(ctx context.Context) Option {
	return func(c *Config) { c.Root = ctx }
}

// Observer starts one span per effect run. Runs nested inside another run
// become child spans. Like the runtime it observes, it is single-goroutine.
type Observer struct {
	tracer trace.Tracer
	root   context.Context

	// contexts of the runs in progress, innermost last
	stack []context.Context
}

var _ reactive.Observer = (*Observer)(nil)

func New(opts ...Option) *Observer {
	config := Config{
		TracerName: defaultTracerName,
		Root:       context.Background(),
	}
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Observer{
		tracer: tp.Tracer(config.TracerName),
		root:   config.Root,
	}
}

// Context returns the context of the innermost run in progress, carrying its
// span. Outside of a run it returns the root context.
func (o *Observer) Context() context.Context {
	if len(o.stack) == 0 {
		return o.root
	}

	return o.stack[len(o.stack)-1]
}

func (o *Observer) Track(reactive.TrackEvent) {}

func (o *Observer) Trigger(ev reactive.TriggerEvent) {
	span := trace.SpanFromContext(o.Context())
	if !span.IsRecording() {
		return
	}

	span.AddEvent("trigger", trace.WithAttributes(
		attribute.Int64("reactive.target", int64(ev.Target)),
		attribute.String("reactive.key", fmt.Sprint(ev.Key)),
		attribute.Int("reactive.scheduled", ev.Scheduled),
		attribute.Int("reactive.direct", ev.Direct),
	))
}

func (o *Observer) Run(info reactive.EffectInfo, next func()) {
	name := info.Name
	if name == "" {
		name = info.Kind.String()
	}

	ctx, span := o.tracer.Start(o.Context(), "reactive."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int64("reactive.effect.id", int64(info.ID)),
			attribute.String("reactive.effect.name", info.Name),
			attribute.String("reactive.effect.kind", info.Kind.String()),
			attribute.Bool("reactive.effect.lazy", info.Lazy),
		),
	)

	depth := len(o.stack)
	o.stack = append(o.stack, ctx)

	defer func() {
		o.stack = o.stack[:depth]

		if r := recover(); r != nil {
			err := fmt.Errorf("effect panicked: %v", r)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			panic(r)
		}

		span.SetStatus(codes.Ok, "")
		span.End()
	}()

	next()
}
