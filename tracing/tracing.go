// Package tracing records notifier dispatches as OpenTelemetry spans.
//
// Each dispatch loop becomes a "coalesce.dispatch" span. Listener panics are
// recorded on it as errors. The tracer comes from the global provider unless
// WithTracerProvider is given:
//
//	n := coalesce.New(0, coalesce.WithObserver[int](tracing.NewObserver()))
//
// Spans are children of the span in the notifier's context, set with
// coalesce.WithContext. Without one they are root spans.
package tracing

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AnatoleLucet/coalesce"
)

const defaultTracerName = "coalesce"

const (
	spanDispatch = "coalesce.dispatch"
	spanRevert   = "coalesce.revert"
)

type Config struct {
	// TracerName is the name of the tracer (default: "coalesce").
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider
}

type Option func(*Config)

func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = provider
	}
}

type openSpan struct {
	span   trace.Span
	failed bool
}

// Observer is a coalesce.Observer. It can be shared between notifiers and
// goroutines.
type Observer struct {
	tracer trace.Tracer

	mu sync.Mutex
	// in-flight dispatch span per notifier
	spans map[string]*openSpan
}

func NewObserver(opts ...Option) *Observer {
	config := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	provider := config.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	return &Observer{
		tracer: provider.Tracer(config.TracerName),
		spans:  make(map[string]*openSpan),
	}
}

func (o *Observer) OnEvent(ctx context.Context, event coalesce.Event) {
	switch event.Type {
	case coalesce.EventDispatchStart:
		_, span := o.tracer.Start(ctx, spanDispatch,
			trace.WithTimestamp(event.Timestamp),
			trace.WithAttributes(
				attribute.String("coalesce.notifier_id", event.NotifierID),
				attribute.Int("coalesce.listeners", event.Listeners),
			),
		)

		o.mu.Lock()
		o.spans[event.NotifierID] = &openSpan{span: span}
		o.mu.Unlock()

	case coalesce.EventListenerPanic:
		o.mu.Lock()
		open, ok := o.spans[event.NotifierID]
		if ok {
			open.failed = true
		}
		o.mu.Unlock()

		if !ok {
			return
		}

		open.span.RecordError(event.Err, trace.WithAttributes(
			attribute.Int64("coalesce.listener_id", int64(event.ListenerID)),
		))
		open.span.SetStatus(codes.Error, event.Err.Error())

	case coalesce.EventDispatchEnd:
		o.mu.Lock()
		open, ok := o.spans[event.NotifierID]
		delete(o.spans, event.NotifierID)
		o.mu.Unlock()

		if !ok {
			return
		}

		open.span.SetAttributes(attribute.Int("coalesce.invoked", event.Invoked))
		if !open.failed {
			open.span.SetStatus(codes.Ok, "")
		}
		open.span.End(trace.WithTimestamp(event.Timestamp))

	case coalesce.EventDispatchReverted:
		_, span := o.tracer.Start(ctx, spanRevert,
			trace.WithTimestamp(event.Timestamp),
			trace.WithAttributes(attribute.String("coalesce.notifier_id", event.NotifierID)),
		)
		span.End(trace.WithTimestamp(event.Timestamp))
	}
}

// InFlight returns how many dispatch spans are open.
func (o *Observer) InFlight() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.spans)
}
