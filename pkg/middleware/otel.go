package middleware

import (
	"context"
	"fmt"

	"github.com/vango-dev/signup/pkg/protocol"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "signup"

// OTelConfig configures the tracing middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "signup").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider from otel.GetTracerProvider.
	TracerProvider trace.TracerProvider

	// Filter determines which events to trace. If nil, all events are traced.
	Filter func(ev *protocol.Event) bool
}

// OTelOption configures the tracing middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		if name != "" {
			c.TracerName = name
		}
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithEventFilter sets a filter function for events.
func WithEventFilter(filter func(ev *protocol.Event) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// Tracing creates middleware that starts a span for every event.
//
// The span is named "signup.<type>" and is reachable from the handler's
// context via trace.SpanFromContext.
func Tracing(opts ...OTelOption) Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return func(next Handler) Handler {
		return func(ctx context.Context, ev *protocol.Event) error {
			if config.Filter != nil && !config.Filter(ev) {
				return next(ctx, ev)
			}

			ctx, span := tracer.Start(ctx,
				fmt.Sprintf("signup.%s", ev.Type),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(eventAttributes(ctx, ev)...),
			)
			defer span.End()

			err := next(ctx, ev)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				span.SetAttributes(attribute.String("signup.error_code", string(protocol.CodeFor(err))))
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return err
		}
	}
}

func eventAttributes(ctx context.Context, ev *protocol.Event) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("signup.event_type", ev.Type.String()),
		attribute.Int64("signup.event_seq", int64(ev.Seq)),
	}
	if id := SessionID(ctx); id != "" {
		attrs = append(attrs, attribute.String("signup.session_id", id))
	}
	if ev.HID != "" {
		attrs = append(attrs, attribute.String("signup.event_target", ev.HID))
	}
	if ev.Name != "" {
		attrs = append(attrs, attribute.String("signup.field", ev.Name))
	}
	return attrs
}
