package middleware

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hardfox-dev/hardfox/pkg/session"
)

const defaultTracerName = "hardfox"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "hardfox").
	TracerName string

	// TracerProvider supplies the tracer. Default: the global provider.
	TracerProvider trace.TracerProvider

	// Filter determines which passes to trace.
	// If nil, all passes are traced.
	Filter func(p *session.Pass) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(p *session.Pass) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the provider the tracer is taken from.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithPassFilter sets a filter function for render passes.
func WithPassFilter(filter func(p *session.Pass) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(p *session.Pass) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{TracerName: defaultTracerName}
}

// OpenTelemetry creates middleware that traces every render pass.
//
// The span carries the pass number and trigger when it starts, and the
// reconcile counts once the pass finished. Errors are recorded on the span.
func OpenTelemetry(opts ...OTelOption) session.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return session.MiddlewareFunc(func(p *session.Pass, next func() error) error {
		if config.Filter != nil && !config.Filter(p) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.Int64("hardfox.seq", int64(p.Seq)),
			attribute.String("hardfox.trigger", p.Trigger),
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(p)...)
		}

		ctx, span := tracer.Start(p.Context(), formatSpanName(p),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		p.WithContext(ctx)
		err := next()

		if r := p.Report(); r != nil {
			span.SetAttributes(
				attribute.Bool("hardfox.full", r.Full),
				attribute.Int("hardfox.patches", len(r.Patches)),
				attribute.Int("hardfox.created", r.Metrics.Created),
				attribute.Int("hardfox.updated", r.Metrics.Updated),
				attribute.Int("hardfox.destroyed", r.Metrics.Destroyed),
				attribute.Int("hardfox.moved", r.Metrics.Moved),
				attribute.Int("hardfox.reused", r.Metrics.Reused),
				attribute.Int("hardfox.duplicate_keys", len(r.Diagnostics)),
			)
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	})
}

// SpanFromPass returns the span of the pass, or nil when the pass is not
// traced.
func SpanFromPass(p *session.Pass) trace.Span {
	span := trace.SpanFromContext(p.Context())
	if !span.SpanContext().IsValid() && !span.IsRecording() {
		return nil
	}
	return span
}

func formatSpanName(p *session.Pass) string {
	if p.Trigger == "" {
		return "hardfox.render"
	}
	return fmt.Sprintf("hardfox.render %s", p.Trigger)
}
