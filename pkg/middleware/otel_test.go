package middleware

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hardfox-dev/hardfox/pkg/session"
	"github.com/hardfox-dev/hardfox/pkg/widget"
)

type recordedSpan struct {
	noop.Span
	name   string
	kind   trace.SpanKind
	attrs  []attribute.KeyValue
	status codes.Code
	errs   []error
	ended  bool
}

func (s *recordedSpan) SetAttributes(kv ...attribute.KeyValue) { s.attrs = append(s.attrs, kv...) }
func (s *recordedSpan) SetStatus(c codes.Code, _ string)       { s.status = c }
func (s *recordedSpan) End(...trace.SpanEndOption)             { s.ended = true }
func (s *recordedSpan) IsRecording() bool                      { return !s.ended }

func (s *recordedSpan) RecordError(err error, _ ...trace.EventOption) {
	s.errs = append(s.errs, err)
}

func (s *recordedSpan) attr(key string) (attribute.Value, bool) {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

type recordingTracer struct {
	noop.Tracer
	spans []*recordedSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordedSpan{
		name:  name,
		kind:  cfg.SpanKind(),
		attrs: append([]attribute.KeyValue(nil), cfg.Attributes()...),
	}
	t.spans = append(t.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func (p recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

func newRecordingProvider() (recordingProvider, *recordingTracer) {
	tr := &recordingTracer{}
	return recordingProvider{tracer: tr}, tr
}

func TestOpenTelemetrySpanPerPass(t *testing.T) {
	tp, tr := newRecordingProvider()

	var inner []trace.Span
	observe := session.MiddlewareFunc(func(p *session.Pass, next func() error) error {
		inner = append(inner, SpanFromPass(p))
		return next()
	})

	s := newTestSession(t, widget.NewMemory(), OpenTelemetry(WithTracerProvider(tp)), observe)
	ctx := context.Background()
	if _, err := s.Render(ctx, session.TriggerInitial); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Dispatch(ctx, expandPrivacy); err != nil {
		t.Fatal(err)
	}

	if len(tr.spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(tr.spans))
	}
	wantNames := []string{"hardfox.render initial", "hardfox.render expand"}
	for i, span := range tr.spans {
		if span.name != wantNames[i] {
			t.Errorf("span %d name = %q, want %q", i, span.name, wantNames[i])
		}
		if span.kind != trace.SpanKindInternal {
			t.Errorf("span %d kind = %v", i, span.kind)
		}
		if !span.ended || span.status != codes.Ok {
			t.Errorf("span %d ended %v status %v", i, span.ended, span.status)
		}
		if inner[i] != trace.Span(span) {
			t.Errorf("span %d not visible to later middleware", i)
		}
	}

	second := tr.spans[1]
	ints := map[string]int64{
		"hardfox.seq":       2,
		"hardfox.created":   2,
		"hardfox.updated":   1,
		"hardfox.reused":    1,
		"hardfox.destroyed": 0,
		"hardfox.patches":   4,
	}
	for key, want := range ints {
		v, ok := second.attr(key)
		if !ok || v.AsInt64() != want {
			t.Errorf("%s = %v (set %v), want %d", key, v.Emit(), ok, want)
		}
	}
	if v, _ := second.attr("hardfox.trigger"); v.AsString() != "expand" {
		t.Errorf("trigger = %q", v.AsString())
	}
	if v, _ := second.attr("hardfox.full"); v.AsBool() {
		t.Error("second pass marked full")
	}
}

func TestOpenTelemetryRecordsErrors(t *testing.T) {
	tp, tr := newRecordingProvider()
	var fail bool
	s := newTestSession(t, failingCreates(&fail), OpenTelemetry(WithTracerProvider(tp)))
	ctx := context.Background()

	if _, err := s.Render(ctx, session.TriggerInitial); err != nil {
		t.Fatal(err)
	}
	fail = true
	if _, err := s.Dispatch(ctx, expandPrivacy); err == nil {
		t.Fatal("expected adapter failure")
	}

	span := tr.spans[1]
	if span.status != codes.Error || len(span.errs) != 1 {
		t.Errorf("status = %v errors = %v", span.status, span.errs)
	}
	if !span.ended {
		t.Error("span not ended")
	}
}

func TestOpenTelemetryFilterAndAttributes(t *testing.T) {
	tp, tr := newRecordingProvider()
	mw := OpenTelemetry(
		WithTracerProvider(tp),
		WithTracerName("panel"),
		WithPassFilter(func(p *session.Pass) bool { return p.Trigger != session.TriggerInitial }),
		WithAttributeExtractor(func(p *session.Pass) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)
	s := newTestSession(t, widget.NewMemory(), mw)
	ctx := context.Background()

	if _, err := s.Render(ctx, session.TriggerInitial); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Render(ctx, session.TriggerRebuild); err != nil {
		t.Fatal(err)
	}

	if len(tr.spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(tr.spans))
	}
	if v, ok := tr.spans[0].attr("test.attr"); !ok || v.AsString() != "ok" {
		t.Errorf("test.attr = %v", v.Emit())
	}
}

func TestSpanFromPassWithoutTracing(t *testing.T) {
	if span := SpanFromPass(&session.Pass{}); span != nil {
		t.Errorf("SpanFromPass() = %v, want nil", span)
	}
}

func TestOTelConfigDefaults(t *testing.T) {
	config := defaultOTelConfig()
	if config.TracerName != "hardfox" {
		t.Errorf("TracerName = %q", config.TracerName)
	}
	if config.TracerProvider != nil || config.Filter != nil || config.AttributeExtractor != nil {
		t.Errorf("config = %+v", config)
	}
}

func TestFormatSpanName(t *testing.T) {
	tests := []struct {
		trigger string
		want    string
	}{
		{"initial", "hardfox.render initial"},
		{"toggle", "hardfox.render toggle"},
		{"", "hardfox.render"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatSpanName(&session.Pass{Trigger: tt.trigger}); got != tt.want {
				t.Errorf("formatSpanName() = %q, want %q", got, tt.want)
			}
		})
	}
}
