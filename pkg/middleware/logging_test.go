package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/hardfox-dev/hardfox/pkg/session"
	"github.com/hardfox-dev/hardfox/pkg/widget"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	var fail bool
	s := newTestSession(t, failingCreates(&fail), Logging(logger))
	ctx := context.Background()

	steps := []struct {
		name string
		run  func() error
		want []string
	}{
		{
			name: "changes log at info",
			run: func() error {
				_, err := s.Render(ctx, session.TriggerInitial)
				return err
			},
			want: []string{"level=INFO", "msg=render", "trigger=initial", "full=true", "patches=2"},
		},
		{
			name: "no-op pass logs at debug",
			run: func() error {
				_, err := s.Render(ctx, session.TriggerRebuild)
				return err
			},
			want: []string{"level=DEBUG", "trigger=rebuild", "full=false"},
		},
		{
			name: "failure logs at error",
			run: func() error {
				fail = true
				_, err := s.Dispatch(ctx, expandPrivacy)
				if err == nil {
					t.Error("expected failure")
				}
				return nil
			},
			want: []string{"level=ERROR", `msg="render failed"`, "trigger=expand", "E020"},
		},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			buf.Reset()
			if err := step.run(); err != nil {
				t.Fatal(err)
			}
			line := buf.String()
			for _, w := range step.want {
				if !strings.Contains(line, w) {
					t.Errorf("log %q missing %q", line, w)
				}
			}
		})
	}
}

func TestLoggingNilLogger(t *testing.T) {
	s := newTestSession(t, widget.NewMemory(), Logging(nil))
	if _, err := s.Render(context.Background(), session.TriggerInitial); err != nil {
		t.Fatal(err)
	}
}
