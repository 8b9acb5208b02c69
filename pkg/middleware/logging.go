package middleware

import (
	"log/slog"
	"time"

	"github.com/hardfox-dev/hardfox/pkg/session"
)

// Logging creates middleware that logs one line per render pass. Passes
// that emitted only Reuse patches are logged at debug level.
func Logging(logger *slog.Logger) session.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return session.MiddlewareFunc(func(p *session.Pass, next func() error) error {
		start := time.Now()
		err := next()

		attrs := []any{
			"seq", p.Seq,
			"trigger", p.Trigger,
			"duration", time.Since(start),
		}
		r := p.Report()
		if r != nil {
			attrs = append(attrs,
				"full", r.Full,
				"patches", len(r.Patches),
				"metrics", r.Metrics.String())
		}

		switch {
		case err != nil:
			logger.Error("render failed", append(attrs, "error", err)...)
		case r != nil && r.Metrics.Mutations() == 0:
			logger.Debug("render", attrs...)
		default:
			logger.Info("render", attrs...)
		}
		return err
	})
}
