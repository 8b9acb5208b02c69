// Package middleware provides observability middleware for render passes.
//
// This package includes:
//   - OpenTelemetry tracing, one span per render pass
//   - Prometheus metrics for renders, reconcile operations and the
//     websocket patch stream
//   - Structured logging of every pass
//
// All three plug into a session:
//
//	sess := session.New(model, adapter, session.WithMiddleware(
//	    middleware.OpenTelemetry(),
//	    middleware.Prometheus(middleware.WithNamespace("hardfox")),
//	    middleware.Logging(logger),
//	))
//
// # OpenTelemetry Middleware
//
// The tracer comes from the global provider unless WithTracerProvider is
// given. The span context replaces the pass context, so code running
// later in the chain can start child spans:
//
//	if span := middleware.SpanFromPass(p); span != nil {
//	    span.AddEvent("custom")
//	}
//
// # Prometheus Metrics
//
//   - hardfox_renders_total: render passes by trigger and status
//   - hardfox_render_duration_seconds: render pass duration by trigger
//   - hardfox_render_errors_total: failed passes by error code
//   - hardfox_reconcile_ops_total: emitted patches by operation
//   - hardfox_duplicate_keys_total: duplicate key diagnostics
//   - hardfox_full_rebuilds_total: passes that rebuilt the panel
//   - hardfox_patches_sent_total: patches written to websocket clients
//   - hardfox_websocket_clients: connected websocket clients
//   - hardfox_websocket_errors_total: websocket errors by type
//
// Expose them with promhttp:
//
//	http.Handle("/metrics", promhttp.Handler())
package middleware
