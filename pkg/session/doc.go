// Package session drives the render loop of one settings panel.
//
// A Session owns the view model, the widget adapter and the bindings of the
// widgets currently on screen. Every state change goes through the session:
//
//	sess := session.New(model, adapter, session.WithLogger(logger))
//	report, err := sess.Dispatch(ctx, view.Event{Kind: view.EventSearch, Query: "cookie"})
//
// Each render computes the next tree, diffs it against the previous one,
// applies the patches in order and keeps the resulting bindings for the next
// pass. When the adapter rejects a patch the next render rebuilds the panel
// from scratch.
//
// # Middleware
//
// Render passes run through a middleware chain, the same way HTTP handlers
// do. Middleware sees the pass before reconciliation and its Report after:
//
//	sess := session.New(model, adapter, session.WithMiddleware(
//	    middleware.OpenTelemetry(),
//	    middleware.Prometheus(),
//	))
package session
