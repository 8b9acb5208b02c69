package session

import "context"

// Pass is one render of a session, as seen by middleware.
type Pass struct {
	// Seq numbers the passes of a session starting at 1.
	Seq uint64

	// Trigger names what caused the render, usually a view event kind.
	Trigger string

	ctx    context.Context
	report *Report
}

// Context returns the context of the pass.
func (p *Pass) Context() context.Context {
	if p.ctx == nil {
		return context.Background()
	}
	return p.ctx
}

// WithContext replaces the context seen by later middleware.
func (p *Pass) WithContext(ctx context.Context) {
	p.ctx = ctx
}

// Report returns the outcome of the pass. It is nil until the reconciler
// ran, so middleware reads it after calling next.
func (p *Pass) Report() *Report {
	return p.report
}

// Middleware wraps a render pass.
type Middleware interface {
	Handle(p *Pass, next func() error) error
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(p *Pass, next func() error) error

// Handle calls f(p, next).
func (f MiddlewareFunc) Handle(p *Pass, next func() error) error {
	return f(p, next)
}

// Compose runs handler behind mw. Middleware runs first to last.
func Compose(p *Pass, mw []Middleware, handler func() error) error {
	if len(mw) == 0 {
		return handler()
	}

	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(p, next)
		}
	}

	return chain()
}

// Chain combines middleware into one.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(p *Pass, next func() error) error {
		return Compose(p, middleware, next)
	})
}

// Skip bypasses mw for passes matching condition.
func Skip(condition func(p *Pass) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(p *Pass, next func() error) error {
		if condition(p) {
			return next()
		}
		return mw.Handle(p, next)
	})
}

// Only runs mw for passes matching condition.
func Only(condition func(p *Pass) bool, mw Middleware) Middleware {
	return Skip(func(p *Pass) bool { return !condition(p) }, mw)
}
