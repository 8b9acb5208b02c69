package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	herrors "github.com/hardfox-dev/hardfox/internal/errors"
	"github.com/hardfox-dev/hardfox/pkg/view"
	"github.com/hardfox-dev/hardfox/pkg/vtree"
	"github.com/hardfox-dev/hardfox/pkg/widget"
)

// Trigger names for renders that are not caused by a view event.
const (
	TriggerInitial = "initial"
	TriggerRebuild = "rebuild"
)

// Report describes one completed render pass.
type Report struct {
	vtree.Result

	// Seq is the pass number.
	Seq uint64

	// Trigger is what caused the render.
	Trigger string

	// Full is set when the pass rebuilt the panel from an empty tree.
	Full bool

	// Duration covers tree construction, diffing and patch application.
	Duration time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithMiddleware appends render middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(s *Session) {
		s.middleware = append(s.middleware, mw...)
	}
}

// Session serialises state changes and renders of one panel.
type Session struct {
	mu sync.Mutex

	// State
	model   *view.Model
	adapter widget.Adapter

	// Rendering
	prev     []vtree.VNode  // Last tree applied in full
	bindings vtree.Bindings // Widgets currently alive
	seq      uint64
	rebuild  bool // Next render starts from an empty tree

	middleware []Middleware
	logger     *slog.Logger

	listeners map[int]func(*Report)
	nextID    int
}

// New creates a session. Nothing is rendered until the first Render call,
// which builds the whole panel.
func New(model *view.Model, adapter widget.Adapter, opts ...Option) *Session {
	s := &Session{
		model:     model,
		adapter:   adapter,
		bindings:  vtree.Bindings{},
		rebuild:   true,
		logger:    slog.Default(),
		listeners: make(map[int]func(*Report)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render reconciles the panel with the current model state.
func (s *Session) Render(ctx context.Context, trigger string) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(ctx, trigger)
}

// Dispatch applies ev to the model and renders. A rejected event leaves
// the model and the panel unchanged.
func (s *Session) Dispatch(ctx context.Context, ev view.Event) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.model.Dispatch(ev); err != nil {
		s.logger.Debug("event rejected", "kind", ev.Kind, "key", ev.Key, "error", err)
		return nil, err
	}
	return s.render(ctx, string(ev.Kind))
}

// Update runs fn against the model and renders when it succeeds.
func (s *Session) Update(ctx context.Context, trigger string, fn func(m *view.Model) error) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.model); err != nil {
		return nil, err
	}
	return s.render(ctx, trigger)
}

// View runs fn with read access to the model.
func (s *Session) View(fn func(m *view.Model)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.model)
}

// Invalidate forgets every widget and makes the next render rebuild the
// panel. Call it after the adapter was cleared outside the session.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.prev = nil
	s.bindings = vtree.Bindings{}
	s.rebuild = true
	s.mu.Unlock()
}

// Tree returns the last tree applied in full.
func (s *Session) Tree() []vtree.VNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]vtree.VNode(nil), s.prev...)
}

// Bindings returns a copy of the live bindings.
func (s *Session) Bindings() vtree.Bindings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bindings.Clone()
}

// Seq returns the number of the last render pass.
func (s *Session) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Snapshot returns the Create patches that build the current tree from
// nothing, with the pass number they correspond to.
func (s *Session) Snapshot() (uint64, []vtree.Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq, vtree.Diff(nil, nil, s.prev).Patches
}

// Subscribe registers fn to receive the report of every successful render.
// fn runs with the session locked and must not call back into it.
func (s *Session) Subscribe(fn func(*Report)) (cancel func()) {
	return s.Watch(nil, fn)
}

// Watch is Subscribe with a starting point: init receives the snapshot of
// the current tree before any later report reaches fn, with no render in
// between.
func (s *Session) Watch(init func(seq uint64, snapshot []vtree.Patch), fn func(*Report)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if init != nil {
		init(s.seq, vtree.Diff(nil, nil, s.prev).Patches)
	}

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// render must be called with s.mu held.
func (s *Session) render(ctx context.Context, trigger string) (*Report, error) {
	s.seq++
	p := &Pass{Seq: s.seq, Trigger: trigger, ctx: ctx}

	err := Compose(p, s.middleware, func() error {
		return s.reconcile(p)
	})
	if err != nil {
		return p.report, err
	}

	for _, fn := range s.listeners {
		fn(p.report)
	}
	return p.report, nil
}

func (s *Session) reconcile(p *Pass) error {
	if err := p.Context().Err(); err != nil {
		return err
	}

	start := time.Now()
	next := s.model.Tree()

	prev, full := s.prev, s.rebuild
	if full {
		prev = nil
	}

	res := vtree.Diff(prev, s.bindings, next)
	for _, d := range res.Diagnostics {
		s.logger.Warn("duplicate node key",
			"code", "E001",
			"seq", p.Seq,
			"key", d.Key,
			"first", d.First,
			"last", d.Last)
	}

	bindings, err := widget.Apply(s.adapter, res)
	s.bindings = bindings
	res.Bindings = bindings.Clone()

	p.report = &Report{
		Result:   res,
		Seq:      p.Seq,
		Trigger:  p.Trigger,
		Full:     full,
		Duration: time.Since(start),
	}

	if err != nil {
		code := "E020"
		if errors.Is(err, widget.ErrUnknownHandle) {
			code = "E021"
		}
		s.logger.Error("widget adapter failed",
			"code", code,
			"seq", p.Seq,
			"trigger", p.Trigger,
			"error", err)

		s.prev = nil
		s.rebuild = true
		return herrors.New(code).Wrap(err)
	}

	s.prev = next
	s.rebuild = false

	s.logger.Debug("render",
		"seq", p.Seq,
		"trigger", p.Trigger,
		"full", full,
		"metrics", res.Metrics.String())
	return nil
}
