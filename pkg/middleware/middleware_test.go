package middleware

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hardfox-dev/hardfox/pkg/session"
	"github.com/hardfox-dev/hardfox/pkg/setting"
	"github.com/hardfox-dev/hardfox/pkg/view"
	"github.com/hardfox-dev/hardfox/pkg/vtree"
	"github.com/hardfox-dev/hardfox/pkg/widget"
)

const testCatalog = `
settings:
  - key: privacy.a
    value: true
    type: toggle
    category: privacy
  - key: privacy.b
    value: false
    type: toggle
    category: privacy
  - key: network.prefetch
    value: true
    type: toggle
    category: network
`

func newTestSession(t *testing.T, adapter widget.Adapter, mw ...session.Middleware) *session.Session {
	t.Helper()
	cat, err := setting.ParseCatalog([]byte(testCatalog), "test.yaml")
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	return session.New(view.New(cat), adapter,
		session.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		session.WithMiddleware(mw...))
}

// failingCreates returns an adapter that rejects Create patches while
// *fail is set.
func failingCreates(fail *bool) widget.Adapter {
	m := widget.NewMemory()
	return widget.AdapterFunc(func(p vtree.Patch) (vtree.Handle, error) {
		if *fail && p.Op == vtree.OpCreate {
			return "", errors.New("toolkit busy")
		}
		return m.Apply(p)
	})
}

var expandPrivacy = view.Event{Kind: view.EventExpand, Category: "privacy"}
