package widget

import (
	"fmt"

	"github.com/hardfox-dev/hardfox/pkg/vtree"
)

// Adapter performs patches against a widget toolkit.
//
// Apply is called once per patch in emission order. For OpCreate it returns
// the handle of the new widget; the handle returned for any other op is
// ignored. OpReuse requires no work.
type Adapter interface {
	Apply(p vtree.Patch) (vtree.Handle, error)
}

// AdapterFunc adapts a function to the Adapter interface.
type AdapterFunc func(p vtree.Patch) (vtree.Handle, error)

// Apply implements Adapter.
func (f AdapterFunc) Apply(p vtree.Patch) (vtree.Handle, error) {
	return f(p)
}

// ApplyError reports the patch an adapter rejected. Patches before Index
// were applied.
type ApplyError struct {
	Index int
	Patch vtree.Patch
	Err   error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("widget: patch %d (%s %q): %v", e.Index, e.Patch.Op, e.Patch.Key, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Apply runs every patch of r through a and returns the bindings with the
// realised handles filled in.
//
// On failure it stops at the rejected patch and returns an *ApplyError
// together with the bindings of every widget still alive: created widgets
// carry their handles, and widgets whose Destroy never ran are kept. Passing
// those bindings to vtree.Diff with an empty previous sequence destroys them
// all and rebuilds the panel.
func Apply(a Adapter, r vtree.Result) (vtree.Bindings, error) {
	b := r.Bindings.Clone()
	for i, p := range r.Patches {
		h, err := a.Apply(p)
		if err != nil {
			keepUndestroyed(b, r.Patches[i:])
			return b, &ApplyError{Index: i, Patch: p, Err: err}
		}

		switch p.Op {
		case vtree.OpCreate:
			b[p.Key] = vtree.Binding{Key: p.Key, Type: p.Type, Handle: h, Props: p.Props}
		case vtree.OpDestroy:
			// A type change destroys and recreates the same key; only drop
			// the binding if it still points at the destroyed widget.
			if cur, ok := b[p.Key]; ok && cur.Handle == p.Handle && p.Handle != "" {
				delete(b, p.Key)
			}
		}
	}
	return b, nil
}

// keepUndestroyed records the widgets of pending Destroy patches. A key
// whose replacement was not realised yet falls back to the old widget.
func keepUndestroyed(b vtree.Bindings, pending []vtree.Patch) {
	for _, p := range pending {
		if p.Op != vtree.OpDestroy || p.Handle == "" {
			continue
		}
		if cur, ok := b[p.Key]; !ok || cur.Handle == "" {
			b[p.Key] = vtree.Binding{Key: p.Key, Type: p.Type, Handle: p.Handle}
		}
	}
}
