// Package widget applies reconciliation patches to a live widget tree.
//
// A host toolkit implements Adapter. Apply feeds it the patches of one
// vtree.Result in order and records the handles the adapter issues for
// created widgets, producing the bindings for the next pass:
//
//	res := vtree.Diff(prev, bindings, next)
//	bindings, err := widget.Apply(adapter, res)
//
// Memory is a complete in-memory adapter used by tests and by hosts that
// render from a flat list.
package widget
