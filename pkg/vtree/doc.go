// Package vtree implements keyed reconciliation of the settings panel.
//
// The panel is described as a flat, ordered sequence of VNodes: category
// headers followed by the setting rows of each expanded category. Every
// render pass produces a fresh sequence. Diff compares it with the previous
// one and returns the patches a widget adapter must apply so that the live
// widgets match, touching as few widgets as possible.
//
// # Core Types
//
// VNode is an immutable description of one row: a NodeType, a Key that is
// stable across passes, and typed Props (HeaderProps, RowProps, or a
// free-form PropList for other node types).
//
// Binding links a key to the widget Handle that realises it and to the props
// last applied to that widget. Bindings are owned by the caller and threaded
// from one Diff call to the next.
//
// # Diffing
//
// Nodes are matched by key first, node type second and prop equality third:
//
//	key unknown                → Create
//	same type, equal props     → Reuse
//	same type, changed props   → Update (changed fields only)
//	type changed               → Destroy + Create
//	old key not in new tree    → Destroy (appended last)
//
// A matched node whose relative order changed also gets a Move. Moves are
// computed from the longest increasing subsequence of old positions, so
// rows that only shift because of insertions or removals above them are not
// moved.
//
// Metrics are derived from the patch list alone (MetricsFromPatches), so any
// diff strategy can be checked against the same counts.
package vtree
