package vtree

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	OpCreate  PatchOp = 0x01 // Build a new widget
	OpUpdate  PatchOp = 0x02 // Apply changed props to an existing widget
	OpDestroy PatchOp = 0x03 // Tear a widget down
	OpMove    PatchOp = 0x04 // Reposition an existing widget
	OpReuse   PatchOp = 0x05 // Keep the widget as is
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case OpCreate:
		return "Create"
	case OpUpdate:
		return "Update"
	case OpDestroy:
		return "Destroy"
	case OpMove:
		return "Move"
	case OpReuse:
		return "Reuse"
	default:
		return "Unknown"
	}
}

// Handle identifies a live widget. Handles are issued by the widget adapter;
// the empty handle means the widget has not been realised yet.
type Handle string

// Patch is one operation for the widget adapter.
//
// Index is the node's position in the new sequence for Create, Update,
// Move and Reuse. For Destroy it is the position the node had in the
// previous sequence, or -1 for a binding that was not part of it. After
// is the key of the node that precedes this one in the new sequence (""
// for the first node); adapters that keep an ordered child list insert
// Create and Move targets right after it.
type Patch struct {
	Op      PatchOp
	Key     string
	Type    NodeType
	Handle  Handle   // Existing widget; empty for Create
	Index   int      // See above
	After   string   // Preceding sibling key for Create/Move
	Props   Props    // Full props for Create
	Changes []Change // Changed props for Update
}
