package vtree

import "fmt"

// Entry is the node stored for a key and its position in the sequence.
type Entry struct {
	Node     VNode
	Position int
}

// Index maps keys to the node holding them.
type Index map[string]Entry

// DuplicateKeyError reports two siblings sharing a key. The node at Last
// is the one kept.
type DuplicateKeyError struct {
	Key   string
	First int
	Last  int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("vtree: duplicate key %q at positions %d and %d", e.Key, e.First, e.Last)
}

// BuildIndex indexes seq by key. When a key repeats, the last occurrence
// wins and one DuplicateKeyError is returned per repeat.
func BuildIndex(seq []VNode) (Index, []*DuplicateKeyError) {
	idx := make(Index, len(seq))
	var dups []*DuplicateKeyError
	for i, n := range seq {
		if prev, ok := idx[n.Key]; ok {
			dups = append(dups, &DuplicateKeyError{Key: n.Key, First: prev.Position, Last: i})
		}
		idx[n.Key] = Entry{Node: n, Position: i}
	}
	return idx, dups
}

// owns reports whether position i holds the entry kept for key.
func (idx Index) owns(key string, i int) bool {
	e, ok := idx[key]
	return ok && e.Position == i
}
