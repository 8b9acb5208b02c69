package vtree

import (
	"errors"
	"sort"
)

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Patches in application order.
	Patches []Patch

	// Bindings for the new sequence. Created nodes have an empty Handle
	// until the widget adapter realises them.
	Bindings Bindings

	// Metrics derived from Patches.
	Metrics Metrics

	// Diagnostics lists duplicate keys found in either sequence. They do
	// not stop the pass.
	Diagnostics []*DuplicateKeyError
}

// Err joins the diagnostics into one error, or returns nil.
func (r Result) Err() error {
	if len(r.Diagnostics) == 0 {
		return nil
	}
	errs := make([]error, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Diff computes the patches that turn the widgets built for prev into
// widgets for next. bindings supplies the live handles of prev and is not
// modified.
//
// Bindings whose key does not appear in prev are treated as orphans: their
// widgets are destroyed first, so a new node may take over the key.
func Diff(prev []VNode, bindings Bindings, next []VNode) Result {
	prevIdx, prevDups := BuildIndex(prev)
	nextIdx, nextDups := BuildIndex(next)

	r := Result{
		Patches:     make([]Patch, 0, len(next)+len(prev)/4),
		Bindings:    make(Bindings, len(nextIdx)),
		Diagnostics: append(prevDups, nextDups...),
	}

	r.destroyOrphans(prevIdx, bindings)

	moves := findMoves(prevIdx, nextIdx, next)
	visited := make(map[string]bool, len(prevIdx))
	after := ""

	for i, n := range next {
		if !nextIdx.owns(n.Key, i) {
			continue // earlier duplicate; the last occurrence wins
		}

		old, matched := prevIdx[n.Key]
		switch {
		case !matched:
			r.create(n, i, after)

		case old.Node.Type != n.Type:
			visited[n.Key] = true
			r.Patches = append(r.Patches, Patch{
				Op:     OpDestroy,
				Key:    n.Key,
				Type:   old.Node.Type,
				Handle: bindings.Handle(n.Key),
				Index:  old.Position,
			})
			r.create(n, i, after)

		default:
			visited[n.Key] = true
			h := bindings.Handle(n.Key)
			if moves[i] {
				r.Patches = append(r.Patches, Patch{
					Op:     OpMove,
					Key:    n.Key,
					Type:   n.Type,
					Handle: h,
					Index:  i,
					After:  after,
				})
			}
			if changes := diffProps(old.Node.Props, n.Props); len(changes) > 0 {
				r.Patches = append(r.Patches, Patch{
					Op:      OpUpdate,
					Key:     n.Key,
					Type:    n.Type,
					Handle:  h,
					Index:   i,
					Changes: changes,
				})
			} else {
				r.Patches = append(r.Patches, Patch{
					Op:     OpReuse,
					Key:    n.Key,
					Type:   n.Type,
					Handle: h,
					Index:  i,
				})
			}
			r.Bindings[n.Key] = Binding{Key: n.Key, Type: n.Type, Handle: h, Props: n.Props}
		}
		after = n.Key
	}

	for j, n := range prev {
		if visited[n.Key] || !prevIdx.owns(n.Key, j) {
			continue
		}
		r.Patches = append(r.Patches, Patch{
			Op:     OpDestroy,
			Key:    n.Key,
			Type:   n.Type,
			Handle: bindings.Handle(n.Key),
			Index:  j,
		})
	}

	r.Metrics = MetricsFromPatches(r.Patches)
	return r
}

func (r *Result) create(n VNode, i int, after string) {
	r.Patches = append(r.Patches, Patch{
		Op:    OpCreate,
		Key:   n.Key,
		Type:  n.Type,
		Index: i,
		After: after,
		Props: n.Props,
	})
	r.Bindings[n.Key] = Binding{Key: n.Key, Type: n.Type, Props: n.Props}
}

func (r *Result) destroyOrphans(prevIdx Index, bindings Bindings) {
	var orphans []string
	for k, b := range bindings {
		if _, ok := prevIdx[k]; !ok && b.Handle != "" {
			orphans = append(orphans, k)
		}
	}
	sort.Strings(orphans)
	for _, k := range orphans {
		b := bindings[k]
		r.Patches = append(r.Patches, Patch{
			Op:     OpDestroy,
			Key:    k,
			Type:   b.Type,
			Handle: b.Handle,
			Index:  -1,
		})
	}
}

// findMoves returns the positions in next whose matched node must move.
// Matched nodes whose old positions form the longest increasing subsequence
// keep their place; every other matched node moves.
func findMoves(prevIdx, nextIdx Index, next []VNode) map[int]bool {
	var oldPos, newPos []int
	for i, n := range next {
		if !nextIdx.owns(n.Key, i) {
			continue
		}
		if old, ok := prevIdx[n.Key]; ok && old.Node.Type == n.Type {
			oldPos = append(oldPos, old.Position)
			newPos = append(newPos, i)
		}
	}

	keep := longestIncreasing(oldPos)
	var moves map[int]bool
	for k, i := range newPos {
		if !keep[k] {
			if moves == nil {
				moves = make(map[int]bool)
			}
			moves[i] = true
		}
	}
	return moves
}

// longestIncreasing marks the members of one longest strictly increasing
// subsequence of seq.
func longestIncreasing(seq []int) []bool {
	keep := make([]bool, len(seq))
	if len(seq) == 0 {
		return keep
	}

	// tails[l] is the index in seq of the smallest tail of an increasing
	// run of length l+1.
	tails := make([]int, 0, len(seq))
	parent := make([]int, len(seq))
	for i, v := range seq {
		l := sort.Search(len(tails), func(j int) bool { return seq[tails[j]] >= v })
		if l > 0 {
			parent[i] = tails[l-1]
		} else {
			parent[i] = -1
		}
		if l == len(tails) {
			tails = append(tails, i)
		} else {
			tails[l] = i
		}
	}

	for i := tails[len(tails)-1]; i >= 0; i = parent[i] {
		keep[i] = true
	}
	return keep
}
