package treefile

import (
	"github.com/hardfox-dev/hardfox/pkg/vtree"
)

// Node is the document form of a vtree.VNode.
type Node struct {
	Type  string         `json:"type" yaml:"type"`
	Key   string         `json:"key" yaml:"key"`
	Props map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
}

// Change is the document form of a vtree.Change.
type Change struct {
	Name string `json:"name"`
	Old  any    `json:"old"`
	New  any    `json:"new"`
}

// Patch is the document form of a vtree.Patch.
type Patch struct {
	Op      string         `json:"op"`
	Key     string         `json:"key"`
	Type    string         `json:"type"`
	Handle  string         `json:"handle,omitempty"`
	Index   int            `json:"index"`
	After   string         `json:"after,omitempty"`
	Props   map[string]any `json:"props,omitempty"`
	Changes []Change       `json:"changes,omitempty"`
}

// Result is the document form of a reconciliation pass.
type Result struct {
	Seq      uint64        `json:"seq,omitempty"`
	Full     bool          `json:"full,omitempty"`
	Patches  []Patch       `json:"patches"`
	Metrics  vtree.Metrics `json:"metrics"`
	Warnings []string      `json:"warnings,omitempty"`
}

// FromNodes converts a sequence for encoding.
func FromNodes(seq []vtree.VNode) []Node {
	out := make([]Node, len(seq))
	for i, n := range seq {
		out[i] = Node{
			Type:  n.Type.String(),
			Key:   n.Key,
			Props: propMap(n.Props),
		}
	}
	return out
}

// FromPatches converts a patch list for encoding.
func FromPatches(patches []vtree.Patch) []Patch {
	out := make([]Patch, len(patches))
	for i, p := range patches {
		jp := Patch{
			Op:     p.Op.String(),
			Key:    p.Key,
			Type:   p.Type.String(),
			Handle: string(p.Handle),
			Index:  p.Index,
			After:  p.After,
			Props:  propMap(p.Props),
		}
		for _, c := range p.Changes {
			jp.Changes = append(jp.Changes, Change{Name: c.Name, Old: c.Old, New: c.New})
		}
		out[i] = jp
	}
	return out
}

// FromResult converts a diff result for encoding. Duplicate key
// diagnostics become warnings.
func FromResult(r vtree.Result) Result {
	out := Result{
		Patches: FromPatches(r.Patches),
		Metrics: r.Metrics,
	}
	for _, d := range r.Diagnostics {
		out.Warnings = append(out.Warnings, d.Error())
	}
	return out
}

func propMap(p vtree.Props) map[string]any {
	if p == nil {
		return nil
	}
	fields := p.Fields()
	if len(fields) == 0 {
		return nil
	}
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Value
	}
	return m
}
