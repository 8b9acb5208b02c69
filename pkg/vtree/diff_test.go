package vtree

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hardfox-dev/hardfox/pkg/setting"
)

func testSetting(key string, value bool) setting.Setting {
	return setting.Setting{
		Key:         key,
		Value:       value,
		Level:       setting.LevelBase,
		Type:        setting.TypeToggle,
		Category:    "test",
		Description: "Test setting " + key,
	}
}

func row(key string, value, showDesc bool) VNode {
	return Row(testSetting(key, value), showDesc)
}

func opsOf(patches []Patch) []string {
	out := make([]string, len(patches))
	for i, p := range patches {
		out[i] = p.Op.String() + ":" + p.Key
	}
	return out
}

func TestDiffScenarios(t *testing.T) {
	tests := []struct {
		name string
		prev []VNode
		next []VNode
		want Metrics
		ops  []string
	}{
		{
			name: "initial render",
			prev: nil,
			next: []VNode{
				Header("privacy", 3, true),
				row("privacy.setting1", true, true),
				row("privacy.setting2", false, true),
				row("privacy.setting3", true, true),
			},
			want: Metrics{Created: 4},
			ops: []string{
				"Create:header_privacy",
				"Create:privacy.setting1",
				"Create:privacy.setting2",
				"Create:privacy.setting3",
			},
		},
		{
			name: "search filter removes settings",
			prev: []VNode{
				Header("privacy", 5, true),
				row("privacy.setting1", true, true),
				row("privacy.setting2", true, true),
				row("privacy.setting3", true, true),
				row("privacy.setting4", true, true),
				row("privacy.setting5", true, true),
			},
			next: []VNode{
				Header("privacy", 2, true),
				row("privacy.setting1", true, true),
				row("privacy.setting3", true, true),
			},
			want: Metrics{Destroyed: 3, Updated: 1, Reused: 2},
			ops: []string{
				"Update:header_privacy",
				"Reuse:privacy.setting1",
				"Reuse:privacy.setting3",
				"Destroy:privacy.setting2",
				"Destroy:privacy.setting4",
				"Destroy:privacy.setting5",
			},
		},
		{
			name: "category collapse",
			prev: []VNode{
				Header("privacy", 4, true),
				row("privacy.setting1", true, true),
				row("privacy.setting2", false, true),
				row("privacy.setting3", true, true),
				row("privacy.setting4", false, true),
			},
			next: []VNode{
				Header("privacy", 4, false),
			},
			want: Metrics{Destroyed: 4, Updated: 1},
			ops: []string{
				"Update:header_privacy",
				"Destroy:privacy.setting1",
				"Destroy:privacy.setting2",
				"Destroy:privacy.setting3",
				"Destroy:privacy.setting4",
			},
		},
		{
			name: "setting value change",
			prev: []VNode{
				Header("privacy", 2, true),
				row("privacy.setting1", true, true),
				row("privacy.setting2", false, true),
			},
			next: []VNode{
				Header("privacy", 2, true),
				row("privacy.setting1", false, true),
				row("privacy.setting2", false, true),
			},
			want: Metrics{Updated: 1, Reused: 2},
			ops: []string{
				"Reuse:header_privacy",
				"Update:privacy.setting1",
				"Reuse:privacy.setting2",
			},
		},
		{
			name: "show descriptions toggle",
			prev: []VNode{
				Header("privacy", 2, true),
				row("privacy.setting1", true, true),
				row("privacy.setting2", false, true),
			},
			next: []VNode{
				Header("privacy", 2, true),
				row("privacy.setting1", true, false),
				row("privacy.setting2", false, false),
			},
			want: Metrics{Updated: 2, Reused: 1},
			ops: []string{
				"Reuse:header_privacy",
				"Update:privacy.setting1",
				"Update:privacy.setting2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Diff(tt.prev, bindingsFor(tt.prev), tt.next)
			if r.Metrics != tt.want {
				t.Errorf("Metrics = %v, want %v", r.Metrics, tt.want)
			}
			if diff := cmp.Diff(tt.ops, opsOf(r.Patches)); diff != "" {
				t.Errorf("patch ops mismatch (-want +got):\n%s", diff)
			}
			if len(r.Diagnostics) != 0 {
				t.Errorf("unexpected diagnostics: %v", r.Err())
			}
		})
	}
}

// bindingsFor fakes realised widgets for every node of seq.
func bindingsFor(seq []VNode) Bindings {
	b := make(Bindings, len(seq))
	for i, n := range seq {
		b[n.Key] = Binding{Key: n.Key, Type: n.Type, Handle: Handle(fmt.Sprintf("w%d", i+1)), Props: n.Props}
	}
	return b
}

func TestDiffUpdateCarriesOnlyChangedProps(t *testing.T) {
	prev := []VNode{Header("privacy", 5, true)}
	next := []VNode{Header("privacy", 2, true)}

	r := Diff(prev, bindingsFor(prev), next)

	want := []Patch{{
		Op:      OpUpdate,
		Key:     "header_privacy",
		Type:    NodeCategoryHeader,
		Handle:  "w1",
		Index:   0,
		Changes: []Change{{Name: "count", Old: 5, New: 2}},
	}}
	if diff := cmp.Diff(want, r.Patches); diff != "" {
		t.Errorf("patches mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffSettingValueChangeCarriesSnapshots(t *testing.T) {
	prev := []VNode{row("a", true, true)}
	next := []VNode{row("a", false, true)}

	r := Diff(prev, bindingsFor(prev), next)
	if len(r.Patches) != 1 || r.Patches[0].Op != OpUpdate {
		t.Fatalf("patches = %v", opsOf(r.Patches))
	}
	changes := r.Patches[0].Changes
	if len(changes) != 1 || changes[0].Name != "setting" {
		t.Fatalf("changes = %+v", changes)
	}
	if got := changes[0].New.(setting.Setting).Value; got != false {
		t.Errorf("new value = %v, want false", got)
	}
}

func TestDiffCreateCarriesFullProps(t *testing.T) {
	next := []VNode{Header("privacy", 1, true), row("a", true, true)}
	r := Diff(nil, nil, next)

	if r.Patches[0].Props != next[0].Props {
		t.Errorf("Create props = %+v, want %+v", r.Patches[0].Props, next[0].Props)
	}
	if r.Patches[0].After != "" || r.Patches[1].After != "header_privacy" {
		t.Errorf("After anchors = %q, %q", r.Patches[0].After, r.Patches[1].After)
	}
	if len(r.Bindings.Pending()) != 2 {
		t.Errorf("Pending() = %v, want both keys", r.Bindings.Pending())
	}
}

func TestDiffNoOp(t *testing.T) {
	seq := []VNode{
		Header("privacy", 2, true),
		row("privacy.setting1", true, true),
		row("privacy.setting2", false, true),
		Header("telemetry", 0, false),
	}
	r := Diff(seq, bindingsFor(seq), seq)

	want := Metrics{Reused: len(seq)}
	if r.Metrics != want {
		t.Errorf("Metrics = %v, want %v", r.Metrics, want)
	}
	if diff := cmp.Diff(bindingsFor(seq), r.Bindings); diff != "" {
		t.Errorf("bindings changed (-want +got):\n%s", diff)
	}
}

func TestDiffFreshSnapshotsAreReused(t *testing.T) {
	// Every render builds new Setting values; equal content must reuse.
	prev := []VNode{row("a", true, true)}
	next := []VNode{Row(testSetting("a", true), true)}

	r := Diff(prev, bindingsFor(prev), next)
	if r.Metrics != (Metrics{Reused: 1}) {
		t.Errorf("Metrics = %v, want one reuse", r.Metrics)
	}
}

func TestDiffEmptyToEmpty(t *testing.T) {
	r := Diff(nil, nil, nil)
	if len(r.Patches) != 0 || r.Metrics != (Metrics{}) {
		t.Errorf("Diff(nil, nil, nil) = %+v", r)
	}
	if r.Bindings == nil {
		t.Error("Bindings should be an empty map, not nil")
	}
}

func TestDiffAllDestroyed(t *testing.T) {
	prev := []VNode{Header("privacy", 1, true), row("a", true, true)}
	r := Diff(prev, bindingsFor(prev), nil)

	if r.Metrics != (Metrics{Destroyed: 2}) {
		t.Errorf("Metrics = %v", r.Metrics)
	}
	if r.Patches[0].Handle != "w1" || r.Patches[1].Handle != "w2" {
		t.Errorf("destroy handles = %q, %q", r.Patches[0].Handle, r.Patches[1].Handle)
	}
	if len(r.Bindings) != 0 {
		t.Errorf("Bindings = %v, want empty", r.Bindings)
	}
}

func TestDiffTypeChangeIsDestroyAndCreate(t *testing.T) {
	prev := []VNode{{Type: NodeSettingRow, Key: "x", Props: RowProps{Setting: testSetting("x", true)}}}
	next := []VNode{{Type: NodeCategoryHeader, Key: "x", Props: HeaderProps{Category: "x"}}}

	r := Diff(prev, bindingsFor(prev), next)

	if r.Metrics != (Metrics{Created: 1, Destroyed: 1}) {
		t.Errorf("Metrics = %v", r.Metrics)
	}
	if diff := cmp.Diff([]string{"Destroy:x", "Create:x"}, opsOf(r.Patches)); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if r.Patches[0].Type != NodeSettingRow || r.Patches[0].Handle != "w1" {
		t.Errorf("destroy = %+v, want old row with its handle", r.Patches[0])
	}
	b := r.Bindings["x"]
	if b.Type != NodeCategoryHeader || b.Handle != "" {
		t.Errorf("binding = %+v, want new header without handle", b)
	}
}

func TestDiffMoves(t *testing.T) {
	a, b, c, d := row("a", true, true), row("b", true, true), row("c", true, true), row("d", true, true)

	tests := []struct {
		name      string
		prev      []VNode
		next      []VNode
		wantMoved []string
	}{
		{"shift from removal is not a move", []VNode{a, b, c}, []VNode{a, c}, nil},
		{"shift from insertion is not a move", []VNode{a, c}, []VNode{a, b, c}, nil},
		{"last to first", []VNode{a, b, c}, []VNode{c, a, b}, []string{"c"}},
		{"first to last", []VNode{a, b, c}, []VNode{b, c, a}, []string{"a"}},
		{"swap", []VNode{a, b}, []VNode{b, a}, []string{"b"}},
		{"reverse", []VNode{a, b, c, d}, []VNode{d, c, b, a}, []string{"d", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Diff(tt.prev, bindingsFor(tt.prev), tt.next)

			var moved []string
			for _, p := range r.Patches {
				if p.Op == OpMove {
					moved = append(moved, p.Key)
				}
			}
			if diff := cmp.Diff(tt.wantMoved, moved); diff != "" {
				t.Errorf("moved keys mismatch (-want +got):\n%s", diff)
			}
			if r.Metrics.Reused != len(tt.next) {
				t.Errorf("Reused = %d, want %d (moves do not change classification)", r.Metrics.Reused, len(tt.next))
			}
			if got := apply(keysOf(tt.prev), r.Patches); !cmp.Equal(got, Keys(tt.next)) {
				t.Errorf("applied order = %v, want %v", got, Keys(tt.next))
			}
		})
	}
}

func TestDiffMovePrecedesReuse(t *testing.T) {
	a, b := row("a", true, true), row("b", true, true)
	r := Diff([]VNode{a, b}, nil, []VNode{b, a})

	want := []string{"Move:b", "Reuse:b", "Reuse:a"}
	if diff := cmp.Diff(want, opsOf(r.Patches)); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if r.Patches[0].Index != 0 || r.Patches[0].After != "" {
		t.Errorf("move = %+v, want index 0 at the front", r.Patches[0])
	}
}

func TestDiffDuplicateKeys(t *testing.T) {
	prev := []VNode{
		row("a", true, true),
		row("a", false, true),
	}
	next := []VNode{
		row("b", true, true),
		row("b", false, true),
		row("a", false, true),
	}

	r := Diff(prev, nil, next)

	if len(r.Diagnostics) != 2 {
		t.Fatalf("Diagnostics = %v, want 2", r.Diagnostics)
	}
	if r.Diagnostics[0].Key != "a" || r.Diagnostics[1].Key != "b" {
		t.Errorf("diagnostic keys = %s, %s", r.Diagnostics[0].Key, r.Diagnostics[1].Key)
	}
	if r.Err() == nil {
		t.Error("Err() = nil, want joined diagnostics")
	}

	// Last write wins on both sides: old "a" is the value=false row, so it
	// is reused; "b" is created once from its last occurrence.
	if diff := cmp.Diff([]string{"Create:b", "Reuse:a"}, opsOf(r.Patches)); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	got := r.Bindings["b"].Props.(RowProps).Setting.Value
	if got != false {
		t.Errorf("binding b value = %v, want last occurrence (false)", got)
	}
}

func TestDiffDestroysOrphanBindings(t *testing.T) {
	prev := []VNode{row("a", true, true)}
	bindings := bindingsFor(prev)
	bindings["ghost"] = Binding{Key: "ghost", Type: NodeSettingRow, Handle: "w9"}
	bindings["unrealised"] = Binding{Key: "unrealised", Type: NodeSettingRow}

	r := Diff(prev, bindings, prev)

	want := []string{"Destroy:ghost", "Reuse:a"}
	if diff := cmp.Diff(want, opsOf(r.Patches)); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if r.Patches[0].Handle != "w9" || r.Patches[0].Index != -1 {
		t.Errorf("orphan destroy = %+v", r.Patches[0])
	}
	if _, ok := r.Bindings["ghost"]; ok {
		t.Error("orphan binding kept")
	}
}

func TestDiffDoesNotMutateInputs(t *testing.T) {
	prev := []VNode{Header("p", 1, true), row("a", true, true)}
	bindings := bindingsFor(prev)
	before := bindings.Clone()

	Diff(prev, bindings, []VNode{row("b", true, true)})

	if diff := cmp.Diff(before, bindings); diff != "" {
		t.Errorf("input bindings mutated (-before +after):\n%s", diff)
	}
}

func TestDiffProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 500; iter++ {
		prev := randomSeq(rng)
		next := randomSeq(rng)
		r := Diff(prev, bindingsFor(prev), next)

		prevKeys := keySet(prev)
		nextKeys := keySet(next)

		// Completeness: every new key is created, updated or reused once.
		classified := map[string]int{}
		destroyed := map[string]int{}
		for _, p := range r.Patches {
			switch p.Op {
			case OpCreate, OpUpdate, OpReuse:
				classified[p.Key]++
			case OpDestroy:
				destroyed[p.Key]++
			}
		}
		for k := range nextKeys {
			if classified[k] != 1 {
				t.Fatalf("iter %d: key %s classified %d times", iter, k, classified[k])
			}
		}
		if m := r.Metrics; m.Created+m.Updated+m.Reused != len(nextKeys) {
			t.Fatalf("iter %d: created+updated+reused = %d, want %d", iter, m.Created+m.Updated+m.Reused, len(nextKeys))
		}

		// Conservation: every dropped key is destroyed exactly once.
		for k := range prevKeys {
			if !nextKeys[k] && destroyed[k] != 1 {
				t.Fatalf("iter %d: dropped key %s destroyed %d times", iter, k, destroyed[k])
			}
		}

		// Order preservation.
		var order []string
		for _, p := range r.Patches {
			if p.Op == OpCreate || p.Op == OpUpdate || p.Op == OpReuse {
				order = append(order, p.Key)
			}
		}
		if !cmp.Equal(order, Keys(next)) {
			t.Fatalf("iter %d: order %v, want %v", iter, order, Keys(next))
		}

		// Metrics are derivable from patches alone.
		if MetricsFromPatches(r.Patches) != r.Metrics {
			t.Fatalf("iter %d: metrics not derived from patches", iter)
		}

		// Applying the patches to the old widget list yields the new order.
		if got := apply(keysOf(prev), r.Patches); !cmp.Equal(got, Keys(next)) {
			t.Fatalf("iter %d: applied %v, want %v\nprev %v", iter, got, Keys(next), Keys(prev))
		}

		// No-op idempotence.
		again := Diff(next, r.Bindings, next)
		if again.Metrics != (Metrics{Reused: len(next)}) {
			t.Fatalf("iter %d: re-diff metrics = %v", iter, again.Metrics)
		}
	}
}

// randomSeq builds a sequence of unique keys drawn from a small pool, with
// random values and an occasional type flip.
func randomSeq(rng *rand.Rand) []VNode {
	perm := rng.Perm(12)
	n := rng.Intn(len(perm) + 1)
	seq := make([]VNode, 0, n)
	for _, k := range perm[:n] {
		key := fmt.Sprintf("k%d", k)
		if k%5 == 0 && rng.Intn(2) == 0 {
			seq = append(seq, VNode{Type: NodeCategoryHeader, Key: key, Props: HeaderProps{Category: key, Count: rng.Intn(3)}})
			continue
		}
		seq = append(seq, row(key, rng.Intn(2) == 0, rng.Intn(3) > 0))
	}
	return seq
}

func keySet(seq []VNode) map[string]bool {
	s := make(map[string]bool, len(seq))
	for _, n := range seq {
		s[n.Key] = true
	}
	return s
}

func keysOf(seq []VNode) []string {
	return Keys(seq)
}

// apply replays patches against an ordered key list the way a list-based
// widget adapter does: Create and Move insert after the After anchor.
func apply(list []string, patches []Patch) []string {
	out := append([]string(nil), list...)
	remove := func(key string) {
		for i, k := range out {
			if k == key {
				out = append(out[:i], out[i+1:]...)
				return
			}
		}
	}
	insertAfter := func(key, anchor string) {
		pos := 0
		if anchor != "" {
			for i, k := range out {
				if k == anchor {
					pos = i + 1
					break
				}
			}
		}
		out = append(out, "")
		copy(out[pos+1:], out[pos:])
		out[pos] = key
	}
	for _, p := range patches {
		switch p.Op {
		case OpCreate:
			insertAfter(p.Key, p.After)
		case OpMove:
			remove(p.Key)
			insertAfter(p.Key, p.After)
		case OpDestroy:
			remove(p.Key)
		}
	}
	return out
}
