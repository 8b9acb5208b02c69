package vtree

import "testing"

func TestMetricsFromPatches(t *testing.T) {
	patches := []Patch{
		{Op: OpCreate}, {Op: OpCreate},
		{Op: OpDestroy},
		{Op: OpUpdate},
		{Op: OpReuse}, {Op: OpReuse}, {Op: OpReuse},
		{Op: OpMove},
		{Op: PatchOp(99)},
	}
	want := Metrics{Created: 2, Destroyed: 1, Updated: 1, Reused: 3, Moved: 1}
	if got := MetricsFromPatches(patches); got != want {
		t.Errorf("MetricsFromPatches = %v, want %v", got, want)
	}
	if got := want.Mutations(); got != 5 {
		t.Errorf("Mutations() = %d, want 5", got)
	}
}

func TestMetricsAdd(t *testing.T) {
	a := Metrics{Created: 1, Reused: 2}
	b := Metrics{Destroyed: 3, Reused: 1, Moved: 1}
	want := Metrics{Created: 1, Destroyed: 3, Reused: 3, Moved: 1}
	if got := a.Add(b); got != want {
		t.Errorf("Add = %v, want %v", got, want)
	}
}

func TestMetricsString(t *testing.T) {
	m := Metrics{Created: 4}
	if got, want := m.String(), "created=4 destroyed=0 updated=0 reused=0 moved=0"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPatchOpString(t *testing.T) {
	tests := []struct {
		op   PatchOp
		want string
	}{
		{OpCreate, "Create"},
		{OpUpdate, "Update"},
		{OpDestroy, "Destroy"},
		{OpMove, "Move"},
		{OpReuse, "Reuse"},
		{PatchOp(0), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestBindingsHelpers(t *testing.T) {
	b := Bindings{
		"a": {Key: "a", Handle: "w1"},
		"b": {Key: "b"},
		"c": {Key: "c"},
	}
	clone := b.Clone()
	clone.Attach("b", "w2")
	clone.Attach("missing", "w3")

	if b.Handle("b") != "" {
		t.Error("Attach on clone modified the original")
	}
	if clone.Handle("b") != "w2" {
		t.Errorf("Handle(b) = %q, want w2", clone.Handle("b"))
	}
	if _, ok := clone["missing"]; ok {
		t.Error("Attach created a binding for an unknown key")
	}
	if got := clone.Pending(); len(got) != 1 || got[0] != "c" {
		t.Errorf("Pending() = %v, want [c]", got)
	}
}
