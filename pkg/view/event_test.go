package view

import (
	"encoding/json"
	"testing"

	"github.com/hardfox-dev/hardfox/internal/errors"
)

func TestDispatch(t *testing.T) {
	m := newTestModel(t)

	events := []Event{
		{Kind: EventExpand, Category: "privacy"},
		{Kind: EventSearch, Query: "setting"},
		{Kind: EventShowAdvanced, Enabled: true},
		{Kind: EventShowDescriptions, Enabled: false},
		{Kind: EventToggle, Key: "privacy.setting1"},
		{Kind: EventSetValue, Key: "privacy.setting2", Value: true},
		{Kind: EventToggleCategory, Category: "network"},
	}
	for _, ev := range events {
		if err := m.Dispatch(ev); err != nil {
			t.Fatalf("Dispatch(%+v): %v", ev, err)
		}
	}

	if !m.Expanded("privacy") || !m.Expanded("network") {
		t.Errorf("expanded = %v", m.ExpandedCategories())
	}
	if m.Query() != "setting" || !m.ShowAdvanced() || m.ShowDescriptions() {
		t.Errorf("flags: query=%q advanced=%v descriptions=%v", m.Query(), m.ShowAdvanced(), m.ShowDescriptions())
	}
	if m.ModificationCount() != 2 {
		t.Errorf("modified = %v", m.Modified())
	}

	for _, ev := range []Event{
		{Kind: EventCollapse, Category: "privacy"},
		{Kind: EventReset, Key: "privacy.setting1"},
		{Kind: EventResetAll},
	} {
		if err := m.Dispatch(ev); err != nil {
			t.Fatalf("Dispatch(%+v): %v", ev, err)
		}
	}
	if m.Expanded("privacy") || m.HasModifications() {
		t.Errorf("expanded=%v modified=%v", m.ExpandedCategories(), m.Modified())
	}
}

func TestDispatchUnknown(t *testing.T) {
	m := newTestModel(t)
	if err := m.Dispatch(Event{Kind: "explode"}); !errors.HasCode(err, "E042") {
		t.Errorf("err = %v, want E042", err)
	}
}

func TestEventJSON(t *testing.T) {
	var ev Event
	if err := json.Unmarshal([]byte(`{"kind":"set_value","key":"privacy.setting2","value":true}`), &ev); err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t)
	if err := m.Dispatch(ev); err != nil {
		t.Fatal(err)
	}
	if !m.IsModified("privacy.setting2") {
		t.Error("decoded event not applied")
	}
}
