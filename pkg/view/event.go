package view

import (
	"github.com/hardfox-dev/hardfox/internal/errors"
)

// EventKind names a state change of the panel.
type EventKind string

const (
	EventSetValue         EventKind = "set_value"
	EventToggle           EventKind = "toggle"
	EventReset            EventKind = "reset"
	EventResetAll         EventKind = "reset_all"
	EventSearch           EventKind = "search"
	EventToggleCategory   EventKind = "toggle_category"
	EventExpand           EventKind = "expand"
	EventCollapse         EventKind = "collapse"
	EventShowAdvanced     EventKind = "show_advanced"
	EventShowDescriptions EventKind = "show_descriptions"
)

// Event is one user action, as posted by a remote client.
type Event struct {
	Kind     EventKind `json:"kind"`
	Key      string    `json:"key,omitempty"`
	Category string    `json:"category,omitempty"`
	Query    string    `json:"query,omitempty"`
	Value    any       `json:"value,omitempty"`
	Enabled  bool      `json:"enabled,omitempty"`
}

// Dispatch applies ev to the model.
func (m *Model) Dispatch(ev Event) error {
	switch ev.Kind {
	case EventSetValue:
		return m.SetValue(ev.Key, ev.Value)
	case EventToggle:
		return m.Toggle(ev.Key)
	case EventReset:
		return m.Reset(ev.Key)
	case EventResetAll:
		m.ResetAll()
	case EventSearch:
		m.SetQuery(ev.Query)
	case EventToggleCategory:
		m.ToggleCategory(ev.Category)
	case EventExpand:
		m.SetExpanded(ev.Category, true)
	case EventCollapse:
		m.SetExpanded(ev.Category, false)
	case EventShowAdvanced:
		m.SetShowAdvanced(ev.Enabled)
	case EventShowDescriptions:
		m.SetShowDescriptions(ev.Enabled)
	default:
		return errors.New("E042").WithDetail("unknown event kind " + string(ev.Kind))
	}
	return nil
}
