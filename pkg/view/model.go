package view

import (
	"sort"
	"strings"

	"github.com/hardfox-dev/hardfox/internal/errors"
	"github.com/hardfox-dev/hardfox/pkg/setting"
	"github.com/hardfox-dev/hardfox/pkg/vtree"
)

// Model is the settings panel state.
type Model struct {
	catalog  *setting.Catalog
	order    []string
	defaults map[string]setting.Setting
	settings map[string]setting.Setting
	modified map[string]bool

	query            string
	expanded         map[string]bool
	showAdvanced     bool
	showDescriptions bool
}

// Option configures a Model.
type Option func(*Model)

// WithExpanded expands the given categories.
func WithExpanded(categories ...string) Option {
	return func(m *Model) {
		for _, c := range categories {
			m.expanded[c] = true
		}
	}
}

// WithShowAdvanced shows ADVANCED level settings.
func WithShowAdvanced(show bool) Option {
	return func(m *Model) {
		m.showAdvanced = show
	}
}

// WithShowDescriptions controls whether rows show their description.
// Descriptions are shown by default.
func WithShowDescriptions(show bool) Option {
	return func(m *Model) {
		m.showDescriptions = show
	}
}

// New creates a Model holding the catalog defaults.
func New(cat *setting.Catalog, opts ...Option) *Model {
	all := cat.All()
	m := &Model{
		catalog:          cat,
		order:            make([]string, 0, len(all)),
		defaults:         make(map[string]setting.Setting, len(all)),
		settings:         make(map[string]setting.Setting, len(all)),
		modified:         make(map[string]bool),
		expanded:         make(map[string]bool),
		showDescriptions: true,
	}
	for _, s := range all {
		m.order = append(m.order, s.Key)
		m.defaults[s.Key] = s
		m.settings[s.Key] = s
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Catalog returns the catalog the model was built from.
func (m *Model) Catalog() *setting.Catalog {
	return m.catalog
}

// Get returns the current state of a setting.
func (m *Model) Get(key string) (setting.Setting, bool) {
	s, ok := m.settings[key]
	return s, ok
}

// Settings returns a copy of every setting keyed by preference name.
func (m *Model) Settings() map[string]setting.Setting {
	out := make(map[string]setting.Setting, len(m.settings))
	for k, v := range m.settings {
		out[k] = v
	}
	return out
}

// SetValue changes the value of a setting. The new value must pass
// validation. A setting set back to its default is no longer modified.
func (m *Model) SetValue(key string, value any) error {
	cur, ok := m.settings[key]
	if !ok {
		return errors.New("E040").WithDetail("unknown setting " + key)
	}
	if cur.Type == setting.TypeDropdown {
		if mapped, ok := m.catalog.Map(key, value); ok {
			value = mapped.Value
		}
	}
	next := cur.WithValue(value)
	if err := next.Validate(); err != nil {
		return err
	}
	m.settings[key] = next
	m.track(key)
	return nil
}

// Toggle advances a setting to its next value: toggles flip, dropdowns
// cycle through their options and sliders step up, wrapping to Min.
// Input settings cannot be toggled.
func (m *Model) Toggle(key string) error {
	cur, ok := m.settings[key]
	if !ok {
		return errors.New("E040").WithDetail("unknown setting " + key)
	}
	switch cur.Type {
	case setting.TypeToggle:
		b, _ := cur.Value.(bool)
		return m.SetValue(key, !b)
	case setting.TypeDropdown:
		i := cur.OptionIndex()
		return m.SetValue(key, cur.Options[(i+1)%len(cur.Options)])
	case setting.TypeSlider:
		step := cur.Step
		if step <= 0 {
			step = 1
		}
		n, _ := cur.Value.(float64)
		if v, ok := cur.Value.(int); ok {
			n = float64(v)
		}
		n += step
		if n > cur.Max {
			n = cur.Min
		}
		return m.SetValue(key, n)
	default:
		return errors.New("E041").WithDetail(key + ": " + string(cur.Type) + " settings cannot be toggled")
	}
}

// Reset restores a setting to its catalog default.
func (m *Model) Reset(key string) error {
	def, ok := m.defaults[key]
	if !ok {
		return errors.New("E040").WithDetail("unknown setting " + key)
	}
	m.settings[key] = def
	delete(m.modified, key)
	return nil
}

// ResetAll restores every setting to its catalog default.
func (m *Model) ResetAll() {
	for k, v := range m.defaults {
		m.settings[k] = v
	}
	m.modified = make(map[string]bool)
}

// ApplyPrefs loads raw browser preferences, as read from an existing
// profile, into the model. Unknown preferences and invalid values are
// skipped. It returns the number of settings that took a value.
func (m *Model) ApplyPrefs(prefs map[string]any) int {
	n := 0
	for key, s := range m.catalog.MapMany(prefs) {
		if s.Validate() != nil {
			continue
		}
		m.settings[key] = s
		m.track(key)
		n++
	}
	return n
}

func (m *Model) track(key string) {
	if m.settings[key].Equal(m.defaults[key]) {
		delete(m.modified, key)
	} else {
		m.modified[key] = true
	}
}

// Modified returns the keys of modified settings, sorted.
func (m *Model) Modified() []string {
	keys := make([]string, 0, len(m.modified))
	for k := range m.modified {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsModified reports whether key differs from its default.
func (m *Model) IsModified(key string) bool {
	return m.modified[key]
}

// ModificationCount returns the number of modified settings.
func (m *Model) ModificationCount() int {
	return len(m.modified)
}

// HasModifications reports whether any setting was modified.
func (m *Model) HasModifications() bool {
	return len(m.modified) > 0
}

// SplitByLevel groups the current settings by the profile file they are
// written to.
func (m *Model) SplitByLevel() (base, advanced []setting.Setting) {
	return setting.SplitByLevel(m.settings)
}

// SetQuery sets the search filter. Matching is case-insensitive against
// key, description and category.
func (m *Model) SetQuery(q string) {
	m.query = strings.TrimSpace(q)
}

// Query returns the search filter.
func (m *Model) Query() string {
	return m.query
}

// SetExpanded expands or collapses a category.
func (m *Model) SetExpanded(category string, expanded bool) {
	if expanded {
		m.expanded[category] = true
	} else {
		delete(m.expanded, category)
	}
}

// ToggleCategory flips the expanded state of a category.
func (m *Model) ToggleCategory(category string) {
	m.SetExpanded(category, !m.expanded[category])
}

// Expanded reports whether a category is expanded.
func (m *Model) Expanded(category string) bool {
	return m.expanded[category]
}

// ExpandedCategories returns the expanded categories, sorted.
func (m *Model) ExpandedCategories() []string {
	out := make([]string, 0, len(m.expanded))
	for c := range m.expanded {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// SetShowAdvanced shows or hides ADVANCED level settings.
func (m *Model) SetShowAdvanced(show bool) {
	m.showAdvanced = show
}

// ShowAdvanced reports whether ADVANCED level settings are shown.
func (m *Model) ShowAdvanced() bool {
	return m.showAdvanced
}

// SetShowDescriptions shows or hides row descriptions.
func (m *Model) SetShowDescriptions(show bool) {
	m.showDescriptions = show
}

// ShowDescriptions reports whether rows show their description.
func (m *Model) ShowDescriptions() bool {
	return m.showDescriptions
}

// Visible reports whether a setting passes the advanced and search
// filters.
func (m *Model) Visible(s setting.Setting) bool {
	if s.Level == setting.LevelAdvanced && !m.showAdvanced {
		return false
	}
	if m.query == "" {
		return true
	}
	q := strings.ToLower(m.query)
	return strings.Contains(strings.ToLower(s.Key), q) ||
		strings.Contains(strings.ToLower(s.Description), q) ||
		strings.Contains(strings.ToLower(s.Category), q)
}

// Tree renders the panel: one header per category holding at least one
// visible setting, in category order, followed by the category's rows in
// catalog order when it is expanded. The header count is the number of
// visible settings in the category.
func (m *Model) Tree() []vtree.VNode {
	byCategory := make(map[string][]setting.Setting)
	for _, k := range m.order {
		s := m.settings[k]
		if m.Visible(s) {
			byCategory[s.Category] = append(byCategory[s.Category], s)
		}
	}

	cats := make([]string, 0, len(byCategory))
	for c := range byCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	var seq []vtree.VNode
	for _, c := range cats {
		rows := byCategory[c]
		open := m.expanded[c]
		seq = append(seq, vtree.Header(c, len(rows), open))
		if !open {
			continue
		}
		for _, s := range rows {
			seq = append(seq, vtree.Row(s, m.showDescriptions))
		}
	}
	return seq
}
