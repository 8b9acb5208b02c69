package tui

import (
	"fmt"
	"strings"

	"github.com/hardfox-dev/hardfox/pkg/setting"
	"github.com/hardfox-dev/hardfox/pkg/vtree"
	"github.com/hardfox-dev/hardfox/pkg/widget"
)

// row is one realised panel line. Its text is styled when the row is
// created or updated and kept as is on Reuse.
type row struct {
	handle vtree.Handle
	key    string
	typ    vtree.NodeType

	header  vtree.HeaderProps
	setting vtree.RowProps

	text string
}

func (r *row) isHeader() bool {
	return r.typ == vtree.NodeCategoryHeader
}

// rowStore is the widget adapter of the terminal panel. It keeps rows in
// display order. The bubbletea program reads it only while no render is
// in flight, so it needs no lock.
type rowStore struct {
	gen  *widget.HandleGenerator
	rows []*row

	// styled counts how often each key was restyled.
	styled map[string]int
}

func newRowStore() *rowStore {
	return &rowStore{
		gen:    widget.NewHandleGenerator("row"),
		styled: make(map[string]int),
	}
}

// Apply implements widget.Adapter.
func (s *rowStore) Apply(p vtree.Patch) (vtree.Handle, error) {
	switch p.Op {
	case vtree.OpCreate:
		if s.indexOfKey(p.Key) >= 0 {
			return "", fmt.Errorf("%w: %s", widget.ErrKeyInUse, p.Key)
		}
		r := &row{handle: s.gen.Next(), key: p.Key, typ: p.Type}
		if err := r.setProps(p.Props); err != nil {
			return "", err
		}
		if err := s.insertAfter(p.After, r); err != nil {
			return "", err
		}
		s.restyle(r)
		return r.handle, nil

	case vtree.OpUpdate:
		r := s.byHandle(p.Handle)
		if r == nil {
			return "", fmt.Errorf("%w: %q", widget.ErrUnknownHandle, p.Handle)
		}
		for _, c := range p.Changes {
			if err := r.setField(c.Name, c.New); err != nil {
				return "", err
			}
		}
		s.restyle(r)

	case vtree.OpMove:
		i := s.indexOfHandle(p.Handle)
		if i < 0 {
			return "", fmt.Errorf("%w: %q", widget.ErrUnknownHandle, p.Handle)
		}
		r := s.rows[i]
		s.rows = append(s.rows[:i], s.rows[i+1:]...)
		if err := s.insertAfter(p.After, r); err != nil {
			return "", err
		}

	case vtree.OpDestroy:
		if p.Handle == "" {
			break
		}
		i := s.indexOfHandle(p.Handle)
		if i < 0 {
			return "", fmt.Errorf("%w: %q", widget.ErrUnknownHandle, p.Handle)
		}
		s.rows = append(s.rows[:i], s.rows[i+1:]...)

	case vtree.OpReuse:
		if s.byHandle(p.Handle) == nil {
			return "", fmt.Errorf("%w: %q", widget.ErrUnknownHandle, p.Handle)
		}

	default:
		return "", fmt.Errorf("tui: unsupported op %s", p.Op)
	}
	return "", nil
}

func (r *row) setProps(p vtree.Props) error {
	if p == nil {
		return nil
	}
	for _, f := range p.Fields() {
		if err := r.setField(f.Name, f.Value); err != nil {
			return err
		}
	}
	return nil
}

func (r *row) setField(name string, v any) error {
	ok := true
	switch name {
	case "category":
		r.header.Category, ok = v.(string)
	case "count":
		r.header.Count, ok = v.(int)
	case "is_expanded":
		r.header.Expanded, ok = v.(bool)
	case "setting":
		r.setting.Setting, ok = v.(setting.Setting)
	case "show_description":
		r.setting.ShowDescription, ok = v.(bool)
	}
	if !ok {
		return fmt.Errorf("tui: %s: prop %q has type %T", r.key, name, v)
	}
	return nil
}

func (s *rowStore) restyle(r *row) {
	s.styled[r.key]++
	if r.isHeader() {
		r.text = styleHeader(r.header)
		return
	}
	r.text = styleSetting(r.setting)
}

func styleHeader(h vtree.HeaderProps) string {
	arrow := "▸"
	if h.Expanded {
		arrow = "▾"
	}
	return headerStyle.Render(arrow+" "+h.Category) + " " + countStyle.Render(fmt.Sprintf("(%d)", h.Count))
}

func styleSetting(p vtree.RowProps) string {
	s := p.Setting
	var b strings.Builder
	b.WriteString("    ")
	b.WriteString(keyStyle.Render(s.Key))
	b.WriteString(" = ")
	b.WriteString(valueStyle.Render(setting.FormatValue(s.Value)))
	if s.Level == setting.LevelAdvanced {
		b.WriteString(" ")
		b.WriteString(badgeStyle.Render("[advanced]"))
	}
	if p.ShowDescription && s.Description != "" {
		b.WriteString("\n      ")
		b.WriteString(descStyle.Render(s.Description))
	}
	return b.String()
}

func (s *rowStore) insertAfter(anchor string, r *row) error {
	at := 0
	if anchor != "" {
		i := s.indexOfKey(anchor)
		if i < 0 {
			return fmt.Errorf("%w: %s", widget.ErrUnknownAnchor, anchor)
		}
		at = i + 1
	}
	s.rows = append(s.rows, nil)
	copy(s.rows[at+1:], s.rows[at:])
	s.rows[at] = r
	return nil
}

func (s *rowStore) indexOfKey(key string) int {
	for i, r := range s.rows {
		if r.key == key {
			return i
		}
	}
	return -1
}

func (s *rowStore) indexOfHandle(h vtree.Handle) int {
	if h == "" {
		return -1
	}
	for i, r := range s.rows {
		if r.handle == h {
			return i
		}
	}
	return -1
}

func (s *rowStore) byHandle(h vtree.Handle) *row {
	if i := s.indexOfHandle(h); i >= 0 {
		return s.rows[i]
	}
	return nil
}

func (s *rowStore) reset() {
	s.rows = nil
}

func (s *rowStore) keys() []string {
	out := make([]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.key
	}
	return out
}
