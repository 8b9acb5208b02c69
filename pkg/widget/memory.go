package widget

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hardfox-dev/hardfox/pkg/vtree"
)

var (
	// ErrUnknownHandle is returned for a patch naming a widget that does
	// not exist.
	ErrUnknownHandle = errors.New("widget: unknown handle")

	// ErrUnknownAnchor is returned when the After key of a Create or Move
	// names no live widget.
	ErrUnknownAnchor = errors.New("widget: unknown anchor")

	// ErrKeyInUse is returned when a Create names a key that already has a
	// live widget.
	ErrKeyInUse = errors.New("widget: key already has a widget")
)

// Widget is one realised node held by Memory.
type Widget struct {
	Handle vtree.Handle
	Key    string
	Type   vtree.NodeType
	Props  vtree.PropList
}

// Memory is an Adapter keeping widgets in an ordered list. It is safe for
// concurrent use.
type Memory struct {
	mu      sync.Mutex
	gen     *HandleGenerator
	widgets []Widget
	log     []string
}

// NewMemory creates an empty Memory adapter issuing handles "w1", "w2", ...
func NewMemory() *Memory {
	return &Memory{gen: NewHandleGenerator("w")}
}

// Apply implements Adapter.
func (m *Memory) Apply(p vtree.Patch) (vtree.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var h vtree.Handle
	switch p.Op {
	case vtree.OpCreate:
		if m.indexOfKey(p.Key) >= 0 {
			return "", fmt.Errorf("%w: %s", ErrKeyInUse, p.Key)
		}
		w := Widget{Handle: m.gen.Next(), Key: p.Key, Type: p.Type}
		if p.Props != nil {
			w.Props = append(vtree.PropList(nil), p.Props.Fields()...)
		}
		if err := m.insertAfter(p.After, w); err != nil {
			return "", err
		}
		h = w.Handle

	case vtree.OpUpdate:
		i := m.indexOfHandle(p.Handle)
		if i < 0 {
			return "", fmt.Errorf("%w: %q", ErrUnknownHandle, p.Handle)
		}
		for _, c := range p.Changes {
			m.widgets[i].Props = setField(m.widgets[i].Props, c)
		}

	case vtree.OpMove:
		i := m.indexOfHandle(p.Handle)
		if i < 0 {
			return "", fmt.Errorf("%w: %q", ErrUnknownHandle, p.Handle)
		}
		w := m.widgets[i]
		m.widgets = append(m.widgets[:i], m.widgets[i+1:]...)
		if err := m.insertAfter(p.After, w); err != nil {
			return "", err
		}

	case vtree.OpDestroy:
		if p.Handle == "" {
			// Never realised.
			break
		}
		i := m.indexOfHandle(p.Handle)
		if i < 0 {
			return "", fmt.Errorf("%w: %q", ErrUnknownHandle, p.Handle)
		}
		m.widgets = append(m.widgets[:i], m.widgets[i+1:]...)

	case vtree.OpReuse:
	default:
		return "", fmt.Errorf("widget: unsupported op %s", p.Op)
	}

	m.log = append(m.log, p.Op.String()+":"+p.Key)
	return h, nil
}

func (m *Memory) insertAfter(anchor string, w Widget) error {
	at := 0
	if anchor != "" {
		i := m.indexOfKey(anchor)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownAnchor, anchor)
		}
		at = i + 1
	}
	m.widgets = append(m.widgets, Widget{})
	copy(m.widgets[at+1:], m.widgets[at:])
	m.widgets[at] = w
	return nil
}

func (m *Memory) indexOfKey(key string) int {
	for i := range m.widgets {
		if m.widgets[i].Key == key {
			return i
		}
	}
	return -1
}

func (m *Memory) indexOfHandle(h vtree.Handle) int {
	if h == "" {
		return -1
	}
	for i := range m.widgets {
		if m.widgets[i].Handle == h {
			return i
		}
	}
	return -1
}

// setField applies one change to a materialised prop list. A change with
// a nil New value for a field the list holds removes it.
func setField(props vtree.PropList, c vtree.Change) vtree.PropList {
	for i := range props {
		if props[i].Name == c.Name {
			if c.New == nil && c.Old != nil {
				return append(props[:i], props[i+1:]...)
			}
			props[i].Value = c.New
			return props
		}
	}
	return append(props, vtree.Field{Name: c.Name, Value: c.New})
}

// Widgets returns a copy of the live widgets in display order.
func (m *Memory) Widgets() []Widget {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Widget, len(m.widgets))
	copy(out, m.widgets)
	return out
}

// Keys returns the keys of the live widgets in display order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, len(m.widgets))
	for i, w := range m.widgets {
		keys[i] = w.Key
	}
	return keys
}

// Len returns the number of live widgets.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.widgets)
}

// Log returns every applied patch as "Op:key", oldest first.
func (m *Memory) Log() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.log...)
}

// Reset tears down every widget and clears the log. Handles are never
// reissued.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.widgets = nil
	m.log = nil
}
