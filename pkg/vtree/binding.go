package vtree

import "sort"

// Binding associates a key with its live widget and the props that widget
// currently shows.
type Binding struct {
	Key    string
	Type   NodeType
	Handle Handle
	Props  Props
}

// Bindings is the persistent state carried between reconciliation passes.
type Bindings map[string]Binding

// Clone returns a shallow copy of b.
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Attach records the widget handle realised for key.
func (b Bindings) Attach(key string, h Handle) {
	if bind, ok := b[key]; ok {
		bind.Handle = h
		b[key] = bind
	}
}

// Handle returns the widget handle bound to key, or "".
func (b Bindings) Handle(key string) Handle {
	return b[key].Handle
}

// Pending returns the keys whose widgets have not been realised, sorted.
func (b Bindings) Pending() []string {
	var keys []string
	for k, v := range b {
		if v.Handle == "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
