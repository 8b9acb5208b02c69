package vtree

import (
	"reflect"

	"github.com/hardfox-dev/hardfox/pkg/setting"
)

// Field is one named property value.
type Field struct {
	Name  string
	Value any
}

// Props is the property set of a node. Fields must return the same names
// in the same order for every value of one concrete type.
type Props interface {
	Fields() []Field
}

// HeaderProps are the props of a NodeCategoryHeader.
type HeaderProps struct {
	Category string
	Count    int
	Expanded bool
}

// Fields implements Props.
func (p HeaderProps) Fields() []Field {
	return []Field{
		{Name: "category", Value: p.Category},
		{Name: "count", Value: p.Count},
		{Name: "is_expanded", Value: p.Expanded},
	}
}

// RowProps are the props of a NodeSettingRow.
type RowProps struct {
	Setting         setting.Setting
	ShowDescription bool
}

// Fields implements Props.
func (p RowProps) Fields() []Field {
	return []Field{
		{Name: "setting", Value: p.Setting},
		{Name: "show_description", Value: p.ShowDescription},
	}
}

// PropList is a free-form ordered prop set for node types without a
// dedicated schema.
type PropList []Field

// Fields implements Props.
func (p PropList) Fields() []Field {
	return p
}

// Change is one prop that differs between two renders.
type Change struct {
	Name string
	Old  any
	New  any
}

// Lookup returns the value of the named field.
func Lookup(p Props, name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	for _, f := range p.Fields() {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// PropsEqual reports whether two prop sets hold the same names and values.
func PropsEqual(a, b Props) bool {
	return len(diffProps(a, b)) == 0
}

// diffProps returns the changed fields, in the order of b followed by names
// that only exist in a (reported with a nil New value).
func diffProps(a, b Props) []Change {
	var af, bf []Field
	if a != nil {
		af = a.Fields()
	}
	if b != nil {
		bf = b.Fields()
	}

	var changes []Change
	seen := make(map[string]bool, len(bf))
	for _, f := range bf {
		seen[f.Name] = true
		old, ok := fieldValue(af, f.Name)
		if !ok || !valueEqual(old, f.Value) {
			changes = append(changes, Change{Name: f.Name, Old: old, New: f.Value})
		}
	}
	for _, f := range af {
		if !seen[f.Name] {
			changes = append(changes, Change{Name: f.Name, Old: f.Value})
		}
	}
	return changes
}

func fieldValue(fields []Field, name string) (any, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

var boolType = reflect.TypeOf(true)

// valueEqual compares prop values by value, never by identity. A type with
// an Equal(T) bool method is compared with it.
func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case setting.Setting:
		bv, ok := b.(setting.Setting)
		return ok && av.Equal(bv)
	case nil:
		return b == nil
	}

	if b == nil {
		return false
	}
	if m := reflect.ValueOf(a).MethodByName("Equal"); m.IsValid() {
		mt := m.Type()
		bt := reflect.TypeOf(b)
		if mt.NumIn() == 1 && mt.NumOut() == 1 && mt.Out(0) == boolType && bt.AssignableTo(mt.In(0)) {
			return m.Call([]reflect.Value{reflect.ValueOf(b)})[0].Bool()
		}
	}
	return reflect.DeepEqual(a, b)
}
