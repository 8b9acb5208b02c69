package setting

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/hardfox-dev/hardfox/internal/errors"
)

// Level selects the profile file a setting is written to.
type Level string

const (
	LevelBase     Level = "BASE"
	LevelAdvanced Level = "ADVANCED"
)

// String implements fmt.Stringer.
func (l Level) String() string {
	return string(l)
}

// Filename returns the profile file for this level.
func (l Level) Filename() string {
	if l == LevelAdvanced {
		return "user.js"
	}
	return "prefs.js"
}

// Prefix returns the JavaScript function used to declare the preference.
func (l Level) Prefix() string {
	if l == LevelAdvanced {
		return "user_pref"
	}
	return "pref"
}

// Type is the kind of control a setting is edited with.
type Type string

const (
	TypeToggle   Type = "toggle"
	TypeDropdown Type = "dropdown"
	TypeSlider   Type = "slider"
	TypeInput    Type = "input"
)

// Setting is one browser preference together with its presentation
// metadata.
type Setting struct {
	Key         string  `yaml:"key" json:"key"`
	Value       any     `yaml:"value" json:"value"`
	Level       Level   `yaml:"level" json:"level"`
	Type        Type    `yaml:"type" json:"type"`
	Category    string  `yaml:"category" json:"category"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Options     []any   `yaml:"options,omitempty" json:"options,omitempty"`
	Min         float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max         float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Step        float64 `yaml:"step,omitempty" json:"step,omitempty"`
}

// WithValue returns a copy of s holding value.
func (s Setting) WithValue(value any) Setting {
	c := s
	c.Value = value
	if s.Options != nil {
		c.Options = append([]any(nil), s.Options...)
	}
	return c
}

// Equal reports whether s and o describe the same preference state.
// Numbers compare by value regardless of their Go type, so a catalog int
// and a JSON float64 holding the same number are equal.
func (s Setting) Equal(o Setting) bool {
	if s.Key != o.Key || s.Level != o.Level || s.Type != o.Type ||
		s.Category != o.Category || s.Description != o.Description ||
		s.Min != o.Min || s.Max != o.Max || s.Step != o.Step {
		return false
	}
	if !ValuesEqual(s.Value, o.Value) {
		return false
	}
	if len(s.Options) != len(o.Options) {
		return false
	}
	for i := range s.Options {
		if !ValuesEqual(s.Options[i], o.Options[i]) {
			return false
		}
	}
	return true
}

// Validate checks the value against the setting's type, options and range.
func (s Setting) Validate() error {
	switch s.Type {
	case TypeToggle:
		if _, ok := s.Value.(bool); !ok {
			return invalid(s, "toggle value must be a boolean, got %T", s.Value)
		}
	case TypeDropdown:
		if len(s.Options) == 0 {
			return invalid(s, "dropdown has no options")
		}
		if s.OptionIndex() < 0 {
			return invalid(s, "value %v is not one of %v", s.Value, s.Options)
		}
	case TypeSlider:
		n, ok := toFloat(s.Value)
		if !ok {
			return invalid(s, "slider value must be a number, got %T", s.Value)
		}
		if n < s.Min || n > s.Max {
			return invalid(s, "value %v outside range [%v, %v]", s.Value, s.Min, s.Max)
		}
	case TypeInput:
		switch s.Value.(type) {
		case string, int, int64, float64:
		default:
			return invalid(s, "input value must be a string or number, got %T", s.Value)
		}
	default:
		return invalid(s, "unknown setting type %q", s.Type)
	}
	return nil
}

func invalid(s Setting, format string, args ...any) error {
	return errors.New("E041").
		WithDetail(s.Key + ": " + fmt.Sprintf(format, args...))
}

// OptionIndex returns the position of the current value in Options, or -1.
func (s Setting) OptionIndex() int {
	for i, opt := range s.Options {
		if ValuesEqual(opt, s.Value) {
			return i
		}
	}
	return -1
}

// PrefLine renders the setting as a prefs.js or user.js line, e.g.
// pref("network.prefetch-next", false);
func (s Setting) PrefLine() string {
	return fmt.Sprintf("%s(%q, %s);", s.Level.Prefix(), s.Key, FormatValue(s.Value))
}

// FormatValue renders a preference value as a JavaScript literal.
func FormatValue(v any) string {
	switch val := v.(type) {
	case bool:
		return strconv.FormatBool(val)
	case string:
		return strconv.Quote(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return strconv.Quote(fmt.Sprint(v))
	}
}

// ValuesEqual compares two preference values. Numeric values compare by
// magnitude; everything else falls back to reflect.DeepEqual.
func ValuesEqual(a, b any) bool {
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case nil:
		return b == nil
	}
	if an, ok := toFloat(a); ok {
		bn, ok := toFloat(b)
		return ok && an == bn
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// SplitByLevel groups settings by the profile file they belong to. Both
// slices are sorted by key.
func SplitByLevel(settings map[string]Setting) (base, advanced []Setting) {
	for _, s := range settings {
		if s.Level == LevelAdvanced {
			advanced = append(advanced, s)
		} else {
			base = append(base, s)
		}
	}
	sort.Slice(base, func(i, j int) bool { return base[i].Key < base[j].Key })
	sort.Slice(advanced, func(i, j int) bool { return advanced[i].Key < advanced[j].Key })
	return base, advanced
}
