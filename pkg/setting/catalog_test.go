package setting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hardfox-dev/hardfox/internal/errors"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if c.Len() == 0 {
		t.Fatal("default catalog is empty")
	}

	s, ok := c.Get("privacy.trackingprotection.enabled")
	if !ok {
		t.Fatal("tracking protection missing from default catalog")
	}
	if s.Type != TypeToggle || s.Category != "privacy" || s.Value != true {
		t.Errorf("unexpected entry %+v", s)
	}

	all := c.All()
	if len(all) != c.Len() {
		t.Errorf("All() = %d entries, Len() = %d", len(all), c.Len())
	}
	if all[0].Key != "privacy.trackingprotection.enabled" {
		t.Errorf("All() not in file order, first = %s", all[0].Key)
	}

	cats := c.Categories()
	for i := 1; i < len(cats); i++ {
		if cats[i-1] >= cats[i] {
			t.Errorf("Categories() not sorted: %v", cats)
		}
	}
}

func TestParseCatalogDefaultsLevel(t *testing.T) {
	data := []byte(`
settings:
  - key: a.b
    value: true
    type: toggle
    category: x
`)
	c, err := ParseCatalog(data, "test.yaml")
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	s, _ := c.Get("a.b")
	if s.Level != LevelBase {
		t.Errorf("Level = %q, want BASE", s.Level)
	}
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantLine int
	}{
		{
			name:     "invalid yaml",
			data:     "settings: [",
			wantLine: 0,
		},
		{
			name: "missing key",
			data: `settings:
  - value: true
    type: toggle
`,
			wantLine: 2,
		},
		{
			name: "duplicate key",
			data: `settings:
  - key: a
    value: true
    type: toggle
  - key: a
    value: false
    type: toggle
`,
			wantLine: 5,
		},
		{
			name: "invalid value",
			data: `settings:
  - key: a
    value: 7
    type: toggle
`,
			wantLine: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data), "bad.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			he, ok := err.(*errors.Error)
			if !ok {
				t.Fatalf("error type = %T, want *errors.Error", err)
			}
			if he.Code != "E150" {
				t.Errorf("Code = %s, want E150", he.Code)
			}
			if he.Location == nil || he.Location.Line != tt.wantLine {
				t.Errorf("Location = %v, want line %d", he.Location, tt.wantLine)
			}
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte(`settings:
  - key: x.y
    value: about:blank
    type: input
    category: startup
`), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	if _, err := LoadCatalog(filepath.Join(dir, "missing.yaml")); !errors.HasCode(err, "E150") {
		t.Errorf("missing file error = %v, want E150", err)
	}
}

func TestMap(t *testing.T) {
	c, err := ParseCatalog([]byte(`settings:
  - key: mode
    value: Strict
    type: dropdown
    category: privacy
    options: [Standard, Strict, Custom]
  - key: flag
    value: true
    type: toggle
    category: privacy
`), "map.yaml")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		key    string
		value  any
		want   any
		wantOK bool
	}{
		{"exact option", "mode", "Custom", "Custom", true},
		{"case-insensitive option", "mode", "standard", "Standard", true},
		{"unmatched option kept", "mode", "paranoid", "paranoid", true},
		{"toggle passthrough", "flag", false, false, true},
		{"unknown pref", "nope", true, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := c.Map(tt.key, tt.value)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && s.Value != tt.want {
				t.Errorf("Value = %v, want %v", s.Value, tt.want)
			}
		})
	}

	mapped := c.MapMany(map[string]any{"mode": "STRICT", "flag": false, "other": 1})
	if len(mapped) != 2 {
		t.Fatalf("MapMany = %d entries, want 2", len(mapped))
	}
	if mapped["mode"].Value != "Strict" {
		t.Errorf("mode = %v, want Strict", mapped["mode"].Value)
	}
}
