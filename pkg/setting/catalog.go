package setting

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hardfox-dev/hardfox/internal/errors"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog is the metadata for every setting the panel knows about, in file
// order. Values held by the catalog are the defaults.
type Catalog struct {
	settings map[string]Setting
	order    []string
	logger   *slog.Logger
}

type catalogFile struct {
	Settings []yaml.Node `yaml:"settings"`
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML, "catalog.yaml")
	if err != nil {
		panic(fmt.Sprintf("setting: embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E150").WithLocation(path, 0).Wrap(err)
	}
	return ParseCatalog(data, path)
}

// ParseCatalog decodes a YAML catalog. name is used in error locations.
func ParseCatalog(data []byte, name string) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.New("E150").WithLocation(name, 0).Wrap(err)
	}

	c := &Catalog{
		settings: make(map[string]Setting, len(file.Settings)),
		logger:   slog.Default(),
	}
	for i := range file.Settings {
		node := &file.Settings[i]
		var s Setting
		if err := node.Decode(&s); err != nil {
			return nil, errors.New("E150").WithLocation(name, node.Line).Wrap(err)
		}
		if s.Key == "" {
			return nil, errors.New("E150").
				WithLocation(name, node.Line).
				WithSuggestion("Every setting needs a non-empty key")
		}
		if _, dup := c.settings[s.Key]; dup {
			return nil, errors.New("E150").
				WithLocation(name, node.Line).
				WithDetail("setting " + s.Key + " is declared twice")
		}
		if s.Level == "" {
			s.Level = LevelBase
		}
		if err := s.Validate(); err != nil {
			return nil, errors.New("E150").WithLocation(name, node.Line).Wrap(err)
		}
		c.settings[s.Key] = s
		c.order = append(c.order, s.Key)
	}
	return c, nil
}

// WithLogger sets the logger used by Map and MapMany.
func (c *Catalog) WithLogger(l *slog.Logger) *Catalog {
	c.logger = l
	return c
}

// Len returns the number of settings.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Get returns the catalog entry for key.
func (c *Catalog) Get(key string) (Setting, bool) {
	s, ok := c.settings[key]
	return s, ok
}

// All returns every setting in catalog order.
func (c *Catalog) All() []Setting {
	out := make([]Setting, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.settings[k])
	}
	return out
}

// Categories returns the distinct category names, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, s := range c.settings {
		if !seen[s.Category] {
			seen[s.Category] = true
			cats = append(cats, s.Category)
		}
	}
	sort.Strings(cats)
	return cats
}

// Map converts a raw browser preference into a Setting using the catalog
// metadata. Unknown preferences report false. Dropdown values are matched
// case-insensitively against the declared options.
func (c *Catalog) Map(key string, value any) (Setting, bool) {
	meta, ok := c.settings[key]
	if !ok {
		c.logger.Debug("unknown preference, skipping", "key", key)
		return Setting{}, false
	}
	if meta.Type == TypeDropdown {
		value = c.normalizeOption(key, value, meta.Options)
	}
	return meta.WithValue(value), true
}

// MapMany maps every known preference in prefs.
func (c *Catalog) MapMany(prefs map[string]any) map[string]Setting {
	out := make(map[string]Setting, len(prefs))
	for key, value := range prefs {
		if s, ok := c.Map(key, value); ok {
			out[key] = s
		}
	}
	c.logger.Info("mapped preferences", "known", len(out), "total", len(prefs))
	return out
}

func (c *Catalog) normalizeOption(key string, value any, options []any) any {
	str, ok := value.(string)
	if !ok || len(options) == 0 {
		return value
	}
	for _, opt := range options {
		if o, ok := opt.(string); ok && o == str {
			return o
		}
	}
	for _, opt := range options {
		if o, ok := opt.(string); ok && strings.EqualFold(o, str) {
			return o
		}
	}
	c.logger.Warn("could not normalize dropdown value", "key", key, "value", str, "options", options)
	return value
}
