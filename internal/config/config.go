package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hardfox-dev/hardfox/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "hardfox.json"

	// DefaultPort is the default port of 'hardfox serve'.
	DefaultPort = 8080

	// DefaultHost is the default host of 'hardfox serve'.
	DefaultHost = "localhost"

	// DefaultMetricsPath is the default route of the Prometheus endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace is the default Prometheus metric namespace.
	DefaultNamespace = "hardfox"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config represents the complete hardfox.json configuration.
type Config struct {
	// Catalog is the path to a YAML settings catalog. Empty selects the
	// built-in catalog.
	Catalog string `json:"catalog,omitempty"`

	// View contains the initial panel state.
	View ViewConfig `json:"view,omitempty"`

	// Server contains 'hardfox serve' settings.
	Server ServerConfig `json:"server,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ViewConfig contains the initial panel state.
type ViewConfig struct {
	// ShowAdvanced lists ADVANCED settings alongside BASE ones.
	ShowAdvanced bool `json:"showAdvanced,omitempty"`

	// ShowDescriptions renders setting descriptions in rows.
	ShowDescriptions bool `json:"showDescriptions,omitempty"`

	// Expanded lists the categories expanded at startup.
	Expanded []string `json:"expanded,omitempty"`
}

// ServerConfig contains 'hardfox serve' settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// MetricsPath is the route of the Prometheus endpoint. "-" disables it.
	MetricsPath string `json:"metricsPath,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			MetricsPath: DefaultMetricsPath,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for hardfox.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No hardfox.json found in " + filepath.Dir(path)).
				WithSuggestion("Create hardfox.json or pass --config")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithLocation(path, 0).
			WithDetail("Failed to parse hardfox.json: " + err.Error()).
			WithSuggestion("Check that hardfox.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("server.port must be between 0 and 65535")
	}
	if p := c.Server.MetricsPath; p != "" && p != "-" && !strings.HasPrefix(p, "/") {
		return errors.New("E122").
			WithDetail("server.metricsPath must start with '/'")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	for _, cat := range c.View.Expanded {
		if strings.TrimSpace(cat) == "" {
			return errors.New("E122").
				WithDetail("view.expanded contains an empty category")
		}
	}
	return nil
}

// Address returns the listen address of 'hardfox serve'.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// MetricsEnabled reports whether the metrics route is served.
func (c *Config) MetricsEnabled() bool {
	return c.Server.MetricsPath != "-"
}

// CatalogPath returns the catalog path resolved against the config
// directory, or "" for the built-in catalog.
func (c *Config) CatalogPath() string {
	if c.Catalog == "" || filepath.IsAbs(c.Catalog) {
		return c.Catalog
	}
	return filepath.Join(c.Dir(), c.Catalog)
}

// LogLevel returns the configured level. An invalid level yields info.
func (c *Config) LogLevel() slog.Level {
	l, err := ParseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.New("E122").
		WithDetail("unknown log level " + strconv.Quote(s)).
		WithSuggestion("Use one of debug, info, warn or error")
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing hardfox.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No hardfox.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory or one of its parents.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
