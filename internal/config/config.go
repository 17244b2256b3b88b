package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/debugtoolbar/debugtoolbar/internal/diag"
)

// Default values for the toolbar configuration.
const (
	DefaultRetention      = 20
	DefaultVarDir         = "var"
	DefaultAreaCode       = "frontend"
	DefaultHTTPPort       = 8080
	DefaultStreamInterval = 5 * time.Second
	DefaultAPIHeader      = "X-Api-Key"
)

// Config holds the configuration parsed from the `toolbar:` section of
// config.yaml.
type Config struct {
	Toolbar ToolbarConfig `yaml:"toolbar"`
}

// ToolbarConfig holds all debug toolbar settings.
type ToolbarConfig struct {
	// Enabled gates every toolbar side effect: no timers, ids or artifacts
	// are produced while false.
	Enabled bool `yaml:"enabled"`

	// Retention is how many toolbars are kept on disk (default 20).
	Retention int `yaml:"retention"`

	// VarDir is the host's variable-data root. Toolbars live in
	// <var_dir>/smile_toolbar.
	VarDir string `yaml:"var_dir"`

	// AreaCode tags every toolbar id with the execution scope
	// (e.g. "frontend", "adminhtml").
	AreaCode string `yaml:"area_code"`

	// HTTPPort is the port the demo host and inspection API listen on.
	HTTPPort int `yaml:"http_port"`

	// StreamInterval is how often the websocket hub pushes the toolbar list.
	StreamInterval time.Duration `yaml:"stream_interval"`

	// API protects the inspection endpoints.
	API APIConfig `yaml:"api"`
}

// APIConfig controls access to the inspection API.
type APIConfig struct {
	// KeyEnv is the name of the environment variable holding the expected
	// API key. Empty disables the check.
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header carrying the key (default "X-Api-Key").
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a APIConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default.
func (a APIConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return DefaultAPIHeader
}

// Load reads and parses the config file at path.
// Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("toolbar config: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data, applying defaults and validation.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("toolbar config: parse yaml: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("toolbar config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Toolbar: ToolbarConfig{
			Retention:      DefaultRetention,
			VarDir:         DefaultVarDir,
			AreaCode:       DefaultAreaCode,
			HTTPPort:       DefaultHTTPPort,
			StreamInterval: DefaultStreamInterval,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	tb := cfg.Toolbar
	if tb.Retention < 0 {
		return fmt.Errorf("toolbar.retention must not be negative")
	}
	if tb.VarDir == "" {
		return fmt.Errorf("toolbar.var_dir is required")
	}
	if !diag.ValidSegment(tb.AreaCode) {
		return fmt.Errorf("toolbar.area_code %q must only contain letters, digits and '_'", tb.AreaCode)
	}
	if tb.HTTPPort <= 0 || tb.HTTPPort > 65535 {
		return fmt.Errorf("toolbar.http_port %d is out of range [1, 65535]", tb.HTTPPort)
	}
	if tb.StreamInterval <= 0 {
		return fmt.Errorf("toolbar.stream_interval must be positive")
	}
	return nil
}
