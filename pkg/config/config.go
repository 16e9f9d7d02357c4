// Package config handles loading and saving trendscope configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/trendscope/config.yaml
//   - State:   ~/.local/state/trendscope/ (export wizard answers)
//
// Values are layered: defaults, then the yaml file, then a .env file in the
// working directory and TRENDSCOPE_* environment variables. Command line
// flags are applied last by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/trendscope/pkg/search"
)

// DefaultAPIURL is the analytics service base path used when nothing else is
// configured.
const DefaultAPIURL = "http://localhost:8000/api"

// APIConfig points at the analytics backend.
type APIConfig struct {
	BaseURL   string `yaml:"base_url,omitempty" env:"TRENDSCOPE_API_URL"`
	UserAgent string `yaml:"user_agent,omitempty" env:"TRENDSCOPE_USER_AGENT"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	DefaultView string `yaml:"default_view,omitempty" env:"TRENDSCOPE_DEFAULT_VIEW"` // overview, clusters, documents, sources, brief
	TopN        string `yaml:"top_n,omitempty" env:"TRENDSCOPE_TOP_N"`               // 3, 5 or all
}

// OfflineConfig serves the dashboard from a directory of JSON payloads.
type OfflineConfig struct {
	DataDir string `yaml:"data_dir,omitempty" env:"TRENDSCOPE_DATA_DIR"`
	Watch   bool   `yaml:"watch,omitempty" env:"TRENDSCOPE_WATCH"`
}

// Config is the top-level configuration for trendscope.
type Config struct {
	API     APIConfig       `yaml:"api,omitempty"`
	UI      UIConfig        `yaml:"ui,omitempty"`
	Offline OfflineConfig   `yaml:"offline,omitempty"`
	Sources []search.Source `yaml:"sources,omitempty"` // replaces the built-in source catalog
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: DefaultAPIURL,
		},
		UI: UIConfig{
			DefaultView: "overview",
			TopN:        "5",
		},
	}
}

// Catalog returns the configured source catalog, or the built-in one.
func (c Config) Catalog() []search.Source {
	if len(c.Sources) > 0 {
		return c.Sources
	}
	return search.DefaultCatalog()
}

// ConfigDir returns the XDG config directory for trendscope.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "trendscope")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "trendscope")
}

// StateDir returns the XDG state directory for trendscope.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "trendscope")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "trendscope")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory and applies
// environment overrides. Returns defaults if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadFrom(path); err != nil {
			return cfg, err
		}
	}
	// .env is optional.
	_ = godotenv.Load()
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Offline.DataDir = expandHome(cfg.Offline.DataDir)
	cfg.normalize()
	return cfg, nil
}

// ApplyEnv overlays TRENDSCOPE_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	cfg.Offline.DataDir = expandHome(cfg.Offline.DataDir)
	cfg.normalize()
	return nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultAPIURL
	}
	c.UI.DefaultView = strings.ToLower(strings.TrimSpace(c.UI.DefaultView))
	if c.UI.DefaultView == "" {
		c.UI.DefaultView = "overview"
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
