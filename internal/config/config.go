// ABOUTME: Configuration management backed by a YAML file in the XDG config directory
// ABOUTME: Ships embedded defaults written on first run; exposes tunables with safe fallbacks

package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/hagda/hagda/internal/storage"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// ProviderDefaults holds fallbacks used when a source omits its locator.
type ProviderDefaults struct {
	Community string `yaml:"community,omitempty"` // reddit community fallback
	Server    string `yaml:"server,omitempty"`    // mastodon instance fallback
}

// TrendingConfig tunes the trending engine.
type TrendingConfig struct {
	TTL       string `yaml:"ttl,omitempty"` // Go duration, e.g. "15m"
	Limit     int    `yaml:"limit,omitempty"`
	PerSource int    `yaml:"per_source,omitempty"`
}

// BriefConfig tunes the daily brief.
type BriefConfig struct {
	Size   int    `yaml:"size,omitempty"`
	Window string `yaml:"window,omitempty"` // lookback, e.g. "24h"
}

// APIConfig configures the HTTP server started by `hagda serve`.
type APIConfig struct {
	Addr string `yaml:"addr,omitempty"`
	Key  string `yaml:"key,omitempty"` // empty disables auth; HAGDA_API_KEY overrides
}

// Config stores hagda configuration.
type Config struct {
	// DataDir is the root directory for data storage (hagda.db lives here).
	// Supports ~ expansion. Defaults to the XDG data directory.
	DataDir string `yaml:"data_dir,omitempty"`

	// HTTPTimeout bounds every provider request, as a Go duration string.
	HTTPTimeout string `yaml:"http_timeout,omitempty"`

	Defaults ProviderDefaults `yaml:"defaults"`
	Trending TrendingConfig   `yaml:"trending"`
	Brief    BriefConfig      `yaml:"brief"`
	API      APIConfig        `yaml:"api"`
}

// DefaultConfigPath returns the config file path.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "hagda", "config.yaml")
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return filepath.Join(xdg.DataHome, "hagda")
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the SQLite database path inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "hagda.db")
}

// GetHTTPTimeout parses the configured timeout, falling back to the default.
func (c *Config) GetHTTPTimeout() time.Duration {
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil || d <= 0 {
		return DefaultHTTPTimeout
	}
	return d
}

// TrendingTTL returns the cache freshness window, default 15 minutes.
func (c *Config) TrendingTTL() time.Duration {
	d, err := time.ParseDuration(c.Trending.TTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// TrendingLimit returns the ranked result cap, default 20.
func (c *Config) TrendingLimit() int {
	if c.Trending.Limit <= 0 {
		return 20
	}
	return c.Trending.Limit
}

// TrendingPerSource returns how many items each source contributes, default 10.
func (c *Config) TrendingPerSource() int {
	if c.Trending.PerSource <= 0 {
		return 10
	}
	return c.Trending.PerSource
}

// BriefSize returns the number of stories in a daily brief, default 10.
func (c *Config) BriefSize() int {
	if c.Brief.Size <= 0 {
		return 10
	}
	return c.Brief.Size
}

// BriefWindow returns the brief's lookback window, default 24 hours.
func (c *Config) BriefWindow() time.Duration {
	d, err := time.ParseDuration(c.Brief.Window)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// Community returns the fallback reddit community for sources without a handle.
func (c *Config) Community() string {
	if c.Defaults.Community == "" {
		return "programming"
	}
	return c.Defaults.Community
}

// Server returns the fallback mastodon instance for sources without one.
func (c *Config) Server() string {
	if c.Defaults.Server == "" {
		return "mastodon.social"
	}
	return c.Defaults.Server
}

// APIAddr returns the listen address for `hagda serve`.
func (c *Config) APIAddr() string {
	if c.API.Addr == "" {
		return ":8371"
	}
	return c.API.Addr
}

// APIKey returns the API key, with the environment taking precedence.
func (c *Config) APIKey() string {
	if key := os.Getenv("HAGDA_API_KEY"); key != "" {
		return key
	}
	return c.API.Key
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite store in the configured data directory.
func (c *Config) OpenStorage() (storage.Store, error) {
	return storage.NewSQLiteStore(c.DBPath())
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads config from path, or the default location when path is empty.
// On first run the embedded defaults are written out and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			defaults, derr := loadDefaults()
			if derr != nil {
				return nil, derr
			}
			if werr := writeDefaults(path); werr != nil {
				// Non-fatal: just use embedded defaults
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", werr)
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveTo writes the config as YAML to the given path.
func (c *Config) SaveTo(path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPerms); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Save writes the config to the default location.
func (c *Config) Save() error {
	return c.SaveTo("")
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPerms); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.HTTPTimeout != "" {
		if _, err := time.ParseDuration(cfg.HTTPTimeout); err != nil {
			return fmt.Errorf("http_timeout: %w", err)
		}
	}
	if cfg.Trending.TTL != "" {
		if _, err := time.ParseDuration(cfg.Trending.TTL); err != nil {
			return fmt.Errorf("trending.ttl: %w", err)
		}
	}
	if cfg.Brief.Window != "" {
		if _, err := time.ParseDuration(cfg.Brief.Window); err != nil {
			return fmt.Errorf("brief.window: %w", err)
		}
	}
	if cfg.Trending.Limit < 0 || cfg.Trending.PerSource < 0 || cfg.Brief.Size < 0 {
		return fmt.Errorf("trending and brief sizes must not be negative")
	}
	return nil
}
