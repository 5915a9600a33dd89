// Package config holds the run configuration: defaults, an optional YAML
// file, and REPOPDF_* environment overrides, merged once at startup into an
// immutable struct passed through the pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

// Config is the full run configuration.
type Config struct {
	Document DocumentConfig `yaml:"document"`
	Clean    CleanConfig    `yaml:"clean"`
	Images   ImagesConfig   `yaml:"images"`
	Render   RenderConfig   `yaml:"render"`
	Fetch    FetchConfig    `yaml:"fetch"`
}

// DocumentConfig carries document metadata.
type DocumentConfig struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	Date   string `yaml:"date"` // "auto" resolves to today
}

// CleanConfig controls content normalization.
type CleanConfig struct {
	KeepBadges  bool     `yaml:"keepBadges"`
	KeepSymbols bool     `yaml:"keepSymbols"`
	BadgeHosts  []string `yaml:"badgeHosts"` // extends the built-in allow-list
}

// ImagesConfig controls image resolution.
type ImagesConfig struct {
	Disabled bool `yaml:"disabled"` // force caption-or-drop for every image
}

// RenderConfig controls the rendering backend.
type RenderConfig struct {
	Theme  string `yaml:"theme"`  // syntax-highlight theme name
	Engine string `yaml:"engine"` // force a specific backend (empty = auto)
	CSS    string `yaml:"css"`    // extra style injected into the HTML head
}

// FetchConfig controls network retrieval.
type FetchConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{Theme: "github"},
		Fetch:  FetchConfig{TimeoutSeconds: 20},
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// FetchTimeout returns the configured fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	if c.Fetch.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// ResolveDate expands the "auto" date to today in ISO form; any other value
// passes through unchanged.
func ResolveDate(date string, now func() time.Time) string {
	if date == "auto" {
		return now().Format("2006-01-02")
	}
	return date
}
