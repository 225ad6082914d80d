// Package config provides configuration loading and management for typeterms.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/typeterms/typeterms/lint"
)

// Config represents the complete typeterms configuration
type Config struct {
	Glossary GlossaryConfig   `yaml:"glossary"`
	Lint     LintConfig       `yaml:"lint"`
	Watch    lint.WatchConfig `yaml:"watch"`
	Importer ImporterConfig   `yaml:"importer"`
	NATS     NATSConfig       `yaml:"nats"`
	Server   ServerConfig     `yaml:"server"`
}

// GlossaryConfig configures the entry sources and the rendered document
type GlossaryConfig struct {
	// Sources are glob patterns for entry YAML files
	Sources []string `yaml:"sources"`
	// Output is the rendered glossary document path
	Output string `yaml:"output"`
}

// LintConfig configures the lint run
type LintConfig struct {
	// Documents are glob patterns for markdown files to check
	Documents []string `yaml:"documents"`
	// Rules restricts the run to the named rules (empty = all)
	Rules []string `yaml:"rules"`
	// Format is the report output format: "text" or "json"
	Format string `yaml:"format"`
}

// ImporterConfig configures drafting entries from web pages
type ImporterConfig struct {
	// DraftsDir is where imported drafts are written
	DraftsDir string `yaml:"drafts_dir"`
	// Timeout is the maximum time to wait for a page fetch
	Timeout time.Duration `yaml:"timeout"`
}

// NATSConfig configures the NATS connection for entry and report storage
type NATSConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url"`
	// Enabled indicates whether lint reports and entries are persisted
	Enabled bool `yaml:"enabled"`
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	// Addr is the listen address (host:port)
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Glossary: GlossaryConfig{
			Sources: []string{"terms/*.yaml"},
			Output:  "GLOSSARY.md",
		},
		Lint: LintConfig{
			Documents: []string{"GLOSSARY.md"},
			Rules:     nil, // All rules
			Format:    "text",
		},
		Watch: lint.DefaultWatchConfig(),
		Importer: ImporterConfig{
			DraftsDir: "terms/drafts",
			Timeout:   30 * time.Second,
		},
		NATS: NATSConfig{
			URL:     "nats://localhost:4222",
			Enabled: false,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if len(c.Glossary.Sources) == 0 {
		return fmt.Errorf("glossary.sources is required")
	}
	if c.Glossary.Output == "" {
		return fmt.Errorf("glossary.output is required")
	}
	if c.Lint.Format != "text" && c.Lint.Format != "json" {
		return fmt.Errorf("lint.format must be %q or %q", "text", "json")
	}
	for _, rule := range c.Lint.Rules {
		if !slices.Contains(lint.AllRules, rule) {
			return fmt.Errorf("lint.rules: unknown rule %q", rule)
		}
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required when nats.enabled is set")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Glossary
	if len(other.Glossary.Sources) > 0 {
		c.Glossary.Sources = other.Glossary.Sources
	}
	if other.Glossary.Output != "" {
		c.Glossary.Output = other.Glossary.Output
	}

	// Lint
	if len(other.Lint.Documents) > 0 {
		c.Lint.Documents = other.Lint.Documents
	}
	if len(other.Lint.Rules) > 0 {
		c.Lint.Rules = other.Lint.Rules
	}
	if other.Lint.Format != "" {
		c.Lint.Format = other.Lint.Format
	}

	// Watch
	if other.Watch.DebounceDelay != "" {
		c.Watch.DebounceDelay = other.Watch.DebounceDelay
	}
	if len(other.Watch.FileExtensions) > 0 {
		c.Watch.FileExtensions = other.Watch.FileExtensions
	}
	if len(other.Watch.ExcludeDirs) > 0 {
		c.Watch.ExcludeDirs = other.Watch.ExcludeDirs
	}

	// Importer
	if other.Importer.DraftsDir != "" {
		c.Importer.DraftsDir = other.Importer.DraftsDir
	}
	if other.Importer.Timeout != 0 {
		c.Importer.Timeout = other.Importer.Timeout
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Enabled {
		c.NATS.Enabled = true
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
}
