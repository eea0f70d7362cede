// Package config provides configuration loading and management for lode.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Output formats, languages, themes and serializations accepted by Validate.
var (
	Formats        = []string{"html", "markdown"}
	Languages      = []string{"en", "fr", "it", "de"}
	Themes         = []string{"classic", "modern"}
	Serializations = []string{"ttl", "nt", "jsonld", "rdf"}
)

// Config represents the complete lode configuration
type Config struct {
	Fetch   FetchConfig   `yaml:"fetch"`
	Process ProcessConfig `yaml:"process"`
	Render  RenderConfig  `yaml:"render"`
	Server  ServerConfig  `yaml:"server"`
	Batch   BatchConfig   `yaml:"batch"`
}

// FetchConfig configures how ontology documents are retrieved
type FetchConfig struct {
	// Timeout bounds a single HTTP request
	Timeout time.Duration `yaml:"timeout"`
	// MaxRetries is the number of retries on 429/5xx and transport errors
	MaxRetries int `yaml:"max_retries"`
	// UserAgent is sent with every request
	UserAgent string `yaml:"user_agent"`
	// MaxContentSize caps the response body in bytes
	MaxContentSize int64 `yaml:"max_content_size"`
	// CacheSize is the number of fetched documents kept in memory (0 disables)
	CacheSize int `yaml:"cache_size"`
	// BlockPrivate rejects loopback and private network addresses
	BlockPrivate bool `yaml:"block_private"`
}

// ProcessConfig configures graph processing
type ProcessConfig struct {
	Reasoning bool `yaml:"reasoning"`
	Imports   bool `yaml:"imports"`
	Closure   bool `yaml:"closure"`
	// MaxImportDepth limits how many levels of owl:imports the closure follows
	MaxImportDepth int `yaml:"max_import_depth"`
	// MaxDerivedFacts aborts reasoning once the engine derives this many facts
	MaxDerivedFacts int `yaml:"max_derived_facts"`
}

// RenderConfig configures documentation output
type RenderConfig struct {
	Format      string `yaml:"format"`
	Lang        string `yaml:"lang"`
	Theme       string `yaml:"theme"`
	CSSLocation string `yaml:"css_location"`
	// Serializations lists graph serializations written in directory mode
	Serializations []string `yaml:"serializations"`
}

// ServerConfig configures serve mode
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	CacheSize    int           `yaml:"cache_size"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// RequestTimeout bounds fetching and rendering one page.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// BatchConfig configures batch mode
type BatchConfig struct {
	OutDir  string `yaml:"out_dir"`
	Workers int    `yaml:"workers"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			Timeout:        30 * time.Second,
			MaxRetries:     3,
			UserAgent:      "LODE Go extractor",
			MaxContentSize: 50 * 1024 * 1024,
			CacheSize:      64,
		},
		Process: ProcessConfig{
			MaxImportDepth:  10,
			MaxDerivedFacts: 500000,
		},
		Render: RenderConfig{
			Format: "html",
			Lang:   "en",
			Theme:  "classic",
		},
		Server: ServerConfig{
			Addr:           ":8000",
			CacheSize:      128,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   2 * time.Minute,
			RequestTimeout: 90 * time.Second,
		},
		Batch: BatchConfig{
			OutDir:  "docs",
			Workers: 4,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must not be negative")
	}
	if c.Fetch.MaxContentSize <= 0 {
		return fmt.Errorf("fetch.max_content_size must be positive")
	}
	if c.Process.MaxImportDepth < 1 {
		return fmt.Errorf("process.max_import_depth must be at least 1")
	}
	if c.Process.MaxDerivedFacts < 1 {
		return fmt.Errorf("process.max_derived_facts must be at least 1")
	}
	if !slices.Contains(Formats, c.Render.Format) {
		return fmt.Errorf("render.format must be one of %v, got %q", Formats, c.Render.Format)
	}
	if !slices.Contains(Languages, c.Render.Lang) {
		return fmt.Errorf("render.lang must be one of %v, got %q", Languages, c.Render.Lang)
	}
	if !slices.Contains(Themes, c.Render.Theme) {
		return fmt.Errorf("render.theme must be one of %v, got %q", Themes, c.Render.Theme)
	}
	for _, s := range c.Render.Serializations {
		if !slices.Contains(Serializations, s) {
			return fmt.Errorf("render.serializations: unknown serialization %q", s)
		}
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.ApplyFile(path); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyFile decodes the YAML file at path over c. Only keys present in the
// file change c, so an explicit false or zero overrides a lower layer. On
// error c is left unchanged.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	next := *c
	next.Render.Serializations = slices.Clone(c.Render.Serializations)
	if err := yaml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	*c = next
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
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
