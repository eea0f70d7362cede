package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "lode.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/lode"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
	// EnvFile is the dotenv file loaded from the working directory
	EnvFile = ".env"
	// EnvPrefix prefixes every environment override
	EnvPrefix = "LODE_"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger

	homeDir   string
	workDir   string
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	home, _ := os.UserHomeDir()
	cwd, _ := os.Getwd()
	return &Loader{
		logger:    logger,
		homeDir:   home,
		workDir:   cwd,
		lookupEnv: os.LookupEnv,
	}
}

// Load loads configuration with layered precedence. Each file layer is
// decoded over the layers below it, so it overrides exactly the keys it sets:
// 1. Default config
// 2. User config (~/.config/lode/config.yaml)
// 3. Project config (lode.yaml in current or parent directories)
// 4. Environment (.env, then LODE_* variables)
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	if path := l.userConfigPath(); path != "" {
		if err := config.ApplyFile(path); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", path))
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", path), slog.String("error", err.Error()))
		}
	}

	if path := l.findProjectConfig(); path != "" {
		if err := config.ApplyFile(path); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", path))
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", path), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	l.loadDotEnv()
	if err := ApplyEnv(config, l.lookupEnv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFile loads a single explicit config file on top of the defaults and
// applies environment overrides.
func (l *Loader) LoadFile(path string) (*Config, error) {
	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	l.loadDotEnv()
	if err := ApplyEnv(config, l.lookupEnv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() error {
	userConfigPath := l.userConfigPath()
	if userConfigPath == "" {
		return fmt.Errorf("cannot determine home directory")
	}

	if _, err := os.Stat(userConfigPath); err == nil {
		return nil
	}

	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return nil
}

// loadDotEnv populates the process environment from .env without
// overriding variables that are already set.
func (l *Loader) loadDotEnv() {
	if l.workDir == "" {
		return
	}
	path := filepath.Join(l.workDir, EnvFile)
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		l.logger.Warn("Failed to load env file", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	l.logger.Debug("Loaded env file", slog.String("path", path))
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	if l.homeDir == "" {
		return ""
	}
	return filepath.Join(l.homeDir, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for lode.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	if l.workDir == "" {
		return ""
	}

	dir := l.workDir
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// ApplyEnv overrides config fields from LODE_* variables found by lookup.
func ApplyEnv(c *Config, lookup func(string) (string, bool)) error {
	env := envReader{lookup: lookup}

	env.setDuration("FETCH_TIMEOUT", &c.Fetch.Timeout)
	env.setInt("FETCH_MAX_RETRIES", &c.Fetch.MaxRetries)
	env.setString("FETCH_USER_AGENT", &c.Fetch.UserAgent)
	env.setInt("FETCH_CACHE_SIZE", &c.Fetch.CacheSize)
	env.setBool("FETCH_BLOCK_PRIVATE", &c.Fetch.BlockPrivate)

	env.setBool("PROCESS_REASONING", &c.Process.Reasoning)
	env.setBool("PROCESS_IMPORTS", &c.Process.Imports)
	env.setBool("PROCESS_CLOSURE", &c.Process.Closure)
	env.setInt("PROCESS_MAX_IMPORT_DEPTH", &c.Process.MaxImportDepth)
	env.setInt("PROCESS_MAX_DERIVED_FACTS", &c.Process.MaxDerivedFacts)

	env.setString("RENDER_FORMAT", &c.Render.Format)
	env.setString("RENDER_LANG", &c.Render.Lang)
	env.setString("RENDER_THEME", &c.Render.Theme)
	env.setString("RENDER_CSS_LOCATION", &c.Render.CSSLocation)
	env.setList("RENDER_SERIALIZATIONS", &c.Render.Serializations)

	env.setString("SERVER_ADDR", &c.Server.Addr)
	env.setInt("SERVER_CACHE_SIZE", &c.Server.CacheSize)
	env.setDuration("SERVER_REQUEST_TIMEOUT", &c.Server.RequestTimeout)

	env.setString("BATCH_OUT_DIR", &c.Batch.OutDir)
	env.setInt("BATCH_WORKERS", &c.Batch.Workers)

	return errors.Join(env.errs...)
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (e *envReader) fail(key string, err error) {
	e.errs = append(e.errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
}

func (e *envReader) setString(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) setList(key string, dst *[]string) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}

func (e *envReader) setInt(key string, dst *int) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, err)
		return
	}
	*dst = n
}

func (e *envReader) setBool(key string, dst *bool) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, err)
		return
	}
	*dst = b
}

func (e *envReader) setDuration(key string, dst *time.Duration) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, err)
		return
	}
	*dst = d
}
