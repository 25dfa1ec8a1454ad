// Package config loads todolist settings.
//
// Sources, lowest to highest priority:
//  1. Defaults
//  2. Config file (<config dir>/config.toml)
//  3. Environment variables (TODOLIST_*)
//  4. CLI flags (applied by the caller)
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	fileName = "config.toml"

	EnvConfigDir = "TODOLIST_CONFIG_DIR"
	EnvDir       = "TODOLIST_DIR"
	EnvBackend   = "TODOLIST_BACKEND"
	EnvFormat    = "TODOLIST_FORMAT"
	EnvLogLevel  = "TODOLIST_LOG_LEVEL"
	EnvLogFile   = "TODOLIST_LOG_FILE"
	EnvNoticeTTL = "TODOLIST_NOTICE_TTL"
)

type Config struct {
	// Dir is the data directory holding the persisted task list.
	Dir string `toml:"dir"`
	// Backend is sqlite, file, memory, or empty for autodetect.
	Backend string `toml:"backend"`
	// Format is the CLI output format: json, edn or text.
	Format   string `toml:"format"`
	LogLevel string `toml:"log_level"`
	// LogFile receives TUI logs; the CLI logs to stderr.
	LogFile   string   `toml:"log_file"`
	NoticeTTL Duration `toml:"notice_ttl"`
}

// Duration reads "2s"-style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Dir returns the config directory. TODOLIST_CONFIG_DIR overrides ~/.todolist
// (keeps tests away from the real home dir).
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvConfigDir)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".todolist"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func Defaults() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return &Config{
		Dir:       filepath.Join(dir, "data"),
		Backend:   "",
		Format:    "json",
		LogLevel:  "warn",
		NoticeTTL: Duration{2000 * time.Millisecond},
	}, nil
}

func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	cfg.Dir = expandHome(cfg.Dir)
	cfg.LogFile = expandHome(cfg.LogFile)
	return cfg, nil
}

// LoadFile returns defaults overlaid with the config file only. It is what
// `config set` edits, so env values never leak into the file.
func LoadFile() (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}
	path, err := Path()
	if err != nil {
		return nil, err
	}
	if err := loadFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", path, err)
	}
	return cfg, nil
}

// Keys lists the settable config keys, in file order.
var Keys = []string{"dir", "backend", "format", "log_level", "log_file", "notice_ttl"}

// Set assigns one key by its TOML name.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "dir":
		c.Dir = value
	case "backend":
		c.Backend = strings.ToLower(value)
	case "format":
		c.Format = strings.ToLower(value)
	case "log_level":
		c.LogLevel = strings.ToLower(value)
	case "log_file":
		c.LogFile = value
	case "notice_ttl":
		return c.NoticeTTL.UnmarshalText([]byte(value))
	default:
		return fmt.Errorf("unknown config key: %s (want one of %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func loadFromEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvDir)); v != "" {
		cfg.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackend)); v != "" {
		cfg.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFormat)); v != "" {
		cfg.Format = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvNoticeTTL)); v != "" {
		if err := cfg.NoticeTTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvNoticeTTL, err)
		}
	}
	return nil
}

// Save writes cfg to the config file, replacing it atomically.
func Save(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := Path()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
}

// Example is written by `todolist config init`.
func Example() string {
	return `# todolist configuration
# Values can be overridden by TODOLIST_* environment variables or CLI flags.

# Data directory (supports ~ expansion)
# dir = "~/.todolist/data"

# Storage backend: sqlite, file, memory (empty = autodetect, new stores use sqlite)
# backend = "sqlite"

# CLI output format: json, edn, text
format = "json"

# Log level: debug, info, warn, error
log_level = "warn"

# TUI log file (the TUI never logs to the terminal)
# log_file = "~/.todolist/tui.log"

# How long the completion notice stays visible
notice_ttl = "2s"
`
}
