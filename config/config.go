package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/sizer/internal/logging"
	"github.com/rustyeddy/sizer/settings"
)

// Config represents the complete sizer configuration
type Config struct {
	Store  StoreConfig  `json:"store" yaml:"store"`
	Server ServerConfig `json:"server" yaml:"server"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// StoreConfig selects where the settings record is kept
type StoreConfig struct {
	Backend string `json:"backend" yaml:"backend"`             // memory, file, sqlite, redis, postgres
	DSN     string `json:"dsn,omitempty" yaml:"dsn,omitempty"` // dir, db path or URL depending on backend
	Key     string `json:"key,omitempty" yaml:"key,omitempty"` // defaults to settings.Key
}

// ServerConfig contains HTTP server parameters
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // text or json
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !slices.Contains(settings.Backends, c.Store.Backend) {
		return fmt.Errorf("store.backend must be one of %s", strings.Join(settings.Backends, ", "))
	}
	if c.Store.Backend != settings.BackendMemory && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn required for %s backend", c.Store.Backend)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("log.format must be 'text' or 'json'")
	}
	return nil
}

// StoreKey returns the key the settings record is stored under.
func (c *Config) StoreKey() string {
	if c.Store.Key == "" {
		return settings.Key
	}
	return c.Store.Key
}

// Environment variables read by ApplyEnv.
const (
	EnvStoreBackend = "SIZER_STORE_BACKEND"
	EnvStoreDSN     = "SIZER_STORE_DSN"
	EnvStoreKey     = "SIZER_STORE_KEY"
	EnvAddr         = "SIZER_ADDR"
	EnvLogLevel     = "SIZER_LOG_LEVEL"
	EnvLogFormat    = "SIZER_LOG_FORMAT"
)

// ApplyEnv loads envFiles (default ".env", missing files are fine) and then
// overrides fields from SIZER_* variables that are set.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	set := func(dst *string, name string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
	set(&c.Store.Backend, EnvStoreBackend)
	set(&c.Store.DSN, EnvStoreDSN)
	set(&c.Store.Key, EnvStoreKey)
	set(&c.Server.Addr, EnvAddr)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Log.Format, EnvLogFormat)
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: settings.BackendFile,
			DSN:     defaultSettingsDir(),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultSettingsDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "sizer")
	}
	return ".sizer"
}
