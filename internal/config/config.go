// Package config loads settings for the hguid command and HTTP service.
// Values come from built-in defaults, then an optional YAML file, then
// HGUID_* environment variables; command-line flags are applied last by
// the caller.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Output OutputConfig `yaml:"output"`
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// OutputConfig controls how the CLI prints GUIDs.
type OutputConfig struct {
	Format string `yaml:"format"` // plain, braced or upper
	Count  int    `yaml:"count"`
}

// StoreConfig points at the optional issued-GUID registry.
type StoreConfig struct {
	Driver string `yaml:"driver"` // mysql or sqlite; empty disables the registry
	DSN    string `yaml:"dsn"`
	Tag    string `yaml:"tag"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	MaxBatch int    `yaml:"max_batch"`
}

const (
	envLogLevel     = "HGUID_LOG_LEVEL"
	envLogFormat    = "HGUID_LOG_FORMAT"
	envOutputFormat = "HGUID_OUTPUT_FORMAT"
	envStoreDriver  = "HGUID_STORE_DRIVER"
	envStoreDSN     = "HGUID_STORE_DSN"
	envStoreTag     = "HGUID_STORE_TAG"
	envServerAddr   = "HGUID_SERVER_ADDR"
	envMaxBatch     = "HGUID_SERVER_MAX_BATCH"
)

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Output: OutputConfig{Format: "plain", Count: 1},
		Store:  StoreConfig{Tag: "default"},
		Server: ServerConfig{Addr: ":8080", MaxBatch: 1000},
	}
}

// Load reads path (if not empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Log.Level = envOr(envLogLevel, c.Log.Level)
	c.Log.Format = envOr(envLogFormat, c.Log.Format)
	c.Output.Format = envOr(envOutputFormat, c.Output.Format)
	c.Store.Driver = envOr(envStoreDriver, c.Store.Driver)
	c.Store.DSN = envOr(envStoreDSN, c.Store.DSN)
	c.Store.Tag = envOr(envStoreTag, c.Store.Tag)
	c.Server.Addr = envOr(envServerAddr, c.Server.Addr)

	if v := os.Getenv(envMaxBatch); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", envMaxBatch, err)
		}
		c.Server.MaxBatch = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	switch c.Output.Format {
	case "plain", "braced", "upper":
	default:
		return fmt.Errorf("config: unknown output format %q", c.Output.Format)
	}
	switch c.Store.Driver {
	case "", "mysql", "sqlite":
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Server.MaxBatch <= 0 {
		return fmt.Errorf("config: server.max_batch must be positive, got %d", c.Server.MaxBatch)
	}
	return nil
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
