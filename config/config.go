// Package config loads settings for the flow binaries.
//
// Sources are layered, later ones winning: built-in defaults, an optional
// YAML file, FLOW_* environment variables, then command-line flags.
// Nested keys use "." in YAML and flags and "__" in the environment, e.g.
// FLOW_SLOT__BACKEND=redis.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultFile is read when no explicit path is given and it exists.
const DefaultFile = "flow.yaml"

// Slot backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds every setting.
type Config struct {
	Addr     string         `koanf:"addr"`
	LogLevel string         `koanf:"log_level"`
	Slot     SlotConfig     `koanf:"slot"`
	Postgres PostgresConfig `koanf:"postgres"`
	Redis    RedisConfig    `koanf:"redis"`
}

// SlotConfig selects the save slot backend.
type SlotConfig struct {
	Backend string `koanf:"backend"`
	Key     string `koanf:"key"`
}

// PostgresConfig holds the postgres backend settings.
type PostgresConfig struct {
	URL string `koanf:"url"`
}

// RedisConfig holds the redis backend settings.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

var defaults = map[string]any{
	"addr":           ":3000",
	"log_level":      "info",
	"slot.backend":   BackendMemory,
	"slot.key":       "react-flow-data",
	"postgres.url":   "",
	"redis.addr":     "localhost:6379",
	"redis.password": "",
	"redis.db":       0,
	"redis.prefix":   "flow:",
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"addr":         "addr",
	"log-level":    "log_level",
	"slot-backend": "slot.backend",
	"slot-key":     "slot.key",
	"postgres-url": "postgres.url",
	"redis-addr":   "redis.addr",
}

// RegisterFlags adds the command-line flags Load understands.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to config file (default "+DefaultFile+" if present)")
	fs.String("addr", ":3000", "listen address")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("slot-backend", BackendMemory, "save slot backend (memory, postgres, redis)")
	fs.String("slot-key", "react-flow-data", "save slot key")
	fs.String("postgres-url", "", "postgres connection URL")
	fs.String("redis-addr", "localhost:6379", "redis address")
}

// Load builds a Config. flags may be nil; only flags the user changed
// override the other sources.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}

	if path := findConfigFile(flags); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("FLOW_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "FLOW_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only flags the user set override the other sources.
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns the --config flag if set, else DefaultFile if it
// exists, else "".
func findConfigFile(flags *pflag.FlagSet) string {
	if flags != nil {
		if p, err := flags.GetString("config"); err == nil && p != "" {
			return p
		}
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// Validate checks backend selection and its connection settings.
func (c *Config) Validate() error {
	switch c.Slot.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("config: postgres.url is required for the postgres backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("config: unknown slot backend %q (want memory, postgres or redis)", c.Slot.Backend)
	}
	if c.Slot.Key == "" {
		return fmt.Errorf("config: slot.key must not be empty")
	}
	return nil
}
