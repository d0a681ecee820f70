// Package config loads graphrel settings from defaults, a yaml file,
// GRAPHREL_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/meikuraledutech/graphrel/connect"
)

// EnvPrefix is the prefix of environment overrides, e.g. GRAPHREL_HOST.
const EnvPrefix = "GRAPHREL_"

// DefaultConfigFile is looked up in the working directory when no file is given.
const DefaultConfigFile = "graphrel.yaml"

// Defaults.
const (
	DefaultHost                = "http://localhost:3000"
	DefaultListen              = ":3000"
	DefaultErrorMessageTimeout = 3 * time.Second
	DefaultRequestTimeout      = 30 * time.Second
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "console"
)

// Config holds every setting of the CLI and the server.
type Config struct {
	// Host is the graph store base URL used by the connect command.
	Host                string        `koanf:"host"`
	ErrorMessageTimeout time.Duration `koanf:"error_message_timeout"`
	RequestTimeout      time.Duration `koanf:"request_timeout"`

	// Listen is the address the store server binds.
	Listen string `koanf:"listen"`
	// DatabaseURL selects the postgres store; empty means in-memory.
	DatabaseURL string `koanf:"database_url"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

// Connect returns the control configuration.
func (c *Config) Connect() connect.Config {
	return connect.Config{
		Host:                c.Host,
		ErrorMessageTimeout: c.ErrorMessageTimeout,
		RequestTimeout:      c.RequestTimeout,
	}
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	if err := c.Connect().Validate(); err != nil {
		return err
	}
	if c.Listen == "" {
		return errors.New("config: listen address is required")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q (want console or json)", c.LogFormat)
	}
	return nil
}

// Load reads configuration. Precedence (highest to lowest):
// explicitly set flags > env vars > config file > defaults.
// cfgFile may be empty, in which case ./graphrel.yaml is used if present.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"host":                  DefaultHost,
		"listen":                DefaultListen,
		"error_message_timeout": DefaultErrorMessageTimeout.String(),
		"request_timeout":       DefaultRequestTimeout.String(),
		"database_url":          "",
		"log_level":             DefaultLogLevel,
		"log_format":            DefaultLogFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// GRAPHREL_ERROR_MESSAGE_TIMEOUT -> error_message_timeout
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
