// Package config loads engine configuration from defaults, an optional YAML
// file, LANETTE_ environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/DatSpookTho/Lanette/internal/rules"
)

// EnvPrefix prefixes every environment variable, e.g. LANETTE_DATA_DIR.
const EnvPrefix = "LANETTE"

// Config is the engine configuration.
type Config struct {
	// DataDir is the root of the data tree.
	DataDir string `mapstructure:"data_dir"`

	// CurrentGen is the newest supported generation.
	CurrentGen int `mapstructure:"current_gen"`

	// MaxRuleDepth bounds nested ruleset expansion.
	MaxRuleDepth int `mapstructure:"max_rule_depth"`

	// DefaultMod is the mod entity lookups use when none is given.
	DefaultMod string `mapstructure:"default_mod"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		DataDir:      "data",
		CurrentGen:   7,
		MaxRuleDepth: rules.DefaultMaxDepth,
		DefaultMod:   "gen7",
		LogLevel:     "info",
	}
}

// LoadOptions control where configuration is read from.
type LoadOptions struct {
	// ConfigFile is an optional YAML file. Empty skips the file.
	ConfigFile string

	// Flags are bound by key name with dashes, e.g. --data-dir.
	Flags *pflag.FlagSet
}

// Load reads configuration. Later sources win: defaults, file, environment,
// flags that were set explicitly.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("current_gen", defaults.CurrentGen)
	v.SetDefault("max_rule_depth", defaults.MaxRuleDepth)
	v.SetDefault("default_mod", defaults.DefaultMod)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	}

	if opts.Flags != nil {
		for _, key := range []string{"data_dir", "current_gen", "max_rule_depth", "default_mod", "log_level"} {
			if f := opts.Flags.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.CurrentGen < 1 || c.CurrentGen > 7 {
		errs = append(errs, fmt.Errorf("current_gen must be between 1 and 7, got %d", c.CurrentGen))
	}
	if c.MaxRuleDepth < 1 {
		errs = append(errs, fmt.Errorf("max_rule_depth must be at least 1, got %d", c.MaxRuleDepth))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel))
	}
	return errors.Join(errs...)
}
