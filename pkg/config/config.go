package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jpfielding/stego.go/pkg/stego"
)

// EnvPrefix is prepended to environment overrides, e.g. STEGO_CHANNELS
const EnvPrefix = "STEGO"

// Config is the resolved configuration of a stegoctl invocation
type Config struct {
	Channels int       `mapstructure:"channels"`
	Truncate bool      `mapstructure:"truncate"`
	Workers  int       `mapstructure:"workers"`
	Log      LogConfig `mapstructure:"log"`
}

// LogConfig controls the slog output and the optional rotated log file
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // text|json
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max-size-mb"`
	MaxBackups int    `mapstructure:"max-backups"`
	MaxAgeDays int    `mapstructure:"max-age-days"`
}

// Default returns the built in configuration
func Default() *Config {
	return &Config{
		Channels: stego.DefaultChannels,
		Workers:  runtime.NumCPU(),
		Log: LogConfig{
			Level:      "INFO",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Options converts the codec related settings
func (c *Config) Options() *stego.Options {
	return &stego.Options{
		Channels: c.Channels,
		Truncate: c.Truncate,
		Workers:  c.Workers,
	}
}

// Validate checks ranges that do not depend on an image
func (c *Config) Validate() error {
	var errs []error
	if c.Channels < 1 || c.Channels > 4 {
		errs = append(errs, fmt.Errorf("config: channels must be 1-4, got %d", c.Channels))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("config: workers must not be negative, got %d", c.Workers))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: log format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("channels", c.Channels)
	v.SetDefault("truncate", c.Truncate)
	v.SetDefault("workers", c.Workers)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
	v.SetDefault("log.file", c.Log.File)
	v.SetDefault("log.max-size-mb", c.Log.MaxSizeMB)
	v.SetDefault("log.max-backups", c.Log.MaxBackups)
	v.SetDefault("log.max-age-days", c.Log.MaxAgeDays)
}

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"channels":   "channels",
	"truncate":   "truncate",
	"workers":    "workers",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
}

// Load resolves defaults < config file < STEGO_* environment < flags that were set.
// An empty file skips the config file. Unknown flags are ignored.
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
