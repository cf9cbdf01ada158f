package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/loykin/procguard/internal/logger"
	"github.com/loykin/procguard/internal/process"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: terminate.timeout is read from
// PROCGUARD_TERMINATE_TIMEOUT.
const EnvPrefix = "PROCGUARD"

// Config is the procguard configuration after defaults, file and environment
// have been merged.
type Config struct {
	Terminate TerminateConfig `mapstructure:"terminate"`
	Wait      WaitConfig      `mapstructure:"wait"`
	Lock      LockConfig      `mapstructure:"lock"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type TerminateConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Force        bool          `mapstructure:"force"`
}

type WaitConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type LockConfig struct {
	Exclusive bool `mapstructure:"exclusive"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type MetricsConfig struct {
	// Addr, when set, is where `procguard run` serves /metrics.
	Addr string `mapstructure:"addr"`
}

// SetDefaults registers every key so environment overrides apply to it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("terminate.timeout", process.DefaultTimeout)
	v.SetDefault("terminate.poll_interval", process.DefaultPollInterval)
	v.SetDefault("terminate.force", false)
	v.SetDefault("wait.poll_interval", process.DefaultWaitInterval)
	v.SetDefault("lock.exclusive", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logger.FormatText)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", logger.DefaultMaxSizeMB)
	v.SetDefault("log.max_backups", logger.DefaultMaxBackups)
	v.SetDefault("log.max_age_days", logger.DefaultMaxAgeDays)
	v.SetDefault("log.compress", false)
	v.SetDefault("metrics.addr", "")
}

// Load reads path (TOML, YAML or JSON by extension; TOML when there is none)
// over the defaults and applies PROCGUARD_* environment overrides. An empty
// path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("toml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values no component can act on.
func (c *Config) Validate() error {
	var errs []error
	for name, d := range map[string]time.Duration{
		"terminate.timeout":       c.Terminate.Timeout,
		"terminate.poll_interval": c.Terminate.PollInterval,
		"wait.poll_interval":      c.Wait.PollInterval,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", name, d))
		}
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "", logger.FormatText, logger.FormatJSON, logger.FormatColor, logger.FormatAuto:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Policy returns the configured termination policy.
func (c *Config) Policy() process.TerminationPolicy {
	return process.TerminationPolicy{
		Force:        c.Terminate.Force,
		Timeout:      c.Terminate.Timeout,
		PollInterval: c.Terminate.PollInterval,
	}
}

// Logger returns the logger configuration.
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		File: logger.FileConfig{
			Path:       c.Log.File,
			MaxSizeMB:  c.Log.MaxSizeMB,
			MaxBackups: c.Log.MaxBackups,
			MaxAgeDays: c.Log.MaxAgeDays,
			Compress:   c.Log.Compress,
		},
	}
}
