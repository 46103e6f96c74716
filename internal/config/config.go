// Package config resolves runtime options for teachtimer from the config
// file, TEACHTIMER_* environment variables and command flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"teachtimer/internal/core/timekeeper"
	"teachtimer/internal/storage"

	"github.com/spf13/viper"
)

// AppName names the config and state directories.
const AppName = "teachtimer"

// Keys understood in config.yaml.
const (
	KeyTickInterval = "tick_interval"
	KeyStoreDriver  = "store.driver"
	KeyStorePath    = "store.path"
	KeyLogLevel     = "log.level"
	KeyAdjustStep   = "adjust_step"
)

const (
	minTickInterval = 50 * time.Millisecond
	maxTickInterval = time.Second
)

// Config holds the resolved runtime options.
type Config struct {
	TickInterval time.Duration
	StoreDriver  string
	StorePath    string
	LogLevel     slog.Level
	// AdjustStep is the quick adjust amount in seconds.
	AdjustStep int
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyTickInterval, timekeeper.DefaultTickInterval)
	v.SetDefault(KeyStoreDriver, storage.DriverYAML)
	v.SetDefault(KeyStorePath, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyAdjustStep, 60)
}

// Init reads cfgFile, or config.yaml from the standard locations, into v.
// A missing config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, AppName))
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get user home directory: %w", err)
			}
			v.AddConfigPath(filepath.Join(home, ".config", AppName))
		}
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TEACHTIMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// Load resolves Config from v. Out-of-range values are clamped; unknown
// drivers and log levels are errors.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		TickInterval: timekeeper.Clamp(v.GetDuration(KeyTickInterval), minTickInterval, maxTickInterval),
		StoreDriver:  strings.ToLower(strings.TrimSpace(v.GetString(KeyStoreDriver))),
		StorePath:    v.GetString(KeyStorePath),
		AdjustStep:   v.GetInt(KeyAdjustStep),
	}

	switch cfg.StoreDriver {
	case storage.DriverYAML, storage.DriverSQLite:
	default:
		return Config{}, fmt.Errorf("%s: %w: %q", KeyStoreDriver, storage.ErrUnknownDriver, cfg.StoreDriver)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}

	if cfg.AdjustStep <= 0 {
		cfg.AdjustStep = 60
	}
	cfg.AdjustStep = timekeeper.Clamp(cfg.AdjustStep, 1, 30*60)

	if cfg.StorePath == "" {
		path, err := storage.DefaultPath(AppName, cfg.StoreDriver)
		if err != nil {
			return Config{}, err
		}
		cfg.StorePath = path
	}
	return cfg, nil
}
