package rudder

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the rudderd server settings read from the configuration
// directory. It controls where the admin API listens and which persistence
// backend the control plane uses; the routing configuration itself is never
// stored here.
type Config struct {
	viper         *viper.Viper
	ConfigDir     string `mapstructure:"config_dir"`     // Current config dir
	ListenAddress string `mapstructure:"listen_address"` // Address the admin API binds to
	ListenPort    string `mapstructure:"listen_port"`    // Port the admin API binds to
	StorageDriver string `mapstructure:"storage_driver"` // Persistence backend: sqlite, file, or memory
	StoragePath   string `mapstructure:"storage_path"`   // Database or document path, empty for a default inside the config dir
	LogLevel      string `mapstructure:"log_level"`      // Minimum log level: debug, info, warn, error
	LogFormat     string `mapstructure:"log_format"`     // Log output format: text or json
}

// SetStorageDriver switches the persistence backend and saves the
// configuration file. It takes effect on the next start.
func (cfg *Config) SetStorageDriver(driver string) error {
	switch driver {
	case "sqlite", "file", "memory":
		cfg.StorageDriver = driver
		cfg.viper.Set("storage_driver", driver)
		if err := cfg.viper.WriteConfig(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		if err := cfg.viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshalling config to struct : %w", err)
		}
	default:
		return errors.New("invalid storage driver string")
	}
	return nil
}

// SetLogLevel changes the minimum log level and saves the configuration file.
func (cfg *Config) SetLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		cfg.LogLevel = strings.ToLower(level)
		cfg.viper.Set("log_level", cfg.LogLevel)
		if err := cfg.viper.WriteConfig(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		if err := cfg.viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshalling config to struct : %w", err)
		}
	default:
		return errors.New("invalid log level string")
	}
	return nil
}

// Level returns the slog level corresponding to the configured log_level.
// Unknown values fall back to info.
func (cfg *Config) Level() slog.Level {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StorageLocation returns the configured storage path, falling back to a
// driver-appropriate file inside the config directory.
func (cfg *Config) StorageLocation() string {
	if cfg.StoragePath != "" {
		return cfg.StoragePath
	}
	switch cfg.StorageDriver {
	case "file":
		return path.Join(cfg.ConfigDir, "rudder.json")
	default:
		return path.Join(cfg.ConfigDir, "rudder.db")
	}
}
