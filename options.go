package rudder

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"
	"github.com/tfkr-ae/rudder/domain"
)

// WithOptions applies a series of configuration functions to the control
// plane instance. Each option function can modify the control plane and
// return an error if it fails.
func (controlPlane *ControlPlane) WithOptions(options ...func(*ControlPlane) error) error {
	for _, option := range options {
		err := option(controlPlane)
		if err != nil {
			return fmt.Errorf("applying option on rudder : %w", err)
		}
	}
	return nil
}

// WithConfigDir configures the control plane to use the specified
// configuration directory. It creates the directory if it doesn't exist and
// initializes the server configuration file using Viper; values can also be
// overridden through RUDDER_ prefixed environment variables.
func WithConfigDir(appConfigDir string) func(*ControlPlane) error {
	return func(controlPlane *ControlPlane) error {
		_, err := os.ReadDir(appConfigDir)
		if err != nil {
			if os.IsNotExist(err) {
				controlPlane.Logger.Info("creating config dir", "dir", appConfigDir)
				err := os.MkdirAll(appConfigDir, 0700)
				if err != nil {
					return fmt.Errorf("creating config dir %s: %w", appConfigDir, err)
				}
			} else {
				return fmt.Errorf("checking if directory exists %s: %w", appConfigDir, err)
			}
		}
		// At this point, the directory exists or was created successfully
		controlPlane.ConfigDir = appConfigDir

		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(appConfigDir)
		v.SetDefault("listen_address", "127.0.0.1")
		v.SetDefault("listen_port", "9090")
		v.SetDefault("storage_driver", "sqlite")
		v.SetDefault("storage_path", "")
		v.SetDefault("log_level", "info")
		v.SetDefault("log_format", "text")
		v.SetEnvPrefix("rudder")
		v.AutomaticEnv()
		err = v.ReadInConfig()
		if err != nil {
			// need to check if the error is config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				err = v.SafeWriteConfig()
				if err != nil {
					return fmt.Errorf("writing config file : %w", err)
				}
			} else {
				return fmt.Errorf("reading config file : %w", err)
			}
		}
		if err := v.Unmarshal(&controlPlane.Config); err != nil {
			return fmt.Errorf("unmarshalling config to struct : %w", err)
		}

		controlPlane.Config.viper = v
		controlPlane.Config.ConfigDir = appConfigDir
		// Rewrite entire file from struct
		err = v.WriteConfig()
		if err != nil {
			return fmt.Errorf("writing config after unmarshalling : %w", err)
		}
		return nil
	}
}

// WithLogger sets the structured logger used by the control plane and its
// store. A nil logger keeps the default.
func WithLogger(logger *slog.Logger) func(*ControlPlane) error {
	return func(controlPlane *ControlPlane) error {
		if logger == nil {
			return nil
		}
		controlPlane.Logger = logger
		controlPlane.Store.logger = logger
		return nil
	}
}

// WithStorage attaches a persistence backend to the store and loads whatever
// it already holds. A fresh backend with nothing persisted leaves the store
// empty; a backend whose contents do not parse fails construction.
func WithStorage(storage domain.ConfigStorage) func(*ControlPlane) error {
	return func(controlPlane *ControlPlane) error {
		controlPlane.Store.SetStorage(storage)
		if err := controlPlane.Store.Load(); err != nil {
			return fmt.Errorf("loading persisted configuration : %w", err)
		}
		return nil
	}
}

// WithAuditLog attaches an audit repository; configuration changes are then
// recorded in the background until Close.
func WithAuditLog(repo domain.AuditRepository) func(*ControlPlane) error {
	return func(controlPlane *ControlPlane) error {
		if controlPlane.AuditRepo != nil {
			return errors.New("control plane already has an audit repository defined")
		}
		controlPlane.AuditRepo = repo
		return nil
	}
}

// WithApplyHandler takes a handler function that will be executed after each
// successful publish
func WithApplyHandler(handler func(snapshot *Snapshot)) func(*ControlPlane) error {
	return func(controlPlane *ControlPlane) error {
		if controlPlane.OnApply != nil {
			return errors.New("control plane already has an apply handler defined")
		}
		controlPlane.OnApply = handler
		return nil
	}
}

// WithChangeHandler takes a handler function that will be executed on each
// store change event
func WithChangeHandler(handler func(event ChangeEvent)) func(*ControlPlane) error {
	return func(controlPlane *ControlPlane) error {
		controlPlane.Store.Subscribe(handler)
		return nil
	}
}
