package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/tfkr-ae/rudder"
	"github.com/tfkr-ae/rudder/api"
	"github.com/tfkr-ae/rudder/db"
)

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".rudder"
	}
	return path.Join(dir, "rudder")
}

// withConfiguredLogger builds the slog logger from the loaded server config.
// It must run after WithConfigDir.
func withConfiguredLogger() func(*rudder.ControlPlane) error {
	return func(controlPlane *rudder.ControlPlane) error {
		options := &slog.HandlerOptions{Level: controlPlane.Config.Level()}
		var handler slog.Handler
		if controlPlane.Config.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, options)
		} else {
			handler = slog.NewTextHandler(os.Stderr, options)
		}
		return rudder.WithLogger(slog.New(handler))(controlPlane)
	}
}

// withConfiguredStorage attaches the persistence backend named in the server
// config. The sqlite driver also enables the audit trail, since the
// repository serves both interfaces.
func withConfiguredStorage(repoHolder **db.Repository) func(*rudder.ControlPlane) error {
	return func(controlPlane *rudder.ControlPlane) error {
		switch controlPlane.Config.StorageDriver {
		case "memory":
			return nil
		case "file":
			return rudder.WithStorage(rudder.NewFileStore(controlPlane.Config.StorageLocation()))(controlPlane)
		case "sqlite":
			conn, err := db.New(controlPlane.Config.StorageLocation())
			if err != nil {
				return fmt.Errorf("opening sqlite storage : %w", err)
			}
			repo := db.NewControlPlaneRepo(conn)
			*repoHolder = repo
			if err := rudder.WithAuditLog(repo)(controlPlane); err != nil {
				return err
			}
			return rudder.WithStorage(repo)(controlPlane)
		default:
			return fmt.Errorf("unknown storage driver %q", controlPlane.Config.StorageDriver)
		}
	}
}

func main() {
	configDir := flag.String("config", defaultConfigDir(), "path to the configuration directory")
	flag.Parse()

	var repo *db.Repository
	controlPlane, err := rudder.New(
		rudder.WithConfigDir(*configDir),
		withConfiguredLogger(),
		withConfiguredStorage(&repo),
	)
	if err != nil {
		log.Fatalf("rudderd: %v", err)
	}
	defer controlPlane.Close()
	if repo != nil {
		defer repo.Close()
	}

	server := api.NewServer(controlPlane, controlPlane.Logger)
	address := net.JoinHostPort(controlPlane.Config.ListenAddress, controlPlane.Config.ListenPort)
	go func() {
		if err := server.Start(address); err != nil {
			controlPlane.Logger.Error("admin api stopped", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)

	controlPlane.Logger.Info("rudderd started", "address", address,
		"storage", controlPlane.Config.StorageDriver)

	for {
		select {
		case <-reload:
			controlPlane.Logger.Info("reloading persisted configuration")
			if err := controlPlane.Load(); err != nil {
				controlPlane.Logger.Error("reloading persisted configuration", "error", err)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				controlPlane.Logger.Error("shutting down admin api", "error", err)
			}
			return
		}
	}
}
