package rudder

import (
	"log/slog"
	"path"
	"testing"
)

func TestWithConfigDir(t *testing.T) {
	t.Run("should create the directory and write defaults", func(t *testing.T) {
		configDir := path.Join(t.TempDir(), "rudder")

		cp, err := New(WithConfigDir(configDir))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		defer cp.Close()

		if cp.Config == nil {
			t.Fatalf("\nwanted:\na loaded config\ngot:\nnil")
		}
		if cp.Config.StorageDriver != "sqlite" {
			t.Fatalf("\nwanted:\nsqlite default\ngot:\n%q", cp.Config.StorageDriver)
		}
		if cp.Config.ListenAddress != "127.0.0.1" || cp.Config.ListenPort != "9090" {
			t.Fatalf("\nwanted:\ndefault listen address\ngot:\n%s:%s",
				cp.Config.ListenAddress, cp.Config.ListenPort)
		}
	})

	t.Run("should reread persisted settings on the next start", func(t *testing.T) {
		configDir := path.Join(t.TempDir(), "rudder")

		first, err := New(WithConfigDir(configDir))
		if err != nil {
			t.Fatalf("creating first control plane: %v", err)
		}
		if err := first.Config.SetStorageDriver("file"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		first.Close()

		second, err := New(WithConfigDir(configDir))
		if err != nil {
			t.Fatalf("creating second control plane: %v", err)
		}
		defer second.Close()

		if second.Config.StorageDriver != "file" {
			t.Fatalf("\nwanted:\nfile\ngot:\n%q", second.Config.StorageDriver)
		}
	})
}

func TestConfig_SetStorageDriver(t *testing.T) {
	t.Run("should reject unknown drivers", func(t *testing.T) {
		configDir := path.Join(t.TempDir(), "rudder")
		cp, err := New(WithConfigDir(configDir))
		if err != nil {
			t.Fatalf("creating control plane: %v", err)
		}
		defer cp.Close()

		if err := cp.Config.SetStorageDriver("etcd"); err == nil {
			t.Fatalf("\nwanted:\nan error\ngot:\nnil")
		}
	})
}

func TestConfig_Level(t *testing.T) {
	t.Run("should map level strings with info fallback", func(t *testing.T) {
		cases := []struct {
			level string
			want  slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"WARN", slog.LevelWarn},
			{"error", slog.LevelError},
			{"verbose", slog.LevelInfo},
			{"", slog.LevelInfo},
		}
		for _, tc := range cases {
			cfg := &Config{LogLevel: tc.level}
			if got := cfg.Level(); got != tc.want {
				t.Fatalf("\nwanted:\n%v for %q\ngot:\n%v", tc.want, tc.level, got)
			}
		}
	})
}

func TestConfig_StorageLocation(t *testing.T) {
	t.Run("should fall back to a driver-appropriate default", func(t *testing.T) {
		cfg := &Config{ConfigDir: "/tmp/rudder", StorageDriver: "sqlite"}
		if got := cfg.StorageLocation(); got != "/tmp/rudder/rudder.db" {
			t.Fatalf("\nwanted:\n/tmp/rudder/rudder.db\ngot:\n%q", got)
		}

		cfg.StorageDriver = "file"
		if got := cfg.StorageLocation(); got != "/tmp/rudder/rudder.json" {
			t.Fatalf("\nwanted:\n/tmp/rudder/rudder.json\ngot:\n%q", got)
		}

		cfg.StoragePath = "/data/explicit.db"
		if got := cfg.StorageLocation(); got != "/data/explicit.db" {
			t.Fatalf("\nwanted:\n/data/explicit.db\ngot:\n%q", got)
		}
	})
}
