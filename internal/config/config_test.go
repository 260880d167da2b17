package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir:      "/home/user/.local/share/ledger",
		LogDir:       "/home/user/.local/share/ledger/log",
		Timezone:     "America/Sao_Paulo",
		ReadyTimeout: Duration{3 * time.Second},
		Database:     DatabaseConfig{Type: "sqlite", DataDir: "/home/user/.local/share/ledger/db"},
		Log:          LogConfig{Level: "debug"},
		Catalog:      CatalogConfig{Path: "/home/user/foods.toml", Language: "pt"},
		Snapshot:     SnapshotConfig{Encrypt: true},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.Timezone != original.Timezone {
		t.Errorf("Timezone = %q, want %q", got.Timezone, original.Timezone)
	}
	if got.ReadyTimeout.Duration != 3*time.Second {
		t.Errorf("ReadyTimeout = %v, want %v", got.ReadyTimeout.Duration, 3*time.Second)
	}
	if got.Database != original.Database {
		t.Errorf("Database = %+v, want %+v", got.Database, original.Database)
	}
	if got.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", got.Log.Level, "debug")
	}
	if got.Catalog != original.Catalog {
		t.Errorf("Catalog = %+v, want %+v", got.Catalog, original.Catalog)
	}
	if !got.Snapshot.Encrypt {
		t.Error("Snapshot.Encrypt = false, want true")
	}
}

func TestManager_Read_InvalidDuration(t *testing.T) {
	m := &Manager{}
	_, err := m.Read(strings.NewReader(`ready_timeout = "soon"`))
	if err == nil {
		t.Fatal("Read() expected error for invalid duration")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/ledger")

	if cfg.BaseDir != "/data/ledger" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/ledger")
	}
	if cfg.LogDir != "/data/ledger/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/ledger/log")
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", cfg.Database.Type, "sqlite")
	}
	if cfg.Database.DataDir != "/data/ledger/db" {
		t.Errorf("Database.DataDir = %q, want %q", cfg.Database.DataDir, "/data/ledger/db")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Catalog.Language != "en" {
		t.Errorf("Catalog.Language = %q, want %q", cfg.Catalog.Language, "en")
	}
}

func TestConfig_Location(t *testing.T) {
	t.Run("empty timezone uses local", func(t *testing.T) {
		cfg := &Config{}
		loc, err := cfg.Location()
		if err != nil {
			t.Fatalf("Location() error = %v", err)
		}
		if loc != time.Local {
			t.Errorf("Location() = %v, want Local", loc)
		}
	})

	t.Run("named timezone", func(t *testing.T) {
		cfg := &Config{Timezone: "UTC"}
		loc, err := cfg.Location()
		if err != nil {
			t.Fatalf("Location() error = %v", err)
		}
		if loc.String() != "UTC" {
			t.Errorf("Location() = %v, want UTC", loc)
		}
	})

	t.Run("unknown timezone", func(t *testing.T) {
		cfg := &Config{Timezone: "Nowhere/Special"}
		if _, err := cfg.Location(); err == nil {
			t.Fatal("Location() expected error for unknown timezone")
		}
	})
}

func TestConfig_StoreReadyTimeout(t *testing.T) {
	cfg := &Config{}
	if got := cfg.StoreReadyTimeout(); got != DefaultReadyTimeout {
		t.Errorf("StoreReadyTimeout() = %v, want %v", got, DefaultReadyTimeout)
	}

	cfg.ReadyTimeout = Duration{2 * time.Second}
	if got := cfg.StoreReadyTimeout(); got != 2*time.Second {
		t.Errorf("StoreReadyTimeout() = %v, want %v", got, 2*time.Second)
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "ledger.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "ledger.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "ledger.toml")
		cfg := NewConfig(dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want %q", got.Database.Type, "memory")
		}
		if got.StoreReadyTimeout() != DefaultReadyTimeout {
			t.Errorf("StoreReadyTimeout() = %v, want %v", got.StoreReadyTimeout(), DefaultReadyTimeout)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/ledger.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
