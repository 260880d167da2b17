package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultReadyTimeout bounds how long the app waits for the store to initialize.
const DefaultReadyTimeout = 10 * time.Second

// Config represents the main configuration for ledger.
type Config struct {
	BaseDir      string         `toml:"base_dir"`
	LogDir       string         `toml:"log_dir"`
	Timezone     string         `toml:"timezone,omitempty"`      // IANA name; empty means the system zone
	ReadyTimeout Duration       `toml:"ready_timeout"`           // e.g. "5s"
	Database     DatabaseConfig `toml:"database"`
	Log          LogConfig      `toml:"log"`
	Catalog      CatalogConfig  `toml:"catalog"`
	Snapshot     SnapshotConfig `toml:"snapshot"`
}

// DatabaseConfig represents configuration for the record store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite", "memory" or "ephemeral"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// LogConfig controls the application log.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn" or "error"
}

// CatalogConfig points at an optional user food catalog merged over the built-in one.
type CatalogConfig struct {
	Path     string `toml:"path,omitempty"`
	Language string `toml:"language,omitempty"` // display language for food names, defaults to "en"
}

// SnapshotConfig controls database snapshot export.
type SnapshotConfig struct {
	Encrypt bool `toml:"encrypt"` // encrypt exported snapshots with a passphrase
}

// Duration is a time.Duration that reads and writes as a TOML string.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// NewConfig creates a new Config rooted at baseDir with a sqlite database.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:      baseDir,
		LogDir:       filepath.Join(baseDir, "log"),
		ReadyTimeout: Duration{DefaultReadyTimeout},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Log:      LogConfig{Level: "info"},
		Catalog:  CatalogConfig{Language: "en"},
		Snapshot: SnapshotConfig{Encrypt: true},
	}
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// StoreReadyTimeout returns the configured ready timeout or the default.
func (c *Config) StoreReadyTimeout() time.Duration {
	if c.ReadyTimeout.Duration <= 0 {
		return DefaultReadyTimeout
	}
	return c.ReadyTimeout.Duration
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
