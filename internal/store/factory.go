package store

import (
	"fmt"
	"os"
	"path/filepath"

	"ledger-go/internal/config"
	"ledger-go/internal/ledger"
)

// DatabaseFile is the name of the SQLite file inside the configured data directory.
const DatabaseFile = "ledger.db"

// NewStoreFromConfig creates a Store implementation based on the database config type.
// The returned store may still be initializing; use Wait or Ready before issuing operations.
func NewStoreFromConfig(cfg config.DatabaseConfig, logger ledger.Logger) (Store, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return OpenSQLite(filepath.Join(cfg.DataDir, DatabaseFile), logger), nil
	case "memory":
		return OpenSQLite(":memory:", logger), nil
	case "ephemeral":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
