package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ledger-go/internal/encryption"
	"ledger-go/internal/store"
	"ledger-go/internal/store/migrations"
)

// ErrNotPersistent is returned by operations that need a database file when
// the configured store keeps records in memory.
var ErrNotPersistent = errors.New("store is not backed by a database file")

// persistentStore is implemented by stores that keep records in a SQLite file.
type persistentStore interface {
	Path() string
	CheckMigrations() error
	BackupTo(ctx context.Context, destPath string) error
	DumpSchema(ctx context.Context) (string, error)
}

func (a *LedgerApp) persistent() (persistentStore, error) {
	ps, ok := a.store.(persistentStore)
	if !ok || ps.Path() == ":memory:" {
		return nil, ErrNotPersistent
	}
	return ps, nil
}

// StorePath returns the database file path.
func (a *LedgerApp) StorePath() (string, error) {
	ps, err := a.persistent()
	if err != nil {
		return "", err
	}
	return ps.Path(), nil
}

// CheckStore verifies that the database schema is at the latest migration.
func (a *LedgerApp) CheckStore() error {
	ps, err := a.persistent()
	if err != nil {
		return err
	}
	if err := ps.CheckMigrations(); err != nil {
		return fmt.Errorf("database schema out of date: %w", err)
	}
	return nil
}

// Schema returns the CREATE statements of the database schema.
func (a *LedgerApp) Schema(ctx context.Context) (string, error) {
	ps, err := a.persistent()
	if err != nil {
		return "", err
	}
	return ps.DumpSchema(ctx)
}

// ExportSnapshot writes a consistent copy of the database to dest. The copy is
// encrypted with passphrase unless snapshot encryption is turned off.
func (a *LedgerApp) ExportSnapshot(ctx context.Context, dest, passphrase string) error {
	ps, err := a.persistent()
	if err != nil {
		return err
	}
	enc, err := encryption.NewSnapshotEncryptorFromConfig(a.cfg.Snapshot, passphrase)
	if err != nil {
		return fmt.Errorf("creating snapshot encryptor: %w", err)
	}
	if age, ok := enc.(*encryption.AgeSnapshotEncryptor); ok && a.scryptWorkFactor > 0 {
		age.SetWorkFactor(a.scryptWorkFactor)
	}

	tmpDir, err := os.MkdirTemp("", "ledger-snapshot-*")
	if err != nil {
		return fmt.Errorf("creating temp dir for snapshot: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, store.DatabaseFile)
	if err := ps.BackupTo(ctx, tmpPath); err != nil {
		return err
	}

	src, err := os.Open(tmpPath)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer src.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	if err := enc.Encrypt(src, out); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("closing snapshot file: %w", err)
	}

	a.logger.Info("snapshot exported", "dest", dest, "encrypted", a.cfg.Snapshot.Encrypt)
	return nil
}

// ImportSnapshot replaces the database with the snapshot at src. Encrypted
// snapshots are detected by their header and need passphrase. The snapshot
// must be at the latest schema version; the current database is left
// untouched when it is not.
func (a *LedgerApp) ImportSnapshot(ctx context.Context, src, passphrase string) error {
	ps, err := a.persistent()
	if err != nil {
		return err
	}
	dbPath := ps.Path()

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer in.Close()

	encrypted, r, err := encryption.IsEncrypted(in)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	var enc encryption.SnapshotEncryptor = encryption.PlainEncryptor{}
	if encrypted {
		if enc, err = encryption.NewAgeSnapshotEncryptor(passphrase); err != nil {
			return fmt.Errorf("creating snapshot encryptor: %w", err)
		}
	}

	// Stage next to the database so the final rename stays on one filesystem.
	tmp, err := os.CreateTemp(filepath.Dir(dbPath), ".ledger-import-*.db")
	if err != nil {
		return fmt.Errorf("creating temp file for import: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := enc.Decrypt(r, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("reading snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := verifySnapshot(tmpPath); err != nil {
		return err
	}

	if err := a.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	renameErr := os.Rename(tmpPath, dbPath)
	if renameErr != nil {
		a.logger.Error("replacing database failed", "path", dbPath, "error", renameErr)
	}

	// Reopen whichever file is now in place.
	if err := a.attach(ctx, store.OpenSQLite(dbPath, a.logger)); err != nil {
		return fmt.Errorf("reopening store: %w", err)
	}
	if renameErr != nil {
		return fmt.Errorf("replacing database: %w", renameErr)
	}

	a.logger.Info("snapshot imported", "src", src, "encrypted", encrypted)
	return nil
}

// verifySnapshot checks that path holds a ledger database at the latest schema version.
func verifySnapshot(path string) error {
	db, err := store.OpenConnection(path)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer db.Close()

	if err := migrations.CheckDBMigrationStatus(db); err != nil {
		return fmt.Errorf("snapshot is not a current ledger database: %w", err)
	}
	return nil
}
