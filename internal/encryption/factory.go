package encryption

import (
	"ledger-go/internal/config"
)

// NewSnapshotEncryptorFromConfig returns the age encryptor when snapshot
// encryption is enabled, and PlainEncryptor otherwise.
func NewSnapshotEncryptorFromConfig(cfg config.SnapshotConfig, passphrase string) (SnapshotEncryptor, error) {
	if !cfg.Encrypt {
		return PlainEncryptor{}, nil
	}
	return NewAgeSnapshotEncryptor(passphrase)
}
