package encryption

import (
	"fmt"
	"io"
)

// PlainEncryptor copies snapshots unchanged. It is used when snapshot
// encryption is turned off in the configuration.
type PlainEncryptor struct{}

var _ SnapshotEncryptor = PlainEncryptor{}

func (PlainEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying snapshot: %w", err)
	}
	return nil
}

func (PlainEncryptor) Decrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying snapshot: %w", err)
	}
	return nil
}
