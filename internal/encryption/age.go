package encryption

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
)

// ErrEmptyPassphrase is returned when a passphrase-based encryptor is created without one.
var ErrEmptyPassphrase = errors.New("passphrase must not be empty")

// ageHeader starts every age-encrypted file.
var ageHeader = []byte("age-encryption.org/v1")

// SnapshotEncryptor protects database snapshots written outside the data directory.
type SnapshotEncryptor interface {
	// Encrypt reads plaintext from r and writes the protected form to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Decrypt reads the protected form from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}

// AgeSnapshotEncryptor implements SnapshotEncryptor with age's scrypt-based
// passphrase encryption. No key files are involved: the passphrase is the key.
type AgeSnapshotEncryptor struct {
	passphrase string
	workFactor int
}

var _ SnapshotEncryptor = (*AgeSnapshotEncryptor)(nil)

// NewAgeSnapshotEncryptor creates an encryptor for passphrase.
func NewAgeSnapshotEncryptor(passphrase string) (*AgeSnapshotEncryptor, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	return &AgeSnapshotEncryptor{passphrase: passphrase}, nil
}

// SetWorkFactor sets the scrypt work factor (log2 of N) used when encrypting.
// Zero keeps age's default. Lower values are only appropriate in tests.
func (e *AgeSnapshotEncryptor) SetWorkFactor(logN int) {
	e.workFactor = logN
}

func (e *AgeSnapshotEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	recipient, err := age.NewScryptRecipient(e.passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if e.workFactor > 0 {
		recipient.SetWorkFactor(e.workFactor)
	}

	encWriter, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.Copy(encWriter, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}
	if err := encWriter.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return nil
}

// Decrypt fails when the passphrase does not match the one used to encrypt.
func (e *AgeSnapshotEncryptor) Decrypt(r io.Reader, w io.Writer) error {
	identity, err := age.NewScryptIdentity(e.passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt identity: %w", err)
	}

	decReader, err := age.Decrypt(r, identity)
	if err != nil {
		return fmt.Errorf("creating decrypted reader: %w", err)
	}
	if _, err := io.Copy(w, decReader); err != nil {
		return fmt.Errorf("decrypting data: %w", err)
	}
	return nil
}

// IsEncrypted reports whether r starts with an age header. The returned reader
// yields the full stream, including the bytes inspected.
func IsEncrypted(r io.Reader) (bool, io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(ageHeader))
	if err != nil && !errors.Is(err, io.EOF) {
		return false, br, fmt.Errorf("reading header: %w", err)
	}
	return bytes.Equal(head, ageHeader), br, nil
}
