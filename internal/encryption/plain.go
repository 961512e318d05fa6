package encryption

import (
	"fmt"
	"io"

	"journal-go/internal/journal"
)

// PlainEncryptor stores snapshots unencrypted. It is selected with
// encryption.type = "none" for vaults that are already private, such as a
// local disk.
type PlainEncryptor struct{}

var _ journal.Encryptor = PlainEncryptor{}

// NewPlainEncryptor creates a PlainEncryptor.
func NewPlainEncryptor() PlainEncryptor {
	return PlainEncryptor{}
}

func (PlainEncryptor) Setup(string) error { return nil }

func (PlainEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (PlainEncryptor) Unlock(string) (journal.DecryptionContext, error) {
	return plainDecryptionContext{}, nil
}

func (PlainEncryptor) IsConfigured() bool { return true }

type plainDecryptionContext struct{}

func (plainDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
