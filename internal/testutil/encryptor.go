package testutil

import (
	"journal-go/internal/encryption"
	"journal-go/internal/journal"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() journal.Encryptor {
	return encryption.NewTestEncryptor()
}
