package app

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"journal-go/internal/config"
	"journal-go/internal/encryption"
	"journal-go/internal/session"
)

// InitConfig creates a new installation: a config file at path with a fresh
// host id, the bcrypt hash of password and a random signing key. When
// passphrase is empty, backups are stored unencrypted; otherwise an age key
// pair protected by passphrase is generated.
func InitConfig(path, baseDir, password, passphrase string) (*config.Config, error) {
	cfg := config.NewConfig(uuid.New().String(), baseDir)

	hash, err := session.HashPassword(password)
	if err != nil {
		return nil, err
	}
	cfg.Auth.PasswordHash = hash

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating signing key: %w", err)
	}
	cfg.Auth.SigningKey = hex.EncodeToString(key)

	if passphrase == "" {
		cfg.Encryption.Type = "none"
	}
	if err := config.Init(path, cfg); err != nil {
		return nil, err
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, err
	}
	if !enc.IsConfigured() {
		if err := enc.Setup(passphrase); err != nil {
			return nil, fmt.Errorf("creating encryption keys: %w", err)
		}
	}
	return cfg, nil
}
