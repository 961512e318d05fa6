package app

import (
	"fmt"
	"os"
	"path/filepath"

	"journal-go/internal/config"
	"journal-go/internal/database"
	"journal-go/internal/encryption"
	"journal-go/internal/journal"
	"journal-go/internal/vault"
)

// Restore downloads the latest snapshot for this host from the first vault,
// decrypts it with passphrase and installs it as the local database. An
// existing database is only replaced when force is set. Returns the restored
// snapshot version.
func Restore(cfg *config.Config, passphrase string, force bool) (int64, error) {
	if len(cfg.Vaults) == 0 {
		return 0, ErrNoVault
	}
	v, err := vault.NewVaultFromConfig(cfg.Vaults[0])
	if err != nil {
		return 0, fmt.Errorf("creating vault: %w", err)
	}
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return 0, fmt.Errorf("creating encryptor: %w", err)
	}
	return restore(cfg, v, enc, passphrase, force)
}

func restore(cfg *config.Config, v journal.Vault, enc journal.Encryptor, passphrase string, force bool) (int64, error) {
	if cfg.Database.Type != "sqlite" {
		return 0, fmt.Errorf("restore needs a sqlite database, got %q", cfg.Database.Type)
	}
	target := database.DatabasePath(cfg.Database, cfg.HostID)
	if _, err := os.Stat(target); err == nil && !force {
		return 0, fmt.Errorf("database already exists at %s (use --force to replace it)", target)
	}

	version, err := v.GetSnapshotVersion(cfg.HostID)
	if err != nil {
		return 0, fmt.Errorf("reading snapshot version: %w", err)
	}
	if version == 0 {
		return 0, fmt.Errorf("no snapshot found for host %s", cfg.HostID)
	}

	dec, err := enc.Unlock(passphrase)
	if err != nil {
		return 0, fmt.Errorf("unlocking private key: %w", err)
	}

	if err := os.MkdirAll(cfg.Database.DataDir, 0755); err != nil {
		return 0, fmt.Errorf("creating data directory: %w", err)
	}
	tmpDir, err := os.MkdirTemp(cfg.Database.DataDir, ".restore-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	encPath := filepath.Join(tmpDir, "snapshot.age")
	if err := download(v, cfg.HostID, encPath); err != nil {
		return 0, err
	}

	plainPath := filepath.Join(tmpDir, "journal.db")
	if err := decryptFile(dec, encPath, plainPath); err != nil {
		return 0, err
	}

	// Bring older snapshots up to the current schema before installing them.
	restored, err := database.NewSQLiteDatabase(plainPath, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("opening snapshot: %w", err)
	}
	status, err := restored.SchemaStatus()
	if err != nil {
		restored.Close()
		return 0, fmt.Errorf("reading snapshot schema: %w", err)
	}
	if status.Current > status.Latest {
		restored.Close()
		return 0, fmt.Errorf("snapshot schema version %d is newer than this binary (%d)", status.Current, status.Latest)
	}
	if err := restored.Migrate(); err != nil {
		restored.Close()
		return 0, fmt.Errorf("migrating snapshot: %w", err)
	}
	if err := restored.Close(); err != nil {
		return 0, fmt.Errorf("closing snapshot: %w", err)
	}

	if err := os.Rename(plainPath, target); err != nil {
		return 0, fmt.Errorf("installing snapshot: %w", err)
	}
	return version, nil
}

func download(v journal.Vault, hostID, dst string) error {
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if err := v.GetSnapshot(hostID, f); err != nil {
		f.Close()
		return fmt.Errorf("downloading snapshot: %w", err)
	}
	return f.Close()
}

func decryptFile(dec journal.DecryptionContext, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if err := dec.Decrypt(in, out); err != nil {
		out.Close()
		return fmt.Errorf("decrypting snapshot: %w", err)
	}
	return out.Close()
}
