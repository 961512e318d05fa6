package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"journal-go/internal/config"
	"journal-go/internal/database"
	"journal-go/internal/encryption"
	"journal-go/internal/journal"
	"journal-go/internal/session"
	"journal-go/internal/testutil"
	"journal-go/internal/vault"
)

const testPassword = "correct horse"

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewConfig("host-1", dir)
	hash, err := session.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	cfg.Auth.PasswordHash = hash
	cfg.Auth.SigningKey = strings.Repeat("k", 32)
	cfg.Encryption.Type = "test"
	cfg.Vaults = []config.VaultConfig{{Type: "memory", Name: "mem"}}
	cfg.Goals = []string{"Samarbejde", "Dokumentation"}
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *JournalApp {
	t.Helper()
	logger := slog.New(&journalHandler{w: io.Discard})
	a, err := newJournalApp(cfg, "test", logger, testutil.FixedClock())
	if err != nil {
		t.Fatalf("newJournalApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func signIn(t *testing.T, a *JournalApp) *journal.Session {
	t.Helper()
	sess, err := a.SignIn(context.Background(), testPassword)
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	return sess
}

func TestNewJournalApp_InvalidConfig(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Auth.SigningKey = "short"

	logger := slog.New(&journalHandler{w: io.Discard})
	if _, err := newJournalApp(cfg, "test", logger, testutil.FixedClock()); err == nil {
		t.Error("newJournalApp() expected error for invalid config")
	}
}

func TestNewJournalApp_RemoteAhead(t *testing.T) {
	cfg := newTestConfig(t)
	root := filepath.Join(cfg.BaseDir, "vault")
	cfg.Vaults = []config.VaultConfig{{Type: "filesystem", Name: "fs", FSVaultRoot: root}}

	fsv, err := vault.NewFileSystemVault("fs", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if err := fsv.PutSnapshot(cfg.HostID, strings.NewReader("x"), 1, 5); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}

	logger := slog.New(&journalHandler{w: io.Discard})
	_, err = newJournalApp(cfg, "test", logger, testutil.FixedClock())
	if err == nil || !strings.Contains(err.Error(), "behind remote") {
		t.Errorf("newJournalApp() error = %v, want behind remote", err)
	}
}

func TestJournalApp_SignIn(t *testing.T) {
	a := newTestApp(t, newTestConfig(t))

	if _, err := a.SignIn(context.Background(), "wrong"); !errors.Is(err, journal.ErrNotAuthenticated) {
		t.Errorf("SignIn(wrong) error = %v, want ErrNotAuthenticated", err)
	}
	sess := signIn(t, a)
	if !sess.Active(testutil.FixedClock().Now()) {
		t.Error("session should be active")
	}
}

func TestJournalApp_Goals(t *testing.T) {
	a := newTestApp(t, newTestConfig(t))
	goals := a.Goals()
	if len(goals) != 2 || goals[0] != "Samarbejde" {
		t.Errorf("Goals() = %v", goals)
	}
}

func TestJournalApp_Import(t *testing.T) {
	a := newTestApp(t, newTestConfig(t))
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "export.json")
	export := `[
		{"title": "Dag 1", "content": "Første dag", "type": "spontan", "stateOfMind": "positive", "createdAt": "2024-01-15"},
		{"title": "Uge 2", "content": "Refleksion", "type": "refleksion", "spontaneousContent": "Note", "createdAt": "2024-01-22"}
	]`
	if err := os.WriteFile(path, []byte(export), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := a.Import(ctx, nil, path); !errors.Is(err, journal.ErrNotAuthenticated) {
		t.Errorf("Import() without session error = %v, want ErrNotAuthenticated", err)
	}

	n, err := a.Import(ctx, signIn(t, a), path)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Import() = %d, want 2", n)
	}

	groups, err := a.Service().Groups(ctx, journal.SortNewest)
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(groups) != 2 {
		t.Errorf("len(Groups()) = %d, want 2", len(groups))
	}

	if _, err := a.Import(ctx, signIn(t, a), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Import() expected error for missing file")
	}
}

func TestJournalApp_BackupWithoutVault(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Vaults = nil
	a := newTestApp(t, cfg)

	if _, err := a.Backup(); !errors.Is(err, ErrNoVault) {
		t.Errorf("Backup() error = %v, want ErrNoVault", err)
	}
}

func TestJournalApp_BackupAndRestore(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t)
	a := newTestApp(t, cfg)

	created, err := a.Service().Create(ctx, signIn(t, a), journal.FormValues{
		Title:       "Backup me",
		Content:     "Indhold",
		Date:        "2024-01-15",
		StateOfMind: journal.MoodNeutral,
		Type:        journal.TypeSpontaneous,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	version, err := a.Backup()
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if version != 1 {
		t.Errorf("Backup() version = %d, want 1", version)
	}

	remote, err := a.vault.GetSnapshotVersion(cfg.HostID)
	if err != nil {
		t.Fatalf("GetSnapshotVersion() error = %v", err)
	}
	if remote != version {
		t.Errorf("remote version = %d, want %d", remote, version)
	}

	ops, err := a.History(10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(ops) != 1 || ops[0].Status != StatusSuccess {
		t.Fatalf("History() = %+v, want one successful op", ops)
	}

	t.Run("restore into a fresh data dir", func(t *testing.T) {
		target := *cfg
		target.Database.DataDir = filepath.Join(t.TempDir(), "db")

		got, err := restore(&target, a.vault, encryption.NewTestEncryptor(), "passphrase", false)
		if err != nil {
			t.Fatalf("restore() error = %v", err)
		}
		if got != version {
			t.Errorf("restore() version = %d, want %d", got, version)
		}

		db, err := database.NewSQLiteDatabase(database.DatabasePath(target.Database, target.HostID), nil, nil)
		if err != nil {
			t.Fatalf("opening restored db: %v", err)
		}
		defer db.Close()

		e, err := db.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get() from restored db error = %v", err)
		}
		if e.Title != "Backup me" {
			t.Errorf("restored Title = %q", e.Title)
		}
		maxID, err := db.MaxBackupOperationID()
		if err != nil {
			t.Fatalf("MaxBackupOperationID() error = %v", err)
		}
		if maxID != version {
			t.Errorf("restored MaxBackupOperationID() = %d, want %d", maxID, version)
		}
	})

	t.Run("refuses to replace existing database", func(t *testing.T) {
		if _, err := restore(cfg, a.vault, encryption.NewTestEncryptor(), "passphrase", false); err == nil {
			t.Error("restore() expected error for existing database")
		}
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		target := *cfg
		target.Database.DataDir = filepath.Join(t.TempDir(), "db")
		if _, err := restore(&target, a.vault, encryption.NewTestEncryptor(), "", false); err == nil {
			t.Error("restore() expected error for empty passphrase")
		}
	})
}

func TestRestore_NoSnapshot(t *testing.T) {
	cfg := newTestConfig(t)
	_, err := restore(cfg, vault.NewMemoryVault("mem"), encryption.NewTestEncryptor(), "passphrase", false)
	if err == nil || !strings.Contains(err.Error(), "no snapshot") {
		t.Errorf("restore() error = %v, want no snapshot", err)
	}
}

func TestInitConfig(t *testing.T) {
	t.Run("without passphrase stores backups unencrypted", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "journal.toml")

		cfg, err := InitConfig(path, dir, "admin-password", "")
		if err != nil {
			t.Fatalf("InitConfig() error = %v", err)
		}
		if cfg.Encryption.Type != "none" {
			t.Errorf("Encryption.Type = %q, want none", cfg.Encryption.Type)
		}

		read, err := config.ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if err := read.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
		if read.HostID == "" || read.HostID != cfg.HostID {
			t.Errorf("HostID = %q, want %q", read.HostID, cfg.HostID)
		}
	})

	t.Run("with passphrase creates age keys", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "journal.toml")

		cfg, err := InitConfig(path, dir, "admin-password", "backup-passphrase")
		if err != nil {
			t.Fatalf("InitConfig() error = %v", err)
		}
		if _, err := os.Stat(cfg.Encryption.PublicKeyPath); err != nil {
			t.Errorf("public key not written: %v", err)
		}
		if _, err := os.Stat(cfg.Encryption.PrivateKeyPath); err != nil {
			t.Errorf("private key not written: %v", err)
		}
	})

	t.Run("empty password", func(t *testing.T) {
		dir := t.TempDir()
		if _, err := InitConfig(filepath.Join(dir, "journal.toml"), dir, "", ""); err == nil {
			t.Error("InitConfig() expected error for empty password")
		}
	})
}
