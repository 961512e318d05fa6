package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"journal-go/internal/config"
	"journal-go/internal/database"
	"journal-go/internal/encryption"
	"journal-go/internal/journal"
	"journal-go/internal/session"
	"journal-go/internal/vault"
	"journal-go/internal/web"
)

// ErrNoVault is returned by backup commands when no vault is configured.
var ErrNoVault = errors.New("no vaults configured")

// JournalApp is the application layer between the CLI and the journal
// service. It constructs all dependencies from config and manages the DB
// lifecycle on Close.
type JournalApp struct {
	cfg       *config.Config
	db        journal.Database
	vault     journal.Vault // nil when no vault is configured
	encryptor journal.Encryptor
	gate      *session.JWTGate
	service   *journal.Service
	clock     journal.Clock
	logger    *slog.Logger
	op        *BackupOperation
	logFile   *os.File
}

// NewJournalApp creates a fully wired JournalApp from the given config.
// operation identifies the CLI command being run (e.g. "serve", "backup").
// The caller must call Close when done.
func NewJournalApp(cfg *config.Config, operation string) (*JournalApp, error) {
	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID, slog.LevelInfo)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	a, err := newJournalApp(cfg, operation, logger, journal.RealClock{})
	if err != nil {
		logFile.Close()
		return nil, err
	}
	a.logFile = logFile
	return a, nil
}

func newJournalApp(cfg *config.Config, operation string, logger *slog.Logger, clock journal.Clock) (*JournalApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ttl, err := cfg.SessionTTL()
	if err != nil {
		return nil, err
	}

	var v journal.Vault
	if len(cfg.Vaults) > 0 {
		v, err = vault.NewVaultFromConfig(cfg.Vaults[0])
		if err != nil {
			return nil, fmt.Errorf("creating vault: %w", err)
		}
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.HostID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	// A newer snapshot in the vault means this database missed a restore.
	if v != nil {
		remoteVersion, err := v.GetSnapshotVersion(cfg.HostID)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("checking remote snapshot version: %w", err)
		}
		localMax, err := db.MaxBackupOperationID()
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("checking local snapshot version: %w", err)
		}
		if remoteVersion > localMax {
			db.Close()
			return nil, fmt.Errorf("local database is behind remote (local=%d, remote=%d): run journal restore", localMax, remoteVersion)
		}
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	adapter := &slogAdapter{l: logger}
	gate, err := session.NewJWTGate(cfg.Auth.PasswordHash, []byte(cfg.Auth.SigningKey), ttl, clock, journal.UUIDGenerator{}, adapter)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session gate: %w", err)
	}

	return &JournalApp{
		cfg:       cfg,
		db:        db,
		vault:     v,
		encryptor: enc,
		gate:      gate,
		service:   journal.NewService(db, clock, adapter, cfg.Language()),
		clock:     clock,
		logger:    logger,
		op:        NewBackupOperation(operation, ""),
	}, nil
}

// Service returns the journal service.
func (a *JournalApp) Service() *journal.Service {
	return a.service
}

// SignIn checks the admin password and opens a session.
func (a *JournalApp) SignIn(ctx context.Context, password string) (*journal.Session, error) {
	return a.gate.SignIn(ctx, password)
}

// Goals returns the configured learning goals in order.
func (a *JournalApp) Goals() []string {
	return a.cfg.Goals
}

// Import reads a legacy JSON export from path and stores its entries.
func (a *JournalApp) Import(ctx context.Context, sess *journal.Session, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	entries, err := journal.DecodeLegacy(f)
	if err != nil {
		return 0, err
	}
	return a.service.Import(ctx, sess, entries)
}

// History returns the most recent backup operations.
func (a *JournalApp) History(limit int) ([]*journal.BackupOperation, error) {
	return a.db.ListBackupOperations(limit)
}

// Backup snapshots the database, encrypts it and uploads it to the first
// vault. The snapshot version is the id of this backup operation. Returns the
// version written.
func (a *JournalApp) Backup() (int64, error) {
	if a.vault == nil {
		return 0, ErrNoVault
	}
	if !a.encryptor.IsConfigured() {
		return 0, fmt.Errorf("encryption keys not found: run journal config init")
	}
	if err := a.vault.ValidateSetup(); err != nil {
		return 0, fmt.Errorf("vault not ready: %w", err)
	}
	if err := a.persistOperation(); err != nil {
		return 0, err
	}

	// The record is marked successful before the snapshot so the restored
	// history shows this backup as completed.
	if err := a.db.FinishBackupOperation(a.op.ID, StatusSuccess); err != nil {
		return 0, fmt.Errorf("finishing backup operation: %w", err)
	}

	err := a.uploadSnapshot(a.op.ID)
	a.op.Finish(err)
	if err != nil {
		if ferr := a.db.FinishBackupOperation(a.op.ID, StatusError); ferr != nil {
			a.logger.Error("recording failed backup", "op", a.op.ID, "error", ferr)
		}
		return 0, err
	}

	a.logger.Info("backup uploaded", "version", a.op.ID, "host", a.cfg.HostID)
	return a.op.ID, nil
}

// Serve runs the web server until ctx is cancelled.
func (a *JournalApp) Serve(ctx context.Context) error {
	srv := web.NewServer(a.service, a.gate, a.logger, web.Options{
		CookieName:   a.cfg.Server.CookieName,
		SecureCookie: a.cfg.Server.SecureCookie,
		AllowOrigins: a.cfg.Server.AllowOrigins,
		Goals:        a.cfg.Goals,
	})
	a.logger.Info("listening", "addr", a.cfg.Server.Addr)
	return srv.Listen(ctx, a.cfg.Server.Addr)
}

// persistOperation saves the backup operation to the database, giving it an auto-increment ID.
func (a *JournalApp) persistOperation() error {
	if a.op.Persisted() {
		return nil
	}
	dbOp, err := a.db.CreateBackupOperation(a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting backup operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// uploadSnapshot copies the database with VACUUM INTO, encrypts the copy and
// uploads it.
func (a *JournalApp) uploadSnapshot(version int64) error {
	tmpDir, err := os.MkdirTemp("", "journal-backup-*")
	if err != nil {
		return fmt.Errorf("creating temp dir for db backup: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	plainPath := filepath.Join(tmpDir, "journal.db")
	if err := a.db.BackupTo(plainPath); err != nil {
		return err
	}

	encPath := filepath.Join(tmpDir, "journal.db.age")
	if err := encryptFile(a.encryptor, plainPath, encPath); err != nil {
		return err
	}

	f, err := os.Open(encPath)
	if err != nil {
		return fmt.Errorf("opening db backup for upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat db backup: %w", err)
	}

	if err := a.vault.PutSnapshot(a.cfg.HostID, f, info.Size(), version); err != nil {
		return fmt.Errorf("uploading snapshot to vault: %w", err)
	}
	return nil
}

// Close closes the database and the log file.
func (a *JournalApp) Close() error {
	var firstErr error
	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

func encryptFile(enc journal.Encryptor, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if err := enc.Encrypt(in, out); err != nil {
		out.Close()
		return fmt.Errorf("encrypting snapshot: %w", err)
	}
	return out.Close()
}
