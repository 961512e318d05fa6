package journal

import (
	"context"
	"time"
)

// EntryStore is the contract of the document store holding entries.
// Implementations assign ids on Create and return ErrNotFound for unknown ids.
type EntryStore interface {
	// Create stores a new entry and returns the id assigned to it.
	Create(ctx context.Context, entry *Entry) (string, error)

	// ReadAll returns every entry in insertion order.
	ReadAll(ctx context.Context) ([]*Entry, error)

	// Get returns a single entry.
	Get(ctx context.Context, id string) (*Entry, error)

	// Update applies patch to the entry with the given id.
	Update(ctx context.Context, id string, patch EntryPatch) error

	// Delete removes the entry with the given id.
	Delete(ctx context.Context, id string) error
}

// BackupOperation records one run of a backup or restore.
type BackupOperation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Database is the persistent store behind the application: the entry store
// plus bookkeeping for backups.
type Database interface {
	EntryStore

	// CreateBackupOperation records the start of an operation and returns it
	// with its auto-increment id.
	CreateBackupOperation(operation, parameters string) (*BackupOperation, error)

	// FinishBackupOperation marks an operation finished with status.
	FinishBackupOperation(id int64, status string) error

	// ListBackupOperations returns the most recent operations, newest first.
	ListBackupOperations(limit int) ([]*BackupOperation, error)

	// MaxBackupOperationID returns the highest operation id, or 0.
	MaxBackupOperationID() (int64, error)

	// CheckMigrations verifies the schema is up to date.
	CheckMigrations() error

	// BackupTo writes a consistent copy of the database to destPath.
	BackupTo(destPath string) error

	// Close closes the database connection.
	Close() error
}
