package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"journal-go/internal/database/migrations"
	"journal-go/internal/database/sqlc"
	"journal-go/internal/journal"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements journal.Database using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
	clock   journal.Clock
	idgen   journal.IDGenerator
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
// A nil clock or idgen falls back to the real clock and random UUIDs.
func NewSQLiteDatabase(path string, clock journal.Clock, idgen journal.IDGenerator) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	s := NewSQLiteDatabaseFromDB(db, clock, idgen)
	s.path = path
	return s, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB, clock journal.Clock, idgen journal.IDGenerator) *SQLiteDatabase {
	if clock == nil {
		clock = journal.RealClock{}
	}
	if idgen == nil {
		idgen = journal.UUIDGenerator{}
	}
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		clock:   clock,
		idgen:   idgen,
	}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty database.
	// A single connection also serializes writers for file databases.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Entry operations

func (s *SQLiteDatabase) Create(ctx context.Context, entry *journal.Entry) (string, error) {
	updatedAt := entry.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.clock.Now()
	}
	row, err := s.queries.InsertEntry(ctx, sqlc.InsertEntryParams{
		ID:               s.idgen.New(),
		Title:            entry.Title,
		Content:          entry.Content,
		SecondaryContent: nullString(entry.SecondaryContent),
		Type:             string(entry.Type),
		StateOfMind:      string(entry.StateOfMind),
		CreatedAt:        string(entry.CreatedAt),
		UpdatedAt:        sql.NullTime{Time: updatedAt.UTC(), Valid: true},
	})
	if err != nil {
		return "", fmt.Errorf("inserting entry: %w", err)
	}
	return row.ID, nil
}

func (s *SQLiteDatabase) ReadAll(ctx context.Context) ([]*journal.Entry, error) {
	rows, err := s.queries.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	entries := make([]*journal.Entry, len(rows))
	for i := range rows {
		entries[i] = toEntry(rows[i])
	}
	return entries, nil
}

func (s *SQLiteDatabase) Get(ctx context.Context, id string) (*journal.Entry, error) {
	row, err := s.queries.GetEntry(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, journal.ErrNotFound
		}
		return nil, fmt.Errorf("finding entry: %w", err)
	}
	return toEntry(row), nil
}

// Update reads the entry, applies patch and writes every column back in one
// transaction.
func (s *SQLiteDatabase) Update(ctx context.Context, id string, patch journal.EntryPatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	row, err := qtx.GetEntry(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return journal.ErrNotFound
		}
		return fmt.Errorf("finding entry: %w", err)
	}

	e := toEntry(row)
	if patch.UpdatedAt.IsZero() {
		patch.UpdatedAt = s.clock.Now()
	}
	patch.Apply(e)

	n, err := qtx.UpdateEntry(ctx, sqlc.UpdateEntryParams{
		Title:            e.Title,
		Content:          e.Content,
		SecondaryContent: nullString(e.SecondaryContent),
		StateOfMind:      string(e.StateOfMind),
		CreatedAt:        string(e.CreatedAt),
		UpdatedAt:        sql.NullTime{Time: e.UpdatedAt.UTC(), Valid: true},
		ID:               id,
	})
	if err != nil {
		return fmt.Errorf("updating entry: %w", err)
	}
	if n == 0 {
		return journal.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) Delete(ctx context.Context, id string) error {
	n, err := s.queries.DeleteEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	if n == 0 {
		return journal.ErrNotFound
	}
	return nil
}

// Count returns the number of stored entries.
func (s *SQLiteDatabase) Count(ctx context.Context) (int64, error) {
	n, err := s.queries.CountEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

func toEntry(row sqlc.Entry) *journal.Entry {
	e := &journal.Entry{
		ID:          row.ID,
		Title:       row.Title,
		Content:     row.Content,
		Type:        journal.EntryType(row.Type),
		StateOfMind: journal.Mood(row.StateOfMind),
		CreatedAt:   journal.Date(row.CreatedAt),
	}
	if row.SecondaryContent.Valid {
		s := row.SecondaryContent.String
		e.SecondaryContent = &s
	}
	if row.UpdatedAt.Valid {
		e.UpdatedAt = row.UpdatedAt.Time
	}
	return e
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Backup operation tracking

func (s *SQLiteDatabase) CreateBackupOperation(operation string, parameters string) (*journal.BackupOperation, error) {
	op, err := s.queries.InsertBackupOperation(context.Background(), sqlc.InsertBackupOperationParams{
		StartedAt:  s.clock.Now().UTC(),
		Operation:  operation,
		Parameters: parameters,
	})
	if err != nil {
		return nil, fmt.Errorf("creating backup operation: %w", err)
	}
	return toBackupOperation(op), nil
}

func (s *SQLiteDatabase) FinishBackupOperation(id int64, status string) error {
	err := s.queries.UpdateBackupOperationFinished(context.Background(), sqlc.UpdateBackupOperationFinishedParams{
		FinishedAt: sql.NullTime{Time: s.clock.Now().UTC(), Valid: true},
		Status:     status,
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing backup operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListBackupOperations(limit int) ([]*journal.BackupOperation, error) {
	ops, err := s.queries.GetBackupOperations(context.Background(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing backup operations: %w", err)
	}

	result := make([]*journal.BackupOperation, len(ops))
	for i := range ops {
		result[i] = toBackupOperation(ops[i])
	}
	return result, nil
}

func (s *SQLiteDatabase) MaxBackupOperationID() (int64, error) {
	id, err := s.queries.GetMaxBackupOperationID(context.Background())
	if err != nil {
		return 0, fmt.Errorf("getting max backup operation ID: %w", err)
	}
	return id, nil
}

func toBackupOperation(op sqlc.BackupOperation) *journal.BackupOperation {
	out := &journal.BackupOperation{
		ID:         op.ID,
		Operation:  op.Operation,
		Parameters: op.Parameters,
		Status:     op.Status,
		StartedAt:  op.StartedAt,
	}
	if op.FinishedAt.Valid {
		t := op.FinishedAt.Time
		out.FinishedAt = &t
	}
	return out
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// SchemaStatus reports the schema version against the migrations built into
// the binary.
func (s *SQLiteDatabase) SchemaStatus() (migrations.Status, error) {
	return migrations.ReadStatus(s.db)
}

// Migrate applies pending migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteDatabase implements journal.Database interface
var _ journal.Database = (*SQLiteDatabase)(nil)
