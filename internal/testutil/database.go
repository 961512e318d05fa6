package testutil

import (
	"testing"

	"journal-go/internal/database"
	"journal-go/internal/journal"
)

// NewTestDatabase creates a new in-memory SQLite database with schema applied.
// The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T) journal.Database {
	t.Helper()
	return NewTestDatabaseWith(t, nil, nil)
}

// NewTestDatabaseWith is NewTestDatabase with a pinned clock and id
// generator. Either may be nil.
func NewTestDatabaseWith(t *testing.T, clock journal.Clock, idgen journal.IDGenerator) journal.Database {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if _, err := sqlDB.Exec(database.Schema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	db := database.NewSQLiteDatabaseFromDB(sqlDB, clock, idgen)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
