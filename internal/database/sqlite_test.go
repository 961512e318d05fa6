package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"journal-go/internal/journal"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct{ n int }

func (g *seqIDs) New() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// newTestDB creates a new in-memory database with schema applied.
func newTestDB(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db, err := NewSQLiteDatabase(":memory:", fixedClock{time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}, &seqIDs{})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	if _, err := db.db.Exec(Schema); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func strPtr(s string) *string { return &s }

func createTestEntry(t *testing.T, db *SQLiteDatabase, title string, date journal.Date) string {
	t.Helper()
	id, err := db.Create(context.Background(), &journal.Entry{
		Title:       title,
		Content:     "content of " + title,
		Type:        journal.TypeSpontaneous,
		StateOfMind: journal.MoodNeutral,
		CreatedAt:   date,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return id
}

func TestSQLiteDatabase_Create(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	tests := []struct {
		name  string
		entry *journal.Entry
	}{
		{
			name: "spontaneous without secondary",
			entry: &journal.Entry{
				Title:       "Første dag",
				Content:     "Mødte holdet.",
				Type:        journal.TypeSpontaneous,
				StateOfMind: journal.MoodPositive,
				CreatedAt:   "2024-01-15",
			},
		},
		{
			name: "reflection with secondary",
			entry: &journal.Entry{
				Title:            "Uge 3",
				Content:          "Hvad lærte jeg?",
				SecondaryContent: strPtr("Kort note"),
				Type:             journal.TypeReflection,
				StateOfMind:      journal.MoodNegative,
				CreatedAt:        "2024-01-17",
			},
		},
		{
			name: "empty secondary is kept distinct from absent",
			entry: &journal.Entry{
				Title:            "Tom",
				SecondaryContent: strPtr(""),
				Type:             journal.TypeSpontaneous,
				StateOfMind:      journal.MoodNeutral,
				CreatedAt:        "2024-01-18",
			},
		},
		{
			name: "unparseable date is stored as-is",
			entry: &journal.Entry{
				Title:       "Legacy",
				Type:        journal.TypeSpontaneous,
				StateOfMind: "glad",
				CreatedAt:   "sometime",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := db.Create(ctx, tt.entry)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if id == "" {
				t.Fatal("Create() returned empty id")
			}

			got, err := db.Get(ctx, id)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Title != tt.entry.Title || got.Content != tt.entry.Content {
				t.Errorf("Get() = %q/%q, want %q/%q", got.Title, got.Content, tt.entry.Title, tt.entry.Content)
			}
			if got.Type != tt.entry.Type || got.StateOfMind != tt.entry.StateOfMind {
				t.Errorf("Get() type/mood = %s/%s, want %s/%s", got.Type, got.StateOfMind, tt.entry.Type, tt.entry.StateOfMind)
			}
			if got.CreatedAt != tt.entry.CreatedAt {
				t.Errorf("CreatedAt = %q, want %q", got.CreatedAt, tt.entry.CreatedAt)
			}
			if got.HasSecondary() != tt.entry.HasSecondary() || got.Secondary() != tt.entry.Secondary() {
				t.Errorf("SecondaryContent = %v, want %v", got.SecondaryContent, tt.entry.SecondaryContent)
			}
			if got.UpdatedAt.IsZero() {
				t.Error("UpdatedAt should be set by Create")
			}
		})
	}
}

func TestSQLiteDatabase_CreateAssignsIDs(t *testing.T) {
	db := newTestDB(t)

	first := createTestEntry(t, db, "a", "2024-01-15")
	second := createTestEntry(t, db, "b", "2024-01-16")

	if first != "id-1" || second != "id-2" {
		t.Errorf("ids = %q, %q, want id-1, id-2", first, second)
	}
}

func TestSQLiteDatabase_ReadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		db := newTestDB(t)
		entries, err := db.ReadAll(ctx)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("ReadAll() returned %d entries, want 0", len(entries))
		}
	})

	t.Run("insertion order", func(t *testing.T) {
		db := newTestDB(t)
		createTestEntry(t, db, "late", "2024-03-01")
		createTestEntry(t, db, "early", "2024-01-01")
		createTestEntry(t, db, "middle", "2024-02-01")

		entries, err := db.ReadAll(ctx)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		want := []string{"late", "early", "middle"}
		if len(entries) != len(want) {
			t.Fatalf("ReadAll() returned %d entries, want %d", len(entries), len(want))
		}
		for i, e := range entries {
			if e.Title != want[i] {
				t.Errorf("entries[%d].Title = %q, want %q", i, e.Title, want[i])
			}
		}
	})
}

func TestSQLiteDatabase_Get_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Get(context.Background(), "missing")
	if !errors.Is(err, journal.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteDatabase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial patch leaves other fields", func(t *testing.T) {
		db := newTestDB(t)
		id := createTestEntry(t, db, "original", "2024-01-15")

		mood := journal.MoodNegative
		if err := db.Update(ctx, id, journal.EntryPatch{Title: strPtr("renamed"), StateOfMind: &mood}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, _ := db.Get(ctx, id)
		if got.Title != "renamed" {
			t.Errorf("Title = %q, want renamed", got.Title)
		}
		if got.StateOfMind != journal.MoodNegative {
			t.Errorf("StateOfMind = %q, want negative", got.StateOfMind)
		}
		if got.Content != "content of original" {
			t.Errorf("Content = %q, should be unchanged", got.Content)
		}
		if got.CreatedAt != "2024-01-15" {
			t.Errorf("CreatedAt = %q, should be unchanged", got.CreatedAt)
		}
	})

	t.Run("set and clear secondary", func(t *testing.T) {
		db := newTestDB(t)
		id := createTestEntry(t, db, "entry", "2024-01-15")

		if err := db.Update(ctx, id, journal.EntryPatch{SecondaryContent: strPtr("reflection")}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, _ := db.Get(ctx, id)
		if got.Secondary() != "reflection" {
			t.Errorf("Secondary() = %q, want reflection", got.Secondary())
		}

		if err := db.Update(ctx, id, journal.EntryPatch{SecondaryContent: strPtr("")}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, _ = db.Get(ctx, id)
		if got.HasSecondary() {
			t.Errorf("SecondaryContent = %q, want nil", got.Secondary())
		}
	})

	t.Run("stamps updated_at", func(t *testing.T) {
		db := newTestDB(t)
		id := createTestEntry(t, db, "entry", "2024-01-15")

		stamp := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
		if err := db.Update(ctx, id, journal.EntryPatch{Title: strPtr("x"), UpdatedAt: stamp}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, _ := db.Get(ctx, id)
		if !got.UpdatedAt.Equal(stamp) {
			t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, stamp)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		db := newTestDB(t)
		err := db.Update(ctx, "missing", journal.EntryPatch{Title: strPtr("x")})
		if !errors.Is(err, journal.ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteDatabase_Delete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	keep := createTestEntry(t, db, "keep", "2024-01-15")
	drop := createTestEntry(t, db, "drop", "2024-01-16")

	if err := db.Delete(ctx, drop); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := db.Get(ctx, drop); !errors.Is(err, journal.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := db.Get(ctx, keep); err != nil {
		t.Errorf("Get() of remaining entry error = %v", err)
	}

	if err := db.Delete(ctx, drop); !errors.Is(err, journal.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}

	n, err := db.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestSQLiteDatabase_BackupOperations(t *testing.T) {
	t.Run("create and list operations", func(t *testing.T) {
		db := newTestDB(t)

		op1, err := db.CreateBackupOperation("backup", "offsite")
		if err != nil {
			t.Fatalf("CreateBackupOperation() error = %v", err)
		}
		if op1.ID == 0 {
			t.Error("operation ID should be non-zero")
		}
		if op1.Operation != "backup" {
			t.Errorf("Operation = %q, want %q", op1.Operation, "backup")
		}
		if op1.Status != "running" {
			t.Errorf("Status = %q, want running", op1.Status)
		}

		op2, err := db.CreateBackupOperation("restore", "offsite")
		if err != nil {
			t.Fatalf("CreateBackupOperation() error = %v", err)
		}

		ops, err := db.ListBackupOperations(10)
		if err != nil {
			t.Fatalf("ListBackupOperations() error = %v", err)
		}
		if len(ops) != 2 {
			t.Fatalf("got %d operations, want 2", len(ops))
		}

		// Newest first
		if ops[0].ID != op2.ID {
			t.Errorf("expected newest first: got ID %d, want %d", ops[0].ID, op2.ID)
		}
	})

	t.Run("finish operation sets status and time", func(t *testing.T) {
		db := newTestDB(t)

		op, _ := db.CreateBackupOperation("backup", "")
		if err := db.FinishBackupOperation(op.ID, "success"); err != nil {
			t.Fatalf("FinishBackupOperation() error = %v", err)
		}

		ops, _ := db.ListBackupOperations(1)
		if ops[0].Status != "success" {
			t.Errorf("Status = %q, want %q", ops[0].Status, "success")
		}
		if ops[0].FinishedAt == nil {
			t.Error("FinishedAt should be set")
		}
	})

	t.Run("max operation ID", func(t *testing.T) {
		db := newTestDB(t)

		maxID, err := db.MaxBackupOperationID()
		if err != nil {
			t.Fatalf("MaxBackupOperationID() error = %v", err)
		}
		if maxID != 0 {
			t.Errorf("MaxBackupOperationID() = %d, want 0", maxID)
		}

		db.CreateBackupOperation("op1", "")
		op2, _ := db.CreateBackupOperation("op2", "")

		maxID, err = db.MaxBackupOperationID()
		if err != nil {
			t.Fatalf("MaxBackupOperationID() error = %v", err)
		}
		if maxID != op2.ID {
			t.Errorf("MaxBackupOperationID() = %d, want %d", maxID, op2.ID)
		}
	})
}

func TestSQLiteDatabase_BackupTo(t *testing.T) {
	db := newTestDB(t)
	id := createTestEntry(t, db, "kept in backup", "2024-01-15")

	destPath := filepath.Join(t.TempDir(), "backup.db")
	if err := db.BackupTo(destPath); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}

	backup, err := NewSQLiteDatabase(destPath, nil, nil)
	if err != nil {
		t.Fatalf("opening backup: %v", err)
	}
	defer backup.Close()

	got, err := backup.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() from backup error = %v", err)
	}
	if got.Title != "kept in backup" {
		t.Errorf("backup Title = %q, want %q", got.Title, "kept in backup")
	}
}

func TestSQLiteDatabase_CheckMigrations(t *testing.T) {
	t.Run("fails on DB without migrations applied", func(t *testing.T) {
		db, err := NewSQLiteDatabase(":memory:", nil, nil)
		if err != nil {
			t.Fatalf("NewSQLiteDatabase() error = %v", err)
		}
		defer db.Close()

		if err := db.CheckMigrations(); err == nil {
			t.Error("CheckMigrations() expected error for missing schema")
		}
	})

	t.Run("passes after Migrate", func(t *testing.T) {
		db, err := NewSQLiteDatabase(":memory:", nil, nil)
		if err != nil {
			t.Fatalf("NewSQLiteDatabase() error = %v", err)
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			t.Fatalf("Migrate() error = %v", err)
		}
		if err := db.CheckMigrations(); err != nil {
			t.Errorf("CheckMigrations() error = %v", err)
		}
	})
}
