package database

import (
	"fmt"
	"os"
	"path/filepath"

	"journal-go/internal/config"
	"journal-go/internal/journal"
)

// NewDatabaseFromConfig creates a Database implementation based on the database
// config type and brings its schema up to date.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, hostID string) (journal.Database, error) {
	var path string
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		path = DatabasePath(cfg, hostID)
	case "memory":
		path = ":memory:"
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}

	db, err := NewSQLiteDatabase(path, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db, nil
}

// DatabasePath returns the file a sqlite config stores its entries in.
func DatabasePath(cfg config.DatabaseConfig, hostID string) string {
	return filepath.Join(cfg.DataDir, hostID+".db")
}
