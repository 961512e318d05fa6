// Command generate_schema migrates an in-memory database and writes the
// resulting schema for sqlc and the tests.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"journal-go/internal/database"
	"journal-go/internal/database/migrations"
)

const schemaQuery = `
	SELECT sql || ';'
	FROM sqlite_master
	WHERE type IN ('table', 'index')
	  AND name NOT LIKE 'sqlite_%'
	  AND tbl_name != 'schema_migrations'
	ORDER BY CASE type WHEN 'table' THEN 1 ELSE 2 END, name`

func main() {
	out := flag.String("o", filepath.Join("internal", "database", "sqlc", "schema.sql"), "output file")
	flag.Parse()

	if err := run(*out); err != nil {
		fmt.Fprintf(os.Stderr, "generate_schema: %v\n", err)
		os.Exit(1)
	}
}

func run(out string) error {
	db, err := database.OpenConnection(":memory:")
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return err
	}
	version, err := migrations.LatestVersion()
	if err != nil {
		return err
	}

	schema, err := dumpSchema(db, version)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, []byte(schema), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("wrote %s (schema version %d)\n", out, version)
	return nil
}

// dumpSchema collects the CREATE statements of every table and index except
// the migration bookkeeping.
func dumpSchema(db *sql.DB, version uint) (string, error) {
	rows, err := db.Query(schemaQuery)
	if err != nil {
		return "", fmt.Errorf("querying sqlite_master: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	b.WriteString("-- This file is auto-generated from migration files.\n")
	b.WriteString("-- DO NOT EDIT MANUALLY. Run 'go generate ./internal/database' to regenerate.\n")
	b.WriteString("-- Source: internal/database/migrations/files/*.sql\n")
	fmt.Fprintf(&b, "-- Schema version: %d\n\n", version)
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", fmt.Errorf("scanning statement: %w", err)
		}
		b.WriteString(stmt)
		b.WriteString("\n\n")
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}
