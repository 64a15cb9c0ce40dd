// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/bookpath/internal/logging"
)

// Migration represents a versioned database migration.
type Migration struct {
	Version     int       // Unique version number (monotonically increasing)
	Name        string    // Human-readable migration name
	Description string    // Description of what this migration does
	SQL         string    // Single SQL statement to execute
	AppliedAt   time.Time // When the migration was applied (populated on query)
}

// schemaMigrationsTable creates the migration tracking table.
// applied_at is written by the application; DuckDB's CURRENT_TIMESTAMP is
// timezone-aware and would need the ICU extension to cast.
const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TIMESTAMP NOT NULL
)`

// migrations is the ordered, append-only schema history. The column layout
// follows the hosted Postgres tables the first deployment used, so an
// existing Supabase database can be pointed at directly.
//
// Never modify or remove an entry once it has shipped.
var migrations = []Migration{
	{
		Version:     1,
		Name:        "create_books",
		Description: "Picture books with generated guide fields",
		SQL: `CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY,
	isbn TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	author TEXT NOT NULL DEFAULT '',
	publisher TEXT NOT NULL DEFAULT '',
	pub_year INTEGER,
	cover_image TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	themes TEXT NOT NULL DEFAULT '',
	age_range TEXT NOT NULL DEFAULT '',
	parent_guide TEXT NOT NULL DEFAULT '',
	activities TEXT NOT NULL DEFAULT '',
	interested BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL
)`,
	},
	{
		Version:     2,
		Name:        "create_reading_logs",
		Description: "One row per reading session",
		SQL: `CREATE TABLE IF NOT EXISTS reading_logs (
	id TEXT PRIMARY KEY,
	book_id TEXT NOT NULL,
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	child_reaction TEXT NOT NULL DEFAULT '',
	memo TEXT NOT NULL DEFAULT '',
	question_level TEXT NOT NULL DEFAULT '',
	focus_level TEXT NOT NULL DEFAULT '',
	memo_summary TEXT,
	read_date DATE,
	created_at TIMESTAMP NOT NULL
)`,
	},
	{
		Version:     3,
		Name:        "create_excluded_aladin_isbns",
		Description: "Catalog ISBNs hidden from new arrival lists",
		SQL: `CREATE TABLE IF NOT EXISTS excluded_aladin_isbns (
	user_id TEXT NOT NULL,
	isbn13 TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	UNIQUE (user_id, isbn13)
)`,
	},
	{
		Version:     4,
		Name:        "index_books_isbn",
		Description: "ISBN lookups on add-interested and new arrival matching",
		SQL:         `CREATE INDEX IF NOT EXISTS idx_books_isbn ON books (isbn)`,
	},
	{
		Version:     5,
		Name:        "index_reading_logs_book_id",
		Description: "Per-book log lookups",
		SQL:         `CREATE INDEX IF NOT EXISTS idx_reading_logs_book_id ON reading_logs (book_id)`,
	},
}

// createMigrationsTable creates the schema_migrations table if it doesn't exist
func (db *DB) createMigrationsTable(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, schemaMigrationsTable)
	return err
}

// getAppliedMigrations returns a map of version -> Migration for all applied migrations
func (db *DB) getAppliedMigrations(ctx context.Context) (map[int]Migration, error) {
	history, err := db.migrationHistory(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[int]Migration, len(history))
	for _, m := range history {
		applied[m.Version] = m
	}
	return applied, nil
}

// runVersionedMigrations executes only the migrations that haven't been
// applied yet, in version order.
func (db *DB) runVersionedMigrations(ctx context.Context) error {
	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	newMigrations := 0
	for _, m := range migrations {
		if _, exists := applied[m.Version]; exists {
			continue
		}

		if _, err := db.conn.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("failed to execute migration v%d (%s): %w", m.Version, m.Name, err)
		}

		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, description, applied_at) VALUES ($1, $2, $3, $4)`,
			m.Version, m.Name, m.Description, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}

		newMigrations++
	}

	if newMigrations > 0 {
		logging.Info().Int("count", newMigrations).Msg("Applied database migrations")
	}
	return nil
}

// CurrentSchemaVersion returns the highest applied migration version
func (db *DB) CurrentSchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := db.conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// MigrationHistory returns all applied migrations in order.
func (db *DB) MigrationHistory(ctx context.Context) ([]Migration, error) {
	return db.migrationHistory(ctx)
}

func (db *DB) migrationHistory(ctx context.Context) ([]Migration, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT version, name, COALESCE(description, ''), applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}
	defer closeQuietly(rows)

	var history []Migration
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		history = append(history, m)
	}
	return history, rows.Err()
}
