// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/bookpath/internal/models"
)

// ExcludeISBN hides a catalog ISBN for a user. Excluding the same ISBN again
// refreshes its title and reason.
func (db *DB) ExcludeISBN(ctx context.Context, e models.ExcludedISBN) error {
	if e.UserID == "" {
		e.UserID = models.DefaultUserID
	}
	if e.ISBN13 == "" {
		return fmt.Errorf("exclusion requires an isbn")
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO excluded_aladin_isbns (user_id, isbn13, title, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, isbn13) DO UPDATE SET title = EXCLUDED.title, reason = EXCLUDED.reason`,
		e.UserID, e.ISBN13, e.Title, e.Reason, time.Now().UTC())
	observe("upsert", "excluded_aladin_isbns", start, err)
	if err != nil {
		return fmt.Errorf("failed to exclude isbn %s: %w", e.ISBN13, err)
	}
	return nil
}

// ExcludedISBNs returns the set of ISBNs the user excluded.
func (db *DB) ExcludedISBNs(ctx context.Context, userID string) (map[string]bool, error) {
	if userID == "" {
		userID = models.DefaultUserID
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT isbn13 FROM excluded_aladin_isbns WHERE user_id = $1`, userID)
	if err != nil {
		observe("select", "excluded_aladin_isbns", start, err)
		return nil, fmt.Errorf("failed to query exclusions: %w", err)
	}
	defer closeWithLog(rows, "exclusion rows")

	out := make(map[string]bool)
	for rows.Next() {
		var isbn string
		if err := rows.Scan(&isbn); err != nil {
			observe("select", "excluded_aladin_isbns", start, err)
			return nil, fmt.Errorf("failed to scan exclusion: %w", err)
		}
		out[isbn] = true
	}
	err = rows.Err()
	observe("select", "excluded_aladin_isbns", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate exclusions: %w", err)
	}
	return out, nil
}
