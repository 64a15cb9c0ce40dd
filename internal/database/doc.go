// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package database stores books, reading logs and catalog exclusions.

Two drivers are supported behind one *DB:

  - duckdb (default): an embedded file, or ":memory:" for tests and demos
  - postgres: any Postgres reachable through pgx, including the Supabase
    schema the first deployment used

Both accept $n placeholders, so every statement is written once.

# Schema

	books                  id, isbn, title, author, publisher, pub_year, cover_image,
	                       description, themes, age_range, parent_guide, activities,
	                       interested, created_at
	reading_logs           id, book_id, completed, child_reaction, memo, question_level,
	                       focus_level, memo_summary, read_date, created_at
	excluded_aladin_isbns  user_id, isbn13, title, reason, created_at
	                       UNIQUE (user_id, isbn13)

Schema changes are versioned migrations recorded in schema_migrations and
applied at open (see migrations.go).

# Listing

ListBooks and ListReadingLogs read the full table in pages of
StorageConfig.PageSize rows (default 1000) and stop at the first short page.
The recommendation engine needs the whole history for every request.

# Errors

Lookups that find nothing return an error wrapping ErrNotFound:

	book, err := db.GetBook(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		// 404
	}

Every statement is timed into db_query_duration_seconds, labeled by
operation and table.
*/
package database
