// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/bookpath/internal/models"
)

const readingLogColumns = `id, book_id, completed, child_reaction, memo, question_level, focus_level,
	memo_summary, read_date, created_at`

func scanReadingLog(s rowScanner) (models.ReadingLog, error) {
	var (
		l        models.ReadingLog
		summary  sql.NullString
		readDate sql.NullTime
	)
	err := s.Scan(&l.ID, &l.BookID, &l.Completed, &l.ChildReaction, &l.Memo, &l.QuestionLevel,
		&l.FocusLevel, &summary, &readDate, &l.CreatedAt)
	if err != nil {
		return models.ReadingLog{}, err
	}
	l.MemoSummary = summary.String
	if readDate.Valid {
		d := dateOnly(readDate.Time)
		l.ReadDate = &d
	}
	return l, nil
}

// ListReadingLogs returns every reading log in storage order (creation
// time, then id), paginated like ListBooks.
func (db *DB) ListReadingLogs(ctx context.Context) ([]models.ReadingLog, error) {
	start := time.Now()
	var logs []models.ReadingLog
	for offset := 0; ; offset += db.pageSize {
		page, err := db.listReadingLogsPage(ctx, db.pageSize, offset)
		if err != nil {
			observe("select", "reading_logs", start, err)
			return nil, err
		}
		logs = append(logs, page...)
		if len(page) < db.pageSize {
			break
		}
	}
	observe("select", "reading_logs", start, nil)
	return logs, nil
}

func (db *DB) listReadingLogsPage(ctx context.Context, limit, offset int) ([]models.ReadingLog, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+readingLogColumns+` FROM reading_logs ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query reading logs: %w", err)
	}
	defer closeWithLog(rows, "reading log rows")

	page := make([]models.ReadingLog, 0, limit)
	for rows.Next() {
		l, err := scanReadingLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading log: %w", err)
		}
		page = append(page, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reading logs: %w", err)
	}
	return page, nil
}

// GetReadingLog returns the log with the given id, or ErrNotFound.
func (db *DB) GetReadingLog(ctx context.Context, id string) (models.ReadingLog, error) {
	start := time.Now()
	l, err := scanReadingLog(db.conn.QueryRowContext(ctx,
		`SELECT `+readingLogColumns+` FROM reading_logs WHERE id = $1`, id))
	observe("select", "reading_logs", start, ignoreNoRows(err))
	if err != nil {
		return models.ReadingLog{}, notFound(err, "reading log", id)
	}
	return l, nil
}

// InsertReadingLog stores a new log and returns it.
func (db *DB) InsertReadingLog(ctx context.Context, in models.ReadingLogInput) (models.ReadingLog, error) {
	l := models.ReadingLog{
		ID:            uuid.New().String(),
		BookID:        in.BookID,
		Completed:     in.Completed,
		ChildReaction: in.ChildReaction,
		Memo:          in.Memo,
		QuestionLevel: in.QuestionLevel,
		FocusLevel:    in.FocusLevel,
		CreatedAt:     time.Now().UTC(),
	}
	if in.ReadDate != nil {
		d := dateOnly(*in.ReadDate)
		l.ReadDate = &d
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO reading_logs (`+readingLogColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		l.ID, l.BookID, l.Completed, l.ChildReaction, l.Memo, l.QuestionLevel, l.FocusLevel,
		nil, nullDate(l.ReadDate), l.CreatedAt)
	observe("insert", "reading_logs", start, err)
	if err != nil {
		return models.ReadingLog{}, fmt.Errorf("failed to insert reading log: %w", err)
	}
	return l, nil
}

// UpdateReadingLog replaces every writable field of the log. The memo
// summary is left as is; the caller re-summarizes when the memo changes.
func (db *DB) UpdateReadingLog(ctx context.Context, id string, in models.ReadingLogInput) (models.ReadingLog, error) {
	var readDate *time.Time
	if in.ReadDate != nil {
		d := dateOnly(*in.ReadDate)
		readDate = &d
	}

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE reading_logs SET book_id = $1, completed = $2, child_reaction = $3, memo = $4,
			question_level = $5, focus_level = $6, read_date = $7 WHERE id = $8`,
		in.BookID, in.Completed, in.ChildReaction, in.Memo, in.QuestionLevel, in.FocusLevel,
		nullDate(readDate), id)
	observe("update", "reading_logs", start, err)
	if err != nil {
		return models.ReadingLog{}, fmt.Errorf("failed to update reading log %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ReadingLog{}, fmt.Errorf("reading log %q: %w", id, ErrNotFound)
	}
	return db.GetReadingLog(ctx, id)
}

// SetMemoSummary attaches a summarized memo (a JSON object) to a log.
func (db *DB) SetMemoSummary(ctx context.Context, id string, summary models.MemoSummary) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE reading_logs SET memo_summary = $1 WHERE id = $2`, summary.JSON(), id)
	observe("update", "reading_logs", start, err)
	if err != nil {
		return fmt.Errorf("failed to store memo summary for %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("reading log %q: %w", id, ErrNotFound)
	}
	return nil
}

// dateOnly truncates t to midnight UTC of its calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func nullDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
