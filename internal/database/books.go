// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/bookpath/internal/models"
)

const bookColumns = `id, isbn, title, author, publisher, pub_year, cover_image, description,
	themes, age_range, parent_guide, activities, interested, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBook reads interested loosely: tables imported from the spreadsheet
// era keep it as text ("yes", "관심", "O") rather than BOOLEAN.
func scanBook(s rowScanner) (models.Book, error) {
	var (
		b          models.Book
		pubYear    sql.NullInt64
		interested interface{}
	)
	err := s.Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Publisher, &pubYear, &b.CoverImage,
		&b.Description, &b.Themes, &b.AgeRange, &b.ParentGuide, &b.Activities, &interested, &b.CreatedAt)
	if err != nil {
		return models.Book{}, err
	}
	b.Interested = models.IsAffirmative(interested)
	if pubYear.Valid {
		y := int(pubYear.Int64)
		b.PubYear = &y
	}
	return b, nil
}

// ListBooks returns every book ordered by creation time. Rows are fetched in
// pages of the configured size until a short page is returned.
func (db *DB) ListBooks(ctx context.Context) ([]models.Book, error) {
	start := time.Now()
	var books []models.Book
	for offset := 0; ; offset += db.pageSize {
		page, err := db.listBooksPage(ctx, db.pageSize, offset)
		if err != nil {
			observe("select", "books", start, err)
			return nil, err
		}
		books = append(books, page...)
		if len(page) < db.pageSize {
			break
		}
	}
	observe("select", "books", start, nil)
	return books, nil
}

func (db *DB) listBooksPage(ctx context.Context, limit, offset int) ([]models.Book, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer closeWithLog(rows, "books rows")

	page := make([]models.Book, 0, limit)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		page = append(page, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}
	return page, nil
}

// GetBook returns the book with the given id, or ErrNotFound.
func (db *DB) GetBook(ctx context.Context, id string) (models.Book, error) {
	start := time.Now()
	b, err := scanBook(db.conn.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	observe("select", "books", start, ignoreNoRows(err))
	if err != nil {
		return models.Book{}, notFound(err, "book", id)
	}
	return b, nil
}

// FindBookByISBN returns the first book whose stored ISBN equals isbn as
// given or in its normalized (digits and X) form.
func (db *DB) FindBookByISBN(ctx context.Context, isbn string) (models.Book, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return models.Book{}, fmt.Errorf("book with empty isbn: %w", ErrNotFound)
	}
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE isbn = $1 OR isbn = $2 ORDER BY created_at, id LIMIT 1`,
		isbn, models.NormalizeISBN(isbn))
	b, err := scanBook(row)
	observe("select", "books", start, ignoreNoRows(err))
	if err != nil {
		return models.Book{}, notFound(err, "book isbn", isbn)
	}
	return b, nil
}

// InsertBook stores b and returns it with its generated id and creation
// time. A non-empty b.ID is kept.
func (db *DB) InsertBook(ctx context.Context, b models.Book) (models.Book, error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO books (`+bookColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		b.ID, b.ISBN, b.Title, b.Author, b.Publisher, nullInt(b.PubYear), b.CoverImage, b.Description,
		b.Themes, b.AgeRange, b.ParentGuide, b.Activities, b.Interested, b.CreatedAt)
	observe("insert", "books", start, err)
	if err != nil {
		return models.Book{}, fmt.Errorf("failed to insert book: %w", err)
	}
	return b, nil
}

// UpdateBook applies the non-nil fields of patch to the book with the given
// id and returns the updated record.
func (db *DB) UpdateBook(ctx context.Context, id string, patch models.BookPatch) (models.Book, error) {
	if patch.IsEmpty() {
		return db.GetBook(ctx, id)
	}

	var (
		sets []string
		args []interface{}
	)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	addStr := func(column string, value *string) {
		if value != nil {
			add(column, *value)
		}
	}

	addStr("isbn", patch.ISBN)
	addStr("title", patch.Title)
	addStr("author", patch.Author)
	addStr("publisher", patch.Publisher)
	if patch.PubYear != nil {
		add("pub_year", *patch.PubYear)
	}
	addStr("cover_image", patch.CoverImage)
	addStr("description", patch.Description)
	addStr("themes", patch.Themes)
	addStr("age_range", patch.AgeRange)
	addStr("parent_guide", patch.ParentGuide)
	addStr("activities", patch.Activities)
	if patch.Interested != nil {
		add("interested", *patch.Interested)
	}

	args = append(args, id)
	query := `UPDATE books SET ` + strings.Join(sets, ", ") + ` WHERE id = $` + strconv.Itoa(len(args))

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, query, args...)
	observe("update", "books", start, err)
	if err != nil {
		return models.Book{}, fmt.Errorf("failed to update book %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Book{}, fmt.Errorf("book %q: %w", id, ErrNotFound)
	}
	return db.GetBook(ctx, id)
}

func nullInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return int64(*v)
}
