// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

// Package library implements the write side of the reading log: adding
// books from the catalog, editing book fields and guides, recording reading
// sessions and hiding catalog arrivals.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookpath/internal/catalog"
	"github.com/tomtom215/bookpath/internal/database"
	"github.com/tomtom215/bookpath/internal/guide"
	"github.com/tomtom215/bookpath/internal/logging"
	"github.com/tomtom215/bookpath/internal/models"
)

var (
	// ErrInvalidInput marks a request the caller must fix.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCatalogUnavailable is returned when an operation needs the catalog
	// and it is not configured or the lookup failed upstream.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrGuideFailed is returned when a requested guide could not be
	// generated.
	ErrGuideFailed = errors.New("guide generation failed")
)

// Store defines the storage operations the library needs.
type Store interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id string) (models.Book, error)
	FindBookByISBN(ctx context.Context, isbn string) (models.Book, error)
	InsertBook(ctx context.Context, b models.Book) (models.Book, error)
	UpdateBook(ctx context.Context, id string, patch models.BookPatch) (models.Book, error)

	ListReadingLogs(ctx context.Context) ([]models.ReadingLog, error)
	InsertReadingLog(ctx context.Context, in models.ReadingLogInput) (models.ReadingLog, error)
	UpdateReadingLog(ctx context.Context, id string, in models.ReadingLogInput) (models.ReadingLog, error)

	ExcludeISBN(ctx context.Context, e models.ExcludedISBN) error
}

// MemoQueue schedules asynchronous memo summaries.
type MemoQueue interface {
	Enqueue(logID, memo string) bool
}

// Service coordinates storage, the catalog and guide generation.
type Service struct {
	store   Store
	catalog catalog.Catalog
	guides  *guide.Generator
	memos   MemoQueue
	logger  zerolog.Logger
}

// Options wires the optional collaborators. Nil fields disable the
// features that need them.
type Options struct {
	Catalog catalog.Catalog
	Guides  *guide.Generator
	Memos   MemoQueue
}

// NewService creates the library service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(store Store, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		store:   store,
		catalog: opts.Catalog,
		guides:  opts.Guides,
		memos:   opts.Memos,
		logger:  logging.ForComponent(logger, logging.ComponentLibrary),
	}
}

// ListBooks returns every stored book.
func (s *Service) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.store.ListBooks(ctx)
}

// ListReadingLogs returns every reading log.
func (s *Service) ListReadingLogs(ctx context.Context) ([]models.ReadingLog, error) {
	return s.store.ListReadingLogs(ctx)
}

// AddResult reports the outcome of AddInterestedBook.
type AddResult struct {
	BookID string `json:"bookId"`
	IsNew  bool   `json:"isNew"`
}

// AddInterestedBook makes sure a book with the given ISBN is stored. A
// matching stored book is reused. Otherwise the catalog record is fetched,
// a guide is generated and the book is inserted with interested unset.
func (s *Service) AddInterestedBook(ctx context.Context, isbn string) (AddResult, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return AddResult{}, fmt.Errorf("%w: isbn is required", ErrInvalidInput)
	}

	existing, err := s.store.FindBookByISBN(ctx, isbn)
	switch {
	case err == nil:
		return AddResult{BookID: existing.ID, IsNew: false}, nil
	case !errors.Is(err, database.ErrNotFound):
		return AddResult{}, fmt.Errorf("find book: %w", err)
	}

	if s.catalog == nil {
		return AddResult{}, ErrCatalogUnavailable
	}
	item, err := s.catalog.LookupByISBN(ctx, isbn)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return AddResult{}, err
	case err != nil:
		return AddResult{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	g := s.guides.ForCatalogItem(ctx, item)
	book := models.Book{
		ISBN:        item.PreferredISBN(),
		Title:       item.Title,
		Author:      item.Author,
		Publisher:   item.Publisher,
		PubYear:     item.PubYear(),
		CoverImage:  item.Cover,
		Description: item.Description,
		Themes:      g.Themes,
		AgeRange:    g.AgeRange,
		ParentGuide: g.ParentGuide,
		Activities:  g.Activities,
		Interested:  false,
	}
	stored, err := s.store.InsertBook(ctx, book)
	if err != nil {
		return AddResult{}, fmt.Errorf("insert book: %w", err)
	}

	log := logging.FromContext(ctx, s.logger)
	log.Info().
		Str("book_id", stored.ID).
		Str("isbn", stored.ISBN).
		Bool("guide", !g.IsEmpty()).
		Msg("Added book from catalog")
	return AddResult{BookID: stored.ID, IsNew: true}, nil
}

// UpdateBookFields applies Korean-keyed legacy fields to a book.
func (s *Service) UpdateBookFields(ctx context.Context, id string, fields map[string]interface{}) (models.Book, error) {
	if strings.TrimSpace(id) == "" {
		return models.Book{}, fmt.Errorf("%w: book id is required", ErrInvalidInput)
	}
	if len(fields) == 0 {
		return models.Book{}, fmt.Errorf("%w: fields are required", ErrInvalidInput)
	}
	return s.store.UpdateBook(ctx, id, models.BookPatchFromLegacy(fields))
}

// RegenerateGuide rewrites the guide of a stored book. Title and author
// default to the stored values. When the stored description is empty the
// catalog is searched by title to give the prompt more context.
func (s *Service) RegenerateGuide(ctx context.Context, id, title, author string) (models.Book, guide.Guide, error) {
	if strings.TrimSpace(id) == "" {
		return models.Book{}, guide.Guide{}, fmt.Errorf("%w: book id is required", ErrInvalidInput)
	}
	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		return models.Book{}, guide.Guide{}, err
	}
	if title = strings.TrimSpace(title); title == "" {
		title = book.Title
	}
	if title == "" {
		return models.Book{}, guide.Guide{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if author = strings.TrimSpace(author); author == "" {
		author = book.Author
	}

	info := guide.BookInfo{Title: title, Author: author, Description: book.Description}
	if info.Description == "" {
		info.Description = s.searchDescription(ctx, title)
	}

	g, err := s.guides.Regenerate(ctx, info)
	if err != nil {
		return models.Book{}, guide.Guide{}, fmt.Errorf("%w: %w", ErrGuideFailed, err)
	}

	patch := g.Patch()
	if book.Description == "" && info.Description != "" {
		patch.Description = &info.Description
	}
	updated, err := s.store.UpdateBook(ctx, id, patch)
	if err != nil {
		return models.Book{}, guide.Guide{}, err
	}
	return updated, g, nil
}

func (s *Service) searchDescription(ctx context.Context, title string) string {
	if s.catalog == nil {
		return ""
	}
	items, err := s.catalog.SearchByTitle(ctx, title)
	if err != nil {
		log := logging.FromContext(ctx, s.logger)
		log.Warn().Err(err).Str("title", title).Msg("Catalog search for guide context failed")
		return ""
	}
	for _, it := range items {
		if it.Description != "" {
			return it.Description
		}
	}
	return ""
}

// CreateReadingLog records a reading session from legacy log data and
// schedules a memo summary when the memo is not blank.
func (s *Service) CreateReadingLog(ctx context.Context, bookID string, data map[string]interface{}) (models.ReadingLog, error) {
	in, err := readingLogInput(bookID, data)
	if err != nil {
		return models.ReadingLog{}, err
	}
	l, err := s.store.InsertReadingLog(ctx, in)
	if err != nil {
		return models.ReadingLog{}, err
	}
	s.scheduleMemo(ctx, l)
	return l, nil
}

// UpdateReadingLog replaces a reading session and re-summarizes its memo.
func (s *Service) UpdateReadingLog(ctx context.Context, id, bookID string, data map[string]interface{}) (models.ReadingLog, error) {
	if strings.TrimSpace(id) == "" {
		return models.ReadingLog{}, fmt.Errorf("%w: record id is required", ErrInvalidInput)
	}
	in, err := readingLogInput(bookID, data)
	if err != nil {
		return models.ReadingLog{}, err
	}
	l, err := s.store.UpdateReadingLog(ctx, id, in)
	if err != nil {
		return models.ReadingLog{}, err
	}
	s.scheduleMemo(ctx, l)
	return l, nil
}

func readingLogInput(bookID string, data map[string]interface{}) (models.ReadingLogInput, error) {
	if strings.TrimSpace(bookID) == "" || data == nil {
		return models.ReadingLogInput{}, fmt.Errorf("%w: bookId and logData required", ErrInvalidInput)
	}
	return models.ReadingLogInputFromLegacy(bookID, data), nil
}

func (s *Service) scheduleMemo(ctx context.Context, l models.ReadingLog) {
	if s.memos == nil || strings.TrimSpace(l.Memo) == "" {
		return
	}
	if !s.memos.Enqueue(l.ID, l.Memo) {
		log := logging.FromContext(ctx, s.logger)
		log.Warn().Str("log_id", l.ID).Msg("Memo summary not scheduled")
	}
}

// Exclusion is a request to hide a catalog ISBN from new arrivals.
type Exclusion struct {
	ISBN13 string
	ISBN   string
	Title  string
	Reason string
	UserID string
}

// ExcludeCatalogBook hides a catalog ISBN for a user (default user when
// empty). The ISBN is normalized before storing.
func (s *Service) ExcludeCatalogBook(ctx context.Context, e Exclusion) error {
	raw := e.ISBN13
	if raw == "" {
		raw = e.ISBN
	}
	isbn := models.NormalizeISBN(raw)
	if isbn == "" {
		return fmt.Errorf("%w: isbn is required", ErrInvalidInput)
	}
	userID := strings.TrimSpace(e.UserID)
	if userID == "" {
		userID = models.DefaultUserID
	}
	return s.store.ExcludeISBN(ctx, models.ExcludedISBN{
		UserID: userID,
		ISBN13: isbn,
		Title:  e.Title,
		Reason: e.Reason,
	})
}
