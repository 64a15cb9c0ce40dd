// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package library

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookpath/internal/catalog"
	"github.com/tomtom215/bookpath/internal/database"
	"github.com/tomtom215/bookpath/internal/guide"
	"github.com/tomtom215/bookpath/internal/models"
)

// memStore is an in-memory Store.
type memStore struct {
	mu       sync.Mutex
	books    map[string]models.Book
	logs     map[string]models.ReadingLog
	excluded []models.ExcludedISBN
	nextID   int
}

func newMemStore(books ...models.Book) *memStore {
	s := &memStore{books: make(map[string]models.Book), logs: make(map[string]models.ReadingLog)}
	for _, b := range books {
		s.books[b.ID] = b
	}
	return s
}

func (s *memStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *memStore) ListBooks(context.Context) ([]models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Book, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, b)
	}
	return out, nil
}

func (s *memStore) GetBook(_ context.Context, id string) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return models.Book{}, database.ErrNotFound
	}
	return b, nil
}

func (s *memStore) FindBookByISBN(_ context.Context, isbn string) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.books {
		if models.NormalizeISBN(b.ISBN) == models.NormalizeISBN(isbn) {
			return b, nil
		}
	}
	return models.Book{}, database.ErrNotFound
}

func (s *memStore) InsertBook(_ context.Context, b models.Book) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id("book")
	s.books[b.ID] = b
	return b, nil
}

func (s *memStore) UpdateBook(_ context.Context, id string, patch models.BookPatch) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return models.Book{}, database.ErrNotFound
	}
	patch.Apply(&b)
	s.books[id] = b
	return b, nil
}

func (s *memStore) ListReadingLogs(context.Context) ([]models.ReadingLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ReadingLog, 0, len(s.logs))
	for _, l := range s.logs {
		out = append(out, l)
	}
	return out, nil
}

func logFromInput(id string, in models.ReadingLogInput) models.ReadingLog {
	return models.ReadingLog{
		ID:            id,
		BookID:        in.BookID,
		Completed:     in.Completed,
		ChildReaction: in.ChildReaction,
		Memo:          in.Memo,
		QuestionLevel: in.QuestionLevel,
		FocusLevel:    in.FocusLevel,
		ReadDate:      in.ReadDate,
	}
}

func (s *memStore) InsertReadingLog(_ context.Context, in models.ReadingLogInput) (models.ReadingLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := logFromInput(s.id("log"), in)
	s.logs[l.ID] = l
	return l, nil
}

func (s *memStore) UpdateReadingLog(_ context.Context, id string, in models.ReadingLogInput) (models.ReadingLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logs[id]; !ok {
		return models.ReadingLog{}, database.ErrNotFound
	}
	l := logFromInput(id, in)
	s.logs[id] = l
	return l, nil
}

func (s *memStore) ExcludeISBN(_ context.Context, e models.ExcludedISBN) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.excluded = append(s.excluded, e)
	return nil
}

// stubCatalog serves fixed items.
type stubCatalog struct {
	items   map[string]models.CatalogItem
	search  []models.CatalogItem
	lookups int
}

func (c *stubCatalog) LookupByISBN(_ context.Context, isbn string) (models.CatalogItem, error) {
	c.lookups++
	it, ok := c.items[isbn]
	if !ok {
		return models.CatalogItem{}, catalog.ErrNotFound
	}
	return it, nil
}

func (c *stubCatalog) SearchByTitle(context.Context, string) ([]models.CatalogItem, error) {
	return c.search, nil
}

func (c *stubCatalog) NewArrivals(context.Context, int, int) ([]models.CatalogItem, error) {
	return nil, nil
}

// fixedText answers every prompt with the same text and records prompts.
type fixedText struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (f *fixedText) GenerateText(_ context.Context, _, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, user)
	return f.text, f.err
}

type recordingQueue struct {
	jobs map[string]string
}

func (q *recordingQueue) Enqueue(logID, memo string) bool {
	if q.jobs == nil {
		q.jobs = make(map[string]string)
	}
	q.jobs[logID] = memo
	return true
}

var dinoItem = models.CatalogItem{
	ISBN13:      "9788900000001",
	ISBN:        "8900000001",
	Title:       "공룡 대모험",
	Author:      "김작가",
	Publisher:   "그림출판",
	PubDate:     "2023-04-01",
	Cover:       "https://img/cover.jpg",
	Description: "공룡 친구들의 모험",
}

func TestAddInterestedBook(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	cat := &stubCatalog{items: map[string]models.CatalogItem{"9788900000001": dinoItem}}
	gen := &fixedText{text: `{"themes":["공룡","모험"],"ageRange":"4-7세","parentGuide":"함께 읽어요","activities":"공룡 그리기"}`}
	svc := NewService(store, Options{Catalog: cat, Guides: guide.NewGenerator(gen, nil, zerolog.Nop())}, zerolog.Nop())

	res, err := svc.AddInterestedBook(context.Background(), " 9788900000001 ")
	if err != nil {
		t.Fatalf("AddInterestedBook() error = %v", err)
	}
	if !res.IsNew || res.BookID == "" {
		t.Fatalf("AddInterestedBook() = %+v, want a new book", res)
	}

	b, err := store.GetBook(context.Background(), res.BookID)
	if err != nil {
		t.Fatalf("stored book missing: %v", err)
	}
	if b.ISBN != "9788900000001" || b.Title != "공룡 대모험" || b.Themes != "공룡,모험" || b.Interested {
		t.Errorf("stored book = %+v", b)
	}
	if b.PubYear == nil || *b.PubYear != 2023 {
		t.Errorf("PubYear = %v, want 2023", b.PubYear)
	}

	again, err := svc.AddInterestedBook(context.Background(), "978-89-0000000-1")
	if err != nil {
		t.Fatalf("second AddInterestedBook() error = %v", err)
	}
	if again.IsNew || again.BookID != res.BookID {
		t.Errorf("second add = %+v, want existing %s", again, res.BookID)
	}
	if cat.lookups != 1 {
		t.Errorf("catalog lookups = %d, want 1", cat.lookups)
	}
}

func TestAddInterestedBookWithoutGuide(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	cat := &stubCatalog{items: map[string]models.CatalogItem{"9788900000001": dinoItem}}
	gen := &fixedText{err: errors.New("boom")}
	svc := NewService(store, Options{Catalog: cat, Guides: guide.NewGenerator(gen, nil, zerolog.Nop())}, zerolog.Nop())

	res, err := svc.AddInterestedBook(context.Background(), "9788900000001")
	if err != nil {
		t.Fatalf("AddInterestedBook() error = %v", err)
	}
	b, _ := store.GetBook(context.Background(), res.BookID)
	if b.Themes != "" || b.ParentGuide != "" {
		t.Errorf("guide fields should be empty, got %+v", b)
	}
	if len(gen.prompts) != 2 {
		t.Errorf("guide attempts = %d, want 2", len(gen.prompts))
	}
}

func TestAddInterestedBookErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cat  catalog.Catalog
		isbn string
		want error
	}{
		{"blank isbn", &stubCatalog{}, "  ", ErrInvalidInput},
		{"no catalog", nil, "9788900000001", ErrCatalogUnavailable},
		{"unknown isbn", &stubCatalog{}, "9788900000009", catalog.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewService(newMemStore(), Options{Catalog: tt.cat}, zerolog.Nop())
			if _, err := svc.AddInterestedBook(context.Background(), tt.isbn); !errors.Is(err, tt.want) {
				t.Errorf("AddInterestedBook() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateBookFields(t *testing.T) {
	t.Parallel()

	store := newMemStore(models.Book{ID: "b1", Title: "옛 제목", Author: "저자"})
	svc := NewService(store, Options{}, zerolog.Nop())

	got, err := svc.UpdateBookFields(context.Background(), "b1", map[string]interface{}{
		models.FieldTitle:      "새 제목",
		models.FieldInterested: "true",
	})
	if err != nil {
		t.Fatalf("UpdateBookFields() error = %v", err)
	}
	if got.Title != "새 제목" || got.Author != "저자" || !got.Interested {
		t.Errorf("UpdateBookFields() = %+v", got)
	}

	if _, err := svc.UpdateBookFields(context.Background(), "b1", nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty fields error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.UpdateBookFields(context.Background(), "missing", map[string]interface{}{models.FieldTitle: "x"}); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("missing book error = %v, want ErrNotFound", err)
	}
}

func TestRegenerateGuide(t *testing.T) {
	t.Parallel()

	store := newMemStore(models.Book{ID: "b1", Title: "화산", Author: "박작가", Themes: "옛 테마"})
	cat := &stubCatalog{search: []models.CatalogItem{{Title: "화산"}, {Title: "화산", Description: "화산이 폭발해요"}}}
	gen := &fixedText{text: `{"테마":"화산, 자연","연령":"5-7세","부모_읽기_가이드":"","연계놀이":"화산 만들기"}`}
	svc := NewService(store, Options{Catalog: cat, Guides: guide.NewGenerator(gen, nil, zerolog.Nop())}, zerolog.Nop())

	book, g, err := svc.RegenerateGuide(context.Background(), "b1", "", "")
	if err != nil {
		t.Fatalf("RegenerateGuide() error = %v", err)
	}
	if g.Themes != "화산, 자연" || g.Activities != "화산 만들기" {
		t.Errorf("guide = %+v", g)
	}
	if book.Themes != "화산, 자연" || book.AgeRange != "5-7세" || book.Description != "화산이 폭발해요" {
		t.Errorf("updated book = %+v", book)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(gen.prompts))
	}
}

func TestRegenerateGuideErrors(t *testing.T) {
	t.Parallel()

	store := newMemStore(models.Book{ID: "b1", Title: "화산"})

	disabled := NewService(store, Options{}, zerolog.Nop())
	if _, _, err := disabled.RegenerateGuide(context.Background(), "b1", "화산", ""); !errors.Is(err, ErrGuideFailed) || !errors.Is(err, guide.ErrUnavailable) {
		t.Errorf("disabled error = %v, want ErrGuideFailed wrapping ErrUnavailable", err)
	}

	bad := NewService(store, Options{Guides: guide.NewGenerator(&fixedText{text: "잘 모르겠어요"}, nil, zerolog.Nop())}, zerolog.Nop())
	if _, _, err := bad.RegenerateGuide(context.Background(), "b1", "화산", ""); !errors.Is(err, ErrGuideFailed) {
		t.Errorf("unparsable error = %v, want ErrGuideFailed", err)
	}
	if b, _ := store.GetBook(context.Background(), "b1"); b.Themes != "" {
		t.Errorf("book must be untouched on failure, got %+v", b)
	}

	if _, _, err := bad.RegenerateGuide(context.Background(), "", "화산", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank id error = %v, want ErrInvalidInput", err)
	}
	if _, _, err := bad.RegenerateGuide(context.Background(), "nope", "화산", ""); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("missing book error = %v, want ErrNotFound", err)
	}
}

func TestReadingLogs(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	queue := &recordingQueue{}
	svc := NewService(store, Options{Memos: queue}, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.CreateReadingLog(ctx, "b1", map[string]interface{}{
		models.FieldCompleted:     true,
		models.FieldChildReaction: models.ReactionLoved,
		models.FieldMemo:          "공룡 소리를 좋아했어요",
		models.FieldReadDate:      "2026-03-01",
	})
	if err != nil {
		t.Fatalf("CreateReadingLog() error = %v", err)
	}
	if !created.Completed || created.ReadDate == nil || created.ReadDate.Format("2006-01-02") != "2026-03-01" {
		t.Errorf("created = %+v", created)
	}
	if queue.jobs[created.ID] != "공룡 소리를 좋아했어요" {
		t.Errorf("memo job = %q", queue.jobs[created.ID])
	}

	noMemo, err := svc.CreateReadingLog(ctx, "b1", map[string]interface{}{models.FieldMemo: "   "})
	if err != nil {
		t.Fatalf("CreateReadingLog() error = %v", err)
	}
	if _, ok := queue.jobs[noMemo.ID]; ok {
		t.Error("blank memo should not be summarized")
	}

	updated, err := svc.UpdateReadingLog(ctx, created.ID, "b1", map[string]interface{}{models.FieldMemo: "무서워했어요"})
	if err != nil {
		t.Fatalf("UpdateReadingLog() error = %v", err)
	}
	if updated.Completed || queue.jobs[created.ID] != "무서워했어요" {
		t.Errorf("updated = %+v, job = %q", updated, queue.jobs[created.ID])
	}

	if _, err := svc.CreateReadingLog(ctx, "", map[string]interface{}{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing book error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.CreateReadingLog(ctx, "b1", nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing data error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.UpdateReadingLog(ctx, "log-99", "b1", map[string]interface{}{}); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("missing log error = %v, want ErrNotFound", err)
	}

	logs, _ := svc.ListReadingLogs(ctx)
	if len(logs) != 2 {
		t.Errorf("ListReadingLogs() = %d logs, want 2", len(logs))
	}
}

func TestExcludeCatalogBook(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := NewService(store, Options{}, zerolog.Nop())
	ctx := context.Background()

	if err := svc.ExcludeCatalogBook(ctx, Exclusion{ISBN: "89-000-0000-1", Title: "공룡"}); err != nil {
		t.Fatalf("ExcludeCatalogBook() error = %v", err)
	}
	if err := svc.ExcludeCatalogBook(ctx, Exclusion{ISBN13: "978-8900000001", ISBN: "ignored", UserID: "kid"}); err != nil {
		t.Fatalf("ExcludeCatalogBook() error = %v", err)
	}
	if err := svc.ExcludeCatalogBook(ctx, Exclusion{ISBN: " - "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank isbn error = %v, want ErrInvalidInput", err)
	}

	want := []models.ExcludedISBN{
		{UserID: models.DefaultUserID, ISBN13: "8900000001", Title: "공룡"},
		{UserID: "kid", ISBN13: "9788900000001"},
	}
	if len(store.excluded) != len(want) {
		t.Fatalf("excluded = %+v", store.excluded)
	}
	for i := range want {
		if store.excluded[i] != want[i] {
			t.Errorf("excluded[%d] = %+v, want %+v", i, store.excluded[i], want[i])
		}
	}
}
