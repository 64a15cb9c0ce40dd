// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookpath/internal/models"
)

var errBoom = errors.New("boom")

type fakeData struct {
	books    []models.Book
	logs     []models.ReadingLog
	excluded map[string]bool

	booksErr    error
	excludedErr error
}

func (f *fakeData) ListBooks(context.Context) ([]models.Book, error) {
	return f.books, f.booksErr
}

func (f *fakeData) ListReadingLogs(context.Context) ([]models.ReadingLog, error) {
	return f.logs, nil
}

func (f *fakeData) ExcludedISBNs(_ context.Context, userID string) (map[string]bool, error) {
	if userID != models.DefaultUserID {
		return nil, fmt.Errorf("unexpected user %q", userID)
	}
	return f.excluded, f.excludedErr
}

type fakeArrivals struct {
	byCategory map[int][]models.CatalogItem
	failing    map[int]bool
}

func (f *fakeArrivals) NewArrivals(_ context.Context, categoryID, _ int) ([]models.CatalogItem, error) {
	if f.failing[categoryID] {
		return nil, errBoom
	}
	return f.byCategory[categoryID], nil
}

func newTestEngine(t *testing.T, data DataProvider, opts Options) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 42
	opts.Now = func() time.Time { return testNow }
	e, err := NewEngine(cfg, data, opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func numberedBooks(n int) []models.Book {
	themes := []string{"공룡", "우주", "바다", "모험", "동물", "가족"}
	out := make([]models.Book, n)
	for i := range out {
		out[i] = models.Book{
			ID:        fmt.Sprintf("b%02d", i),
			Title:     fmt.Sprintf("책 %d", i),
			Publisher: fmt.Sprintf("출판사%d", i%3),
			Themes:    themes[i%len(themes)] + ", " + themes[(i+1)%len(themes)],
		}
	}
	return out
}

func itemIDs(items []Recommendation) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func TestNewEngineValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(nil, nil, Options{}, zerolog.Nop()); err == nil {
		t.Error("expected error without a data provider")
	}
	bad := DefaultConfig()
	bad.PoolSize = 0
	if _, err := NewEngine(bad, &fakeData{}, Options{}, zerolog.Nop()); err == nil {
		t.Error("expected error for invalid config")
	}
	if _, err := NewEngine(nil, &fakeData{}, Options{}, zerolog.Nop()); err != nil {
		t.Errorf("nil config should use defaults, got %v", err)
	}
}

func TestTodayEmptyLibrary(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &fakeData{}, Options{})
	res, err := e.Today(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if res.Items == nil || len(res.Items) != 0 {
		t.Errorf("Items = %v, want empty non-nil list", res.Items)
	}
	if res.Profile.HasData {
		t.Error("HasData should be false without logs")
	}
}

func TestTodaySkipsReadBooks(t *testing.T) {
	t.Parallel()

	data := &fakeData{
		books: numberedBooks(40),
		logs: []models.ReadingLog{
			{ID: "l1", BookID: "b00", Completed: true, ChildReaction: models.ReactionLoved, ReadDate: dateAgo(1)},
			{ID: "l2", BookID: "b01", ReadDate: dateAgo(2)},
		},
	}
	e := newTestEngine(t, data, Options{})

	res, err := e.Today(context.Background(), Request{BooksPerDay: 1, Interests: []string{"우주"}})
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if len(res.Items) != 6 {
		t.Fatalf("len(Items) = %d, want 6", len(res.Items))
	}
	seen := make(map[string]bool)
	for _, it := range res.Items {
		if it.ID == "b00" || it.ID == "b01" {
			t.Errorf("read book %s recommended", it.ID)
		}
		if seen[it.ID] {
			t.Errorf("book %s recommended twice", it.ID)
		}
		seen[it.ID] = true
		if it.Book == nil {
			t.Errorf("item %s has no book", it.ID)
		}
		if it.Reason.Source != SourceRuleNoKey || it.Reason.Text == "" {
			t.Errorf("item %s reason = %+v, want rule text without a generator", it.ID, it.Reason)
		}
	}
	if !reflect.DeepEqual(res.ExplicitInterests, []string{"우주"}) {
		t.Errorf("ExplicitInterests = %v", res.ExplicitInterests)
	}
	if res.Profile.BooksPerDay != 1 {
		t.Errorf("BooksPerDay = %v, want 1", res.Profile.BooksPerDay)
	}
}

func TestTodayDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	data := &fakeData{books: numberedBooks(40)}
	a, err := newTestEngine(t, data, Options{}).Today(context.Background(), Request{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := newTestEngine(t, data, Options{}).Today(context.Background(), Request{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(itemIDs(a.Items), itemIDs(b.Items)) {
		t.Errorf("same seed gave %v and %v", itemIDs(a.Items), itemIDs(b.Items))
	}
}

func TestTodayOverrides(t *testing.T) {
	t.Parallel()

	data := &fakeData{
		books: numberedBooks(40),
		logs:  []models.ReadingLog{{BookID: "b00", ChildReaction: models.ReactionLoved, ReadDate: dateAgo(1)}},
	}
	e := newTestEngine(t, data, Options{})

	res, err := e.Today(context.Background(), Request{AgeMonths: 70, EmotionSensitivity: SensitivityHigh, BooksPerDay: 5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Profile.AgeMonths != 70 || res.Profile.EmotionSensitivity != SensitivityHigh || res.Profile.BooksPerDay != 5 {
		t.Errorf("overrides not applied: %+v", res.Profile)
	}
	if len(res.Items) != 10 {
		t.Errorf("len(Items) = %d, want 10", len(res.Items))
	}

	res, err = e.Today(context.Background(), Request{EmotionSensitivity: "extreme"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Profile.EmotionSensitivity != SensitivityLow {
		t.Errorf("invalid override should keep the inferred level, got %q", res.Profile.EmotionSensitivity)
	}
}

func TestTodayStorageError(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &fakeData{booksErr: errBoom}, Options{})
	if _, err := e.Today(context.Background(), Request{}); !errors.Is(err, errBoom) {
		t.Errorf("Today() error = %v, want wrapped errBoom", err)
	}
}

func TestNewBooksFiltering(t *testing.T) {
	t.Parallel()

	arrivals := &fakeArrivals{
		byCategory: map[int][]models.CatalogItem{
			1: {
				{ISBN13: "9780000000001", Title: "아기 곰"},
				{ISBN13: "9780000000001", Title: "아기 곰 (중복)"},
				{ISBN13: "9780000000002", Title: "공룡 스티커북"},
				{ISBN13: "9780000000003", Title: "제외된 책"},
			},
			3: {
				{ISBN: "978-0-00-000000-4", Title: "바다 여행"},
			},
		},
		failing: map[int]bool{2: true},
	}
	data := &fakeData{excluded: map[string]bool{"9780000000003": true}}
	e := newTestEngine(t, data, Options{Arrivals: arrivals, Categories: []int{1, 2, 3}, MaxResults: 50})

	res, err := e.NewBooks(context.Background(), Request{BooksPerDay: 3})
	if err != nil {
		t.Fatalf("NewBooks() error = %v", err)
	}
	ids := itemIDs(res.Items)
	sort.Strings(ids)
	want := []string{"978-0-00-000000-4", "9780000000001"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	for _, it := range res.Items {
		if it.Item == nil {
			t.Errorf("item %s has no catalog record", it.ID)
		}
		if it.Reason.Source != SourceRuleNoData {
			t.Errorf("item %s source = %q, want %q", it.ID, it.Reason.Source, SourceRuleNoData)
		}
	}
}

func TestNewBooksWithoutCatalog(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &fakeData{books: numberedBooks(5)}, Options{Categories: []int{1}})
	res, err := e.NewBooks(context.Background(), Request{})
	if err != nil {
		t.Fatalf("NewBooks() error = %v", err)
	}
	if res.Items == nil || len(res.Items) != 0 {
		t.Errorf("Items = %v, want empty non-nil list", res.Items)
	}
}

func TestNewBooksExclusionError(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &fakeData{excludedErr: errBoom}, Options{})
	if _, err := e.NewBooks(context.Background(), Request{}); !errors.Is(err, errBoom) {
		t.Errorf("NewBooks() error = %v, want wrapped errBoom", err)
	}
}

func TestEngineInterestCandidates(t *testing.T) {
	t.Parallel()

	data := &fakeData{
		books: []models.Book{{ID: "b1", Themes: "공룡, 모험"}, {ID: "b2", Themes: "우주"}},
		logs: []models.ReadingLog{
			{BookID: "b1", Completed: true, ChildReaction: models.ReactionLoved, FocusLevel: models.LevelHigh, ReadDate: dateAgo(1)},
			{BookID: "b2", ChildReaction: models.ReactionBored, ReadDate: dateAgo(3)},
		},
	}
	e := newTestEngine(t, data, Options{})

	got, err := e.InterestCandidates(context.Background())
	if err != nil {
		t.Fatalf("InterestCandidates() error = %v", err)
	}
	if !got.HasData {
		t.Error("HasData should be true")
	}
	if len(got.AutoTop) == 0 || got.AutoTop[0] != "공룡" {
		t.Errorf("AutoTop = %v, want 공룡 first", got.AutoTop)
	}
	values := make(map[string]string)
	for _, c := range got.Candidates {
		if _, dup := values[c.Value]; dup {
			t.Errorf("duplicate candidate %q", c.Value)
		}
		values[c.Value] = c.Source
	}
	for _, theme := range []string{"공룡", "모험", "우주"} {
		if values[theme] != InterestSourceThemePref {
			t.Errorf("candidate %q source = %q, want %q", theme, values[theme], InterestSourceThemePref)
		}
	}
}

func TestParseExplicitInterests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw   string
		limit int
		want  []string
	}{
		{" 공룡, ,Dino ,우주", 8, []string{"공룡", "dino", "우주"}},
		{"a,b,c,d", 2, []string{"a", "b"}},
		{"", 8, []string{}},
	}
	for _, tt := range tests {
		if got := ParseExplicitInterests(tt.raw, tt.limit); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseExplicitInterests(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
