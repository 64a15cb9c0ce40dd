// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bookpath/internal/catalog"
	"github.com/tomtom215/bookpath/internal/database"
	"github.com/tomtom215/bookpath/internal/guide"
	"github.com/tomtom215/bookpath/internal/library"
	"github.com/tomtom215/bookpath/internal/models"
	"github.com/tomtom215/bookpath/internal/recommend"
)

type mockRecommender struct {
	mu       sync.Mutex
	lastReq  recommend.Request
	today    *recommend.Result
	newBooks *recommend.Result
	err      error
}

func (m *mockRecommender) Today(_ context.Context, req recommend.Request) (*recommend.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastReq = req
	return m.today, m.err
}

func (m *mockRecommender) NewBooks(_ context.Context, req recommend.Request) (*recommend.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastReq = req
	return m.newBooks, m.err
}

func (m *mockRecommender) InterestCandidates(context.Context) (*recommend.InterestCandidates, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &recommend.InterestCandidates{
		HasData:    true,
		AutoTop:    []string{"공룡"},
		Candidates: []recommend.InterestCandidate{{Label: "공룡", Value: "공룡", Source: "themePref"}},
	}, nil
}

func (m *mockRecommender) Categories() []int { return []int{35101} }

// mockLibrary records calls and returns scripted results.
type mockLibrary struct {
	mu        sync.Mutex
	books     []models.Book
	logs      []models.ReadingLog
	err       error
	lastID    string
	lastBook  string
	lastData  map[string]interface{}
	excluded  []library.Exclusion
	addResult library.AddResult
}

func (m *mockLibrary) ListBooks(context.Context) ([]models.Book, error) { return m.books, m.err }

func (m *mockLibrary) ListReadingLogs(context.Context) ([]models.ReadingLog, error) {
	return m.logs, m.err
}

func (m *mockLibrary) AddInterestedBook(_ context.Context, isbn string) (library.AddResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID = isbn
	return m.addResult, m.err
}

func (m *mockLibrary) UpdateBookFields(_ context.Context, id string, fields map[string]interface{}) (models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID, m.lastData = id, fields
	if m.err != nil {
		return models.Book{}, m.err
	}
	title, _ := fields[models.FieldTitle].(string)
	return models.Book{ID: id, Title: title}, nil
}

func (m *mockLibrary) RegenerateGuide(_ context.Context, id, title, _ string) (models.Book, guide.Guide, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID = id
	if m.err != nil {
		return models.Book{}, guide.Guide{}, m.err
	}
	g := guide.Guide{Themes: "공룡", AgeRange: "4-7세"}
	return models.Book{ID: id, Title: title, Themes: g.Themes}, g, nil
}

func (m *mockLibrary) CreateReadingLog(_ context.Context, bookID string, data map[string]interface{}) (models.ReadingLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastBook, m.lastData = bookID, data
	if m.err != nil {
		return models.ReadingLog{}, m.err
	}
	memo, _ := data[models.FieldMemo].(string)
	return models.ReadingLog{ID: "log-1", BookID: bookID, Memo: memo}, nil
}

func (m *mockLibrary) UpdateReadingLog(_ context.Context, id, bookID string, data map[string]interface{}) (models.ReadingLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID, m.lastBook, m.lastData = id, bookID, data
	if m.err != nil {
		return models.ReadingLog{}, m.err
	}
	return models.ReadingLog{ID: id, BookID: bookID}, nil
}

func (m *mockLibrary) ExcludeCatalogBook(_ context.Context, e library.Exclusion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ISBN13 == "" && e.ISBN == "" {
		return fmt.Errorf("%w: isbn is required", library.ErrInvalidInput)
	}
	m.excluded = append(m.excluded, e)
	return m.err
}

type mockStore struct{ err error }

func (m mockStore) Ping(context.Context) error { return m.err }
func (m mockStore) Driver() string { return "duckdb" }

type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

func newTestRouter(rec Recommender, lib Library, store HealthChecker) http.Handler {
	h := NewHandler(Dependencies{Recommender: rec, Library: lib, Store: store, CatalogEnabled: true})
	return NewRouter(h, nil).SetupChi()
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
}

func sampleToday() *recommend.Result {
	year := 2021
	book := &models.Book{ID: "b1", Title: "공룡 대모험", Author: "김작가", PubYear: &year, Themes: "공룡, 모험", AgeRange: "4-7", ParentGuide: "함께 읽어요"}
	return &recommend.Result{
		Profile:           recommend.Profile{HasData: true, AgeMonths: 60, EmotionSensitivity: "normal", BooksPerDay: 2},
		ExplicitInterests: []string{"공룡"},
		Items: []recommend.Recommendation{{
			Candidate: recommend.Candidate{
				ID:   "b1",
				Book: book,
				Score: recommend.Score{
					Breakdown: recommend.ScoreBreakdown{ThemePreference: 30.04, Engagement: 10, Comfort: 20, Diversity: 2, Interest: 6},
					Evidence:  []string{"좋아하는 테마: 공룡"},
				},
			},
			Reason: recommend.Reason{Text: "공룡을 좋아해서 골랐어요.", Source: recommend.SourceAI},
		}},
	}
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	rec, env := do(t, newTestRouter(&mockRecommender{}, &mockLibrary{}, nil), http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("status = %d %q, want 200 success", rec.Code, env.Status)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		store      HealthChecker
		wantStatus int
		wantDB     string
	}{
		{"ok", mockStore{}, http.StatusOK, "duckdb: ok"},
		{"ping failed", mockStore{err: errors.New("closed")}, http.StatusServiceUnavailable, "duckdb: unreachable"},
		{"no store", nil, http.StatusServiceUnavailable, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, env := do(t, newTestRouter(&mockRecommender{}, &mockLibrary{}, tt.store), http.MethodGet, "/api/v1/health/ready", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var health models.HealthStatus
			decodeData(t, env, &health)
			if health.Database != tt.wantDB || !health.Catalog {
				t.Errorf("health = %+v", health)
			}
		})
	}
}

func TestTodayRecommendationsInterestLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		maxInterests int
		want         int
	}{
		{"configured limit", 2, 2},
		{"default limit", 0, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := &mockRecommender{today: sampleToday()}
			h := NewRouter(NewHandler(Dependencies{
				Recommender:  rec,
				Library:      &mockLibrary{},
				MaxInterests: tt.maxInterests,
			}), nil).SetupChi()

			resp, _ := do(t, h, http.MethodGet, "/api/v1/recommendations/today?interests=a,b,c,d,e,f,g,h,i,j", "")
			if resp.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
			}
			if got := len(rec.lastReq.Interests); got != tt.want {
				t.Errorf("len(interests) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTodayRecommendations(t *testing.T) {
	t.Parallel()

	rec := &mockRecommender{today: sampleToday()}
	h := newTestRouter(rec, &mockLibrary{}, nil)

	resp, env := do(t, h, http.MethodGet, "/api/v1/recommendations/today?ageMonths=70&emotionSensitivity=high&booksPerDay=2.5&force=true&interests=%EA%B3%B5%EB%A3%A1,+Bus", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	want := recommend.Request{AgeMonths: 70, EmotionSensitivity: "high", BooksPerDay: 2.5, Force: true}
	got := rec.lastReq
	if got.AgeMonths != want.AgeMonths || got.EmotionSensitivity != want.EmotionSensitivity || got.BooksPerDay != want.BooksPerDay || !got.Force {
		t.Errorf("request = %+v, want %+v", got, want)
	}
	if len(got.Interests) != 2 || got.Interests[0] != "공룡" || got.Interests[1] != "bus" {
		t.Errorf("interests = %v", got.Interests)
	}

	var data struct {
		Total        int `json:"total"`
		ChildProfile struct {
			AgeMonths        int           `json:"ageMonths"`
			ThemePreferences []interface{} `json:"themePreferences"`
		} `json:"childProfile"`
		Meta struct {
			ExplicitInterests []string `json:"explicitInterests"`
		} `json:"meta"`
		Books []struct {
			ID             string   `json:"id"`
			PubYear        int      `json:"pubYear"`
			Theme          string   `json:"theme"`
			Why            string   `json:"why"`
			Reason         string   `json:"recommendationReason"`
			Source         string   `json:"recommendationSource"`
			Evidence       []string `json:"evidence"`
			ScoreBreakdown struct {
				ThemePreference float64 `json:"themePreference"`
				Total           float64 `json:"total"`
			} `json:"score_breakdown"`
		} `json:"books"`
	}
	decodeData(t, env, &data)
	if data.Total != 1 || len(data.Books) != 1 {
		t.Fatalf("data = %+v", data)
	}
	b := data.Books[0]
	if b.ID != "b1" || b.PubYear != 2021 || b.Theme != "공룡, 모험" {
		t.Errorf("book = %+v", b)
	}
	if b.Why != "공룡을 좋아해서 골랐어요." || b.Reason != b.Why || b.Source != "ai" {
		t.Errorf("reason fields = %q %q %q", b.Why, b.Reason, b.Source)
	}
	if b.ScoreBreakdown.ThemePreference != 30 || b.ScoreBreakdown.Total != 68 {
		t.Errorf("score_breakdown = %+v", b.ScoreBreakdown)
	}
	if len(b.Evidence) != 1 {
		t.Errorf("evidence = %v", b.Evidence)
	}
	if data.ChildProfile.AgeMonths != 60 || data.ChildProfile.ThemePreferences != nil {
		t.Errorf("childProfile = %+v", data.ChildProfile)
	}
	if len(data.Meta.ExplicitInterests) != 1 {
		t.Errorf("meta = %+v", data.Meta)
	}
}

func TestTodayRecommendationsIgnoresInvalidOverrides(t *testing.T) {
	t.Parallel()

	rec := &mockRecommender{today: &recommend.Result{Items: []recommend.Recommendation{}}}
	h := newTestRouter(rec, &mockLibrary{}, nil)

	resp, env := do(t, h, http.MethodGet, "/api/v1/recommendations/today?ageMonths=-3&emotionSensitivity=extreme&booksPerDay=abc&force=yes", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	if got := rec.lastReq; got.AgeMonths != 0 || got.EmotionSensitivity != "" || got.BooksPerDay != 0 || got.Force {
		t.Errorf("request = %+v, want zero overrides", got)
	}

	var data struct {
		Books []interface{} `json:"books"`
		Meta  struct {
			ExplicitInterests []string `json:"explicitInterests"`
		} `json:"meta"`
	}
	decodeData(t, env, &data)
	if data.Books == nil || data.Meta.ExplicitInterests == nil {
		t.Errorf("empty lists must encode as [], got %s", env.Data)
	}
}

func TestNewBookRecommendations(t *testing.T) {
	t.Parallel()

	item := &models.CatalogItem{ISBN13: "9788900000001", Title: "새 책", PriceStandard: 13000, CustomerReviewRank: 9, Link: "https://example.test/b"}
	rec := &mockRecommender{newBooks: &recommend.Result{
		Profile: recommend.Profile{ThemePreferences: []recommend.ThemeScore{{Theme: "공룡", Score: 3}}},
		Items: []recommend.Recommendation{{
			Candidate: recommend.Candidate{ID: item.ISBN13, Item: item, Score: recommend.Score{Breakdown: recommend.ScoreBreakdown{ThemePreference: 12.34}}},
			Reason:    recommend.Reason{Text: "새로운 이야기예요.", Source: recommend.SourceRuleNoData},
		}},
	}}
	h := newTestRouter(rec, &mockLibrary{}, nil)

	resp, env := do(t, h, http.MethodGet, "/api/v1/recommendations/new-books?interests=ignored", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	if rec.lastReq.Interests != nil {
		t.Errorf("new-books must not take explicit interests, got %v", rec.lastReq.Interests)
	}

	var data struct {
		Categories   []int `json:"categories"`
		ChildProfile struct {
			ThemePreferences []recommend.ThemeScore `json:"themePreferences"`
		} `json:"childProfile"`
		Books []struct {
			ISBN     string   `json:"isbn"`
			Price    int      `json:"price"`
			Score    float64  `json:"score"`
			Source   string   `json:"recommendationSource"`
			Evidence []string `json:"evidence"`
		} `json:"books"`
	}
	decodeData(t, env, &data)
	if len(data.Categories) != 1 || data.Categories[0] != 35101 {
		t.Errorf("categories = %v", data.Categories)
	}
	if len(data.ChildProfile.ThemePreferences) != 1 {
		t.Errorf("themePreferences = %v", data.ChildProfile.ThemePreferences)
	}
	if len(data.Books) != 1 || data.Books[0].ISBN != "9788900000001" || data.Books[0].Score != 12.3 || data.Books[0].Price != 13000 {
		t.Errorf("books = %+v", data.Books)
	}
	if data.Books[0].Evidence == nil || data.Books[0].Source != "rule_no_data" {
		t.Errorf("book = %+v", data.Books[0])
	}
}

func TestRecommendationStorageError(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&mockRecommender{err: errors.New("disk full")}, &mockLibrary{}, nil)
	for _, path := range []string{"/api/v1/recommendations/today", "/api/v1/recommendations/new-books", "/api/v1/recommendations/interest-candidates"} {
		resp, env := do(t, h, http.MethodGet, path, "")
		if resp.Code != http.StatusInternalServerError || env.Error == nil || env.Error.Code != ErrCodeDatabase {
			t.Errorf("%s: status = %d, error = %+v", path, resp.Code, env.Error)
		}
	}
}

func TestInterestCandidates(t *testing.T) {
	t.Parallel()

	resp, env := do(t, newTestRouter(&mockRecommender{}, &mockLibrary{}, nil), http.MethodGet, "/api/v1/recommendations/interest-candidates", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var data recommend.InterestCandidates
	decodeData(t, env, &data)
	if !data.HasData || len(data.AutoTop) != 1 || data.Candidates[0].Source != "themePref" {
		t.Errorf("data = %+v", data)
	}
}

func TestListBooksAndLogs(t *testing.T) {
	t.Parallel()

	lib := &mockLibrary{
		books: []models.Book{{ID: "b1", ISBN: "9788900000001", Title: "공룡", Interested: true}},
		logs:  []models.ReadingLog{{ID: "l1", BookID: "b1", Completed: true}},
	}
	h := newTestRouter(&mockRecommender{}, lib, nil)

	_, env := do(t, h, http.MethodGet, "/api/v1/books", "")
	var books recordsResponse
	decodeData(t, env, &books)
	if len(books.Records) != 1 || books.Records[0].ID != "b1" || books.Records[0].Fields[models.FieldTitle] != "공룡" || books.Records[0].Fields[models.FieldInterested] != true {
		t.Errorf("books = %+v", books)
	}

	_, env = do(t, h, http.MethodGet, "/api/v1/reading-logs", "")
	var logs recordsResponse
	decodeData(t, env, &logs)
	if len(logs.Records) != 1 || logs.Records[0].Fields[models.FieldCompleted] != true {
		t.Errorf("logs = %+v", logs)
	}
	if ids, ok := logs.Records[0].Fields[models.FieldBook].([]interface{}); !ok || len(ids) != 1 || ids[0] != "b1" {
		t.Errorf("책 field = %v", logs.Records[0].Fields[models.FieldBook])
	}
}

func TestAddInterestedBook(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"created", `{"isbn":"9788900000001"}`, nil, http.StatusOK, ""},
		{"missing isbn", `{}`, nil, http.StatusBadRequest, ErrCodeValidation},
		{"bad isbn", `{"isbn":"12345"}`, nil, http.StatusBadRequest, ErrCodeValidation},
		{"bad json", `{"isbn":`, nil, http.StatusBadRequest, ErrCodeValidation},
		{"not in catalog", `{"isbn":"9788900000001"}`, fmt.Errorf("isbn: %w", catalog.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"catalog down", `{"isbn":"9788900000001"}`, fmt.Errorf("%w: timeout", library.ErrCatalogUnavailable), http.StatusBadGateway, ErrCodeCatalogUnavailable},
		{"storage", `{"isbn":"9788900000001"}`, errors.New("insert failed"), http.StatusInternalServerError, ErrCodeDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lib := &mockLibrary{err: tt.err, addResult: library.AddResult{BookID: "b9", IsNew: true}}
			resp, env := do(t, newTestRouter(&mockRecommender{}, lib, nil), http.MethodPost, "/api/v1/books/interested", tt.body)
			if resp.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", resp.Code, tt.wantStatus, resp.Body.String())
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
				}
				return
			}
			var data addBookResponse
			decodeData(t, env, &data)
			if data.BookID != "b9" || !data.IsNew || data.Message != bookAddedMessage {
				t.Errorf("data = %+v", data)
			}
		})
	}
}

func TestUpdateBookFields(t *testing.T) {
	t.Parallel()

	lib := &mockLibrary{}
	h := newTestRouter(&mockRecommender{}, lib, nil)

	resp, env := do(t, h, http.MethodPatch, "/api/v1/books/b7", `{"fields":{"제목":"새 제목","관심":true}}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", resp.Code, resp.Body.String())
	}
	if lib.lastID != "b7" || lib.lastData[models.FieldInterested] != true {
		t.Errorf("library got id %q fields %v", lib.lastID, lib.lastData)
	}
	var data recordResponse
	decodeData(t, env, &data)
	if data.Record.ID != "b7" || data.Record.Fields[models.FieldTitle] != "새 제목" {
		t.Errorf("record = %+v", data.Record)
	}

	if resp, _ := do(t, h, http.MethodPatch, "/api/v1/books/b7", `{"fields":{}}`); resp.Code != http.StatusBadRequest {
		t.Errorf("empty fields status = %d, want 400", resp.Code)
	}

	missing := newTestRouter(&mockRecommender{}, &mockLibrary{err: fmt.Errorf("book %q: %w", "x", database.ErrNotFound)}, nil)
	if resp, env := do(t, missing, http.MethodPatch, "/api/v1/books/x", `{"fields":{"제목":"a"}}`); resp.Code != http.StatusNotFound || env.Error.Code != ErrCodeNotFound {
		t.Errorf("missing book status = %d", resp.Code)
	}
}

func TestRegenerateBookGuide(t *testing.T) {
	t.Parallel()

	lib := &mockLibrary{}
	resp, env := do(t, newTestRouter(&mockRecommender{}, lib, nil), http.MethodPost, "/api/v1/books/b3/guide", `{"title":"공룡","author":"김"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", resp.Code, resp.Body.String())
	}
	var data guideResponse
	decodeData(t, env, &data)
	if lib.lastID != "b3" || data.Book.ID != "b3" || data.AIContent.Themes != "공룡" || data.Book.Fields[models.FieldThemes] != "공룡" {
		t.Errorf("data = %+v", data)
	}

	failing := newTestRouter(&mockRecommender{}, &mockLibrary{err: fmt.Errorf("%w: %w", library.ErrGuideFailed, guide.ErrNoJSON)}, nil)
	resp, env = do(t, failing, http.MethodPost, "/api/v1/books/b3/guide", `{"title":"공룡"}`)
	if resp.Code != http.StatusBadGateway || env.Error == nil || env.Error.Code != ErrCodeGuideFailed {
		t.Errorf("failure status = %d, error = %+v", resp.Code, env.Error)
	}

	resp, _ = do(t, failing, http.MethodPost, "/api/v1/books/b3/guide", `{"author":"김"}`)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("missing title status = %d, want 400", resp.Code)
	}
}

func TestCreateReadingLog(t *testing.T) {
	t.Parallel()

	lib := &mockLibrary{}
	h := newTestRouter(&mockRecommender{}, lib, nil)

	body := `{"bookId":"b1","logData":{"완독여부":true,"아이반응":"😍","메모":"재밌어했어요","질문정도":"많음","집중정도":"높음","날짜":"2026-03-01"}}`
	resp, env := do(t, h, http.MethodPost, "/api/v1/reading-logs", body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", resp.Code, resp.Body.String())
	}
	if lib.lastBook != "b1" || lib.lastData[models.FieldMemo] != "재밌어했어요" {
		t.Errorf("library got %q %v", lib.lastBook, lib.lastData)
	}
	var record models.LegacyRecord
	decodeData(t, env, &record)
	if record.ID != "log-1" || record.Fields[models.FieldMemo] != "재밌어했어요" {
		t.Errorf("record = %+v", record)
	}

	invalid := []string{
		`{"logData":{}}`,
		`{"bookId":"b1"}`,
		`{"bookId":"b1","logData":{"아이반응":"🙂"}}`,
		`{"bookId":"b1","logData":{"집중정도":"최고"}}`,
	}
	for _, b := range invalid {
		if resp, env := do(t, h, http.MethodPost, "/api/v1/reading-logs", b); resp.Code != http.StatusBadRequest || env.Error.Code != ErrCodeValidation {
			t.Errorf("body %s: status = %d", b, resp.Code)
		}
	}
}

func TestUpdateReadingLog(t *testing.T) {
	t.Parallel()

	lib := &mockLibrary{}
	resp, _ := do(t, newTestRouter(&mockRecommender{}, lib, nil), http.MethodPatch, "/api/v1/reading-logs/l5", `{"bookId":"b1","logData":{"메모":"다시"}}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", resp.Code, resp.Body.String())
	}
	if lib.lastID != "l5" || lib.lastBook != "b1" {
		t.Errorf("library got id %q book %q", lib.lastID, lib.lastBook)
	}

	missing := newTestRouter(&mockRecommender{}, &mockLibrary{err: database.ErrNotFound}, nil)
	if resp, _ := do(t, missing, http.MethodPatch, "/api/v1/reading-logs/l5", `{"bookId":"b1","logData":{}}`); resp.Code != http.StatusNotFound {
		t.Errorf("missing log status = %d, want 404", resp.Code)
	}
}

func TestExcludeCatalogBook(t *testing.T) {
	t.Parallel()

	lib := &mockLibrary{}
	h := newTestRouter(&mockRecommender{}, lib, nil)

	resp, _ := do(t, h, http.MethodPost, "/api/v1/catalog/exclusions", `{"isbn13":"9788900000001","title":"공룡","reason":"이미 있음"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", resp.Code, resp.Body.String())
	}
	if len(lib.excluded) != 1 || lib.excluded[0].Reason != "이미 있음" {
		t.Errorf("excluded = %+v", lib.excluded)
	}

	resp, env := do(t, h, http.MethodPost, "/api/v1/catalog/exclusions", `{"title":"공룡"}`)
	if resp.Code != http.StatusBadRequest || env.Error == nil || env.Error.Message != isbnRequiredMessage {
		t.Errorf("missing isbn status = %d, error = %+v", resp.Code, env.Error)
	}
}

func TestRouterFallbacks(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&mockRecommender{}, &mockLibrary{}, nil)

	resp, env := do(t, h, http.MethodGet, "/api/v1/nope", "")
	if resp.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("unknown route status = %d", resp.Code)
	}

	resp, env = do(t, h, http.MethodDelete, "/api/v1/books/b1", "")
	if resp.Code != http.StatusMethodNotAllowed || env.Error == nil || env.Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("wrong method status = %d", resp.Code)
	}

	resp, _ = do(t, h, http.MethodGet, "/metrics", "")
	if resp.Code != http.StatusOK {
		t.Errorf("/metrics status = %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/books", nil)
	req.Header.Set("Origin", "https://reading.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight allow-origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
