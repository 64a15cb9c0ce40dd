// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookpath/internal/logging"
	"github.com/tomtom215/bookpath/internal/metrics"
	"github.com/tomtom215/bookpath/internal/models"
)

// DataProvider supplies the library and the reading history.
type DataProvider interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	ListReadingLogs(ctx context.Context) ([]models.ReadingLog, error)
	ExcludedISBNs(ctx context.Context, userID string) (map[string]bool, error)
}

// ArrivalSource lists new catalog arrivals for a category.
type ArrivalSource interface {
	NewArrivals(ctx context.Context, categoryID, maxResults int) ([]models.CatalogItem, error)
}

// Metric labels for the served lists.
const (
	ListToday    = "today"
	ListNewBooks = "new_books"
)

// Options wires optional collaborators into the engine.
type Options struct {
	// Arrivals is nil when the catalog is not configured.
	Arrivals ArrivalSource
	// Categories are the catalog categories pulled for new arrivals.
	Categories []int
	// MaxResults is the per-category arrival limit.
	MaxResults int
	// Explainer attaches reasons. Nil means rule text only.
	Explainer *Explainer
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Engine computes the recommendation lists. It is safe for concurrent use.
// Every call recomputes the profile and statistics from storage.
type Engine struct {
	cfg        *Config
	data       DataProvider
	arrivals   ArrivalSource
	categories []int
	maxResults int
	explainer  *Explainer
	now        func() time.Time
	logger     zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg *Config, data DataProvider, opts Options, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("data provider is required")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger = logging.ForComponent(logger, logging.ComponentRecommend)
	explainer := opts.Explainer
	if explainer == nil {
		explainer = NewExplainer(nil, 0, logger)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		cfg:        cfg.Clone(),
		data:       data,
		arrivals:   opts.Arrivals,
		categories: append([]int(nil), opts.Categories...),
		maxResults: opts.MaxResults,
		explainer:  explainer,
		now:        now,
		logger:     logger,
		rng:        rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for recommendation shuffling
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.cfg.Clone()
}

// Categories returns the catalog categories used for new arrivals.
func (e *Engine) Categories() []int {
	return append([]int(nil), e.categories...)
}

// Request carries the per-call overrides of a recommendation request.
type Request struct {
	// AgeMonths overrides the inferred age when positive.
	AgeMonths int
	// EmotionSensitivity overrides the inferred level when valid.
	EmotionSensitivity string
	// BooksPerDay overrides the estimated reading pace when positive.
	BooksPerDay float64
	// Force reshuffles the final list.
	Force bool
	// Interests are explicit interests, already normalized.
	Interests []string
}

// ParseExplicitInterests splits a comma list of interests, trimming and
// lowercasing each and keeping at most limit.
func ParseExplicitInterests(raw string, limit int) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if len(out) >= limit {
			break
		}
		if v := normalizeTheme(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Recommendation is one selected candidate with its reason.
type Recommendation struct {
	Candidate
	Reason Reason
}

// Result is a composed recommendation list.
type Result struct {
	Profile           Profile
	ExplicitInterests []string
	Items             []Recommendation
}

type snapshot struct {
	books     []models.Book
	bookIndex map[string]models.Book
	logs      []models.ReadingLog
	now       time.Time
}

func (e *Engine) load(ctx context.Context) (*snapshot, error) {
	books, err := e.data.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	logs, err := e.data.ListReadingLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reading logs: %w", err)
	}
	index := make(map[string]models.Book, len(books))
	for _, b := range books {
		index[b.ID] = b
	}
	return &snapshot{books: books, bookIndex: index, logs: logs, now: e.now()}, nil
}

func (e *Engine) profileFor(s *snapshot, req Request) Profile {
	p := AnalyzeProfile(e.cfg, s.logs, s.bookIndex, s.now)
	if req.AgeMonths > 0 {
		p.AgeMonths = req.AgeMonths
	}
	if ValidSensitivity(req.EmotionSensitivity) {
		p.EmotionSensitivity = req.EmotionSensitivity
	}
	p.BooksPerDay = ResolveBooksPerDay(e.cfg, req.BooksPerDay, s.logs, s.now)
	return p
}

// recentBooks returns the books of the last DiversityWindow logs in
// storage order.
func (e *Engine) recentBooks(s *snapshot) []models.Book {
	logs := s.logs
	if len(logs) > e.cfg.DiversityWindow {
		logs = logs[len(logs)-e.cfg.DiversityWindow:]
	}
	out := make([]models.Book, 0, len(logs))
	for _, l := range logs {
		if b, ok := s.bookIndex[l.BookID]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Today recommends unread books from the library. Safe picks are sampled
// from the top of the ranking and explore picks favor unseen themes.
func (e *Engine) Today(ctx context.Context, req Request) (*Result, error) {
	s, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	profile := e.profileFor(s, req)
	res := &Result{Profile: profile, ExplicitInterests: req.Interests, Items: []Recommendation{}}

	read := make(map[string]struct{}, len(s.logs))
	for _, l := range s.logs {
		read[l.BookID] = struct{}{}
	}
	unread := make([]models.Book, 0, len(s.books))
	for _, b := range s.books {
		if _, ok := read[b.ID]; !ok {
			unread = append(unread, b)
		}
	}
	if len(unread) == 0 {
		metrics.RecordRecommendation(ListToday, 0)
		return res, nil
	}

	scorer := NewScorer(e.cfg, BuildThemeStats(s.books, e.cfg), profile, ScorerInput{
		Library:           s.books,
		RecentBooks:       e.recentBooks(s),
		ExplicitInterests: req.Interests,
	})
	cands := make([]Candidate, len(unread))
	for i := range unread {
		b := unread[i]
		cands[i] = Candidate{ID: b.ID, Book: &b, Score: scorer.Score(b)}
	}
	SortCandidates(cands)

	e.mu.Lock()
	selected := NewComposer(e.cfg, e.rng).ComposePooled(cands, profile.BooksPerDay, req.Force)
	e.mu.Unlock()

	res.Items = e.explain(ctx, selected, profile, req.Interests)
	metrics.RecordRecommendation(ListToday, len(cands))
	log := logging.FromContext(ctx, e.logger)
	log.Debug().
		Int("candidates", len(cands)).
		Int("selected", len(selected)).
		Float64("books_per_day", profile.BooksPerDay).
		Msg("Composed today list")
	return res, nil
}

// NewBooks recommends catalog new arrivals. A failing category is skipped;
// with no catalog configured the list is empty.
func (e *Engine) NewBooks(ctx context.Context, req Request) (*Result, error) {
	s, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	excluded, err := e.data.ExcludedISBNs(ctx, models.DefaultUserID)
	if err != nil {
		return nil, fmt.Errorf("list excluded isbns: %w", err)
	}
	profile := e.profileFor(s, req)
	res := &Result{Profile: profile, Items: []Recommendation{}}

	items := e.pullArrivals(ctx)
	seen := make(map[string]struct{}, len(items))
	filtered := make([]models.CatalogItem, 0, len(items))
	for _, it := range items {
		isbn := it.PreferredISBN()
		if _, dup := seen[isbn]; dup {
			continue
		}
		seen[isbn] = struct{}{}
		if excluded[models.NormalizeISBN(isbn)] || IsExcludedTitle(it.Title, it.Description) {
			continue
		}
		filtered = append(filtered, it)
	}

	scorer := NewScorer(e.cfg, BuildThemeStats(s.books, e.cfg), profile, ScorerInput{Library: s.books})
	cands := make([]Candidate, len(filtered))
	for i := range filtered {
		it := filtered[i]
		sc, interested := scorer.ScoreCatalogItem(it)
		cands[i] = Candidate{ID: it.PreferredISBN(), Item: &it, Score: sc, Interested: interested}
	}
	SortCandidates(cands)

	e.mu.Lock()
	selected := NewComposer(e.cfg, e.rng).ComposeTopSlice(cands, profile.BooksPerDay, req.Force)
	e.mu.Unlock()

	res.Items = e.explain(ctx, selected, profile, nil)
	metrics.RecordRecommendation(ListNewBooks, len(cands))
	return res, nil
}

func (e *Engine) pullArrivals(ctx context.Context) []models.CatalogItem {
	if e.arrivals == nil {
		return nil
	}
	var out []models.CatalogItem
	for _, cat := range e.categories {
		items, err := e.arrivals.NewArrivals(ctx, cat, e.maxResults)
		if err != nil {
			log := logging.FromContext(ctx, e.logger)
			log.Warn().Err(err).Int("category", cat).Msg("New arrivals unavailable for category")
			continue
		}
		out = append(out, items...)
	}
	return out
}

func (e *Engine) explain(ctx context.Context, selected []Candidate, p Profile, explicit []string) []Recommendation {
	reasons := e.explainer.ExplainAll(ctx, selected, p, explicit)
	out := make([]Recommendation, len(selected))
	for i := range selected {
		out[i] = Recommendation{Candidate: selected[i], Reason: reasons[i]}
	}
	return out
}

// InterestCandidates suggests themes for the explicit interest picker.
func (e *Engine) InterestCandidates(ctx context.Context) (*InterestCandidates, error) {
	s, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	p := AnalyzeProfile(e.cfg, s.logs, s.bookIndex, s.now)
	out := SuggestInterests(e.cfg, p, s.logs, s.bookIndex, s.now)
	return &out, nil
}
