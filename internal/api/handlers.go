// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package api

import (
	"context"
	"time"

	"github.com/tomtom215/bookpath/internal/guide"
	"github.com/tomtom215/bookpath/internal/library"
	"github.com/tomtom215/bookpath/internal/models"
	"github.com/tomtom215/bookpath/internal/recommend"
)

// Recommender computes the recommendation lists.
type Recommender interface {
	Today(ctx context.Context, req recommend.Request) (*recommend.Result, error)
	NewBooks(ctx context.Context, req recommend.Request) (*recommend.Result, error)
	InterestCandidates(ctx context.Context) (*recommend.InterestCandidates, error)
	Categories() []int
}

// Library is the write side of the reading log.
type Library interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	ListReadingLogs(ctx context.Context) ([]models.ReadingLog, error)
	AddInterestedBook(ctx context.Context, isbn string) (library.AddResult, error)
	UpdateBookFields(ctx context.Context, id string, fields map[string]interface{}) (models.Book, error)
	RegenerateGuide(ctx context.Context, id, title, author string) (models.Book, guide.Guide, error)
	CreateReadingLog(ctx context.Context, bookID string, data map[string]interface{}) (models.ReadingLog, error)
	UpdateReadingLog(ctx context.Context, id, bookID string, data map[string]interface{}) (models.ReadingLog, error)
	ExcludeCatalogBook(ctx context.Context, e library.Exclusion) error
}

// HealthChecker reports storage health for the readiness probe.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Driver() string
}

// Dependencies wires the handler. Store is optional; without it the
// readiness probe reports the database as unknown.
type Dependencies struct {
	Recommender Recommender
	Library     Library
	Store       HealthChecker

	CatalogEnabled bool
	TextGenEnabled bool

	// MaxInterests caps the explicit interests read from a request.
	// Zero uses defaultMaxInterests.
	MaxInterests int
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: liveness and readiness probes
//   - handlers_recommend.go: recommendation lists and interest candidates
//   - handlers_books.go: book listing, adding and editing
//   - handlers_reading_logs.go: reading-log listing and writes
//   - handlers_catalog.go: catalog exclusions
type Handler struct {
	recommender Recommender
	library     Library
	store       HealthChecker

	catalogEnabled bool
	textGenEnabled bool
	maxInterests   int
	startTime      time.Time
}

// NewHandler creates a new API handler.
func NewHandler(deps Dependencies) *Handler {
	maxInterests := deps.MaxInterests
	if maxInterests <= 0 {
		maxInterests = defaultMaxInterests
	}
	return &Handler{
		recommender:    deps.Recommender,
		library:        deps.Library,
		store:          deps.Store,
		catalogEnabled: deps.CatalogEnabled,
		textGenEnabled: deps.TextGenEnabled,
		maxInterests:   maxInterests,
		startTime:      time.Now(),
	}
}
