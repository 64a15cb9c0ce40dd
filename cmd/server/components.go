// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookpath/internal/api"
	"github.com/tomtom215/bookpath/internal/cache"
	"github.com/tomtom215/bookpath/internal/catalog"
	"github.com/tomtom215/bookpath/internal/config"
	"github.com/tomtom215/bookpath/internal/database"
	"github.com/tomtom215/bookpath/internal/guide"
	"github.com/tomtom215/bookpath/internal/library"
	"github.com/tomtom215/bookpath/internal/recommend"
	"github.com/tomtom215/bookpath/internal/supervisor/services"
	"github.com/tomtom215/bookpath/internal/textgen"
)

// catalogCachePrefix namespaces catalog entries in the Badger directory.
const catalogCachePrefix = "aladin:"

// Components holds everything main wires into the supervisor tree.
type Components struct {
	Handler    *api.Handler
	Engine     *recommend.Engine
	Library    *library.Service
	MemoWorker *services.MemoSummaryService

	closers []func() error
}

// Close releases resources opened while building the components.
func (c *Components) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// textClients holds the per-prompt-family generators. All fields are nil
// when no API key is configured.
type textClients struct {
	guides  textgen.Generator
	memos   textgen.Generator
	reasons textgen.Generator
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newTextClients(cfg config.LLMConfig, logger zerolog.Logger) textClients {
	if !cfg.Enabled() {
		logger.Info().Msg("OpenAI API key not set; guides, memo summaries and reasons use fallbacks")
		return textClients{}
	}
	base := textgen.NewClient(cfg, logger)
	logger.Info().
		Str("model", cfg.Model).
		Int("guide_max_output_tokens", cfg.GuideMaxOutputTokens).
		Int("memo_max_output_tokens", cfg.MemoMaxOutputTokens).
		Msg("Text generation enabled")
	return textClients{
		guides:  base.WithMaxOutputTokens(cfg.GuideMaxOutputTokens),
		memos:   base.WithMaxOutputTokens(cfg.MemoMaxOutputTokens),
		reasons: base,
	}
}

// newCatalog returns nil when no TTB key is configured. The disk cache is
// optional; a Badger failure falls back to the in-memory level.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newCatalog(cfg config.CatalogConfig, logger zerolog.Logger) (*catalog.Client, func() error) {
	if !cfg.Enabled() {
		logger.Info().Msg("Aladin TTB key not set; catalog lookups and new arrivals disabled")
		return nil, nil
	}

	var (
		store  cache.Store
		closer func() error
	)
	if cfg.CachePath != "" && cfg.CacheTTL > 0 {
		badgerStore, err := cache.OpenBadgerStore(cfg.CachePath, catalogCachePrefix)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.CachePath).Msg("Catalog disk cache unavailable, using memory only")
		} else {
			store = badgerStore
			closer = badgerStore.Close
		}
	}

	logger.Info().
		Ints("categories", cfg.Categories()).
		Bool("disk_cache", store != nil).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Catalog enabled")
	return catalog.NewClient(cfg, store, logger), closer
}

// buildComponents wires storage, catalog, text generation, the engine, the
// library service and the HTTP handler.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func buildComponents(cfg *config.Config, db *database.DB, logger zerolog.Logger) (*Components, error) {
	c := &Components{}

	text := newTextClients(cfg.LLM, logger)
	guides := guide.NewGenerator(text.guides, text.memos, logger)

	// Interfaces stay nil when the catalog is off.
	var (
		cat      catalog.Catalog
		arrivals recommend.ArrivalSource
	)
	client, closeCache := newCatalog(cfg.Catalog, logger)
	if client != nil {
		cat = client
		arrivals = client
	}
	if closeCache != nil {
		c.closers = append(c.closers, closeCache)
	}

	engine, err := recommend.NewEngine(recommend.FromSettings(cfg.Recommend), db, recommend.Options{
		Arrivals:   arrivals,
		Categories: cfg.Catalog.Categories(),
		MaxResults: cfg.Catalog.MaxResults,
		Explainer:  recommend.NewExplainer(text.reasons, cfg.LLM.ReasonTimeout, logger),
	}, logger)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to create recommendation engine: %w", err)
	}

	c.MemoWorker = services.NewMemoSummaryService(guides, db, cfg.Memo, logger)
	c.Library = library.NewService(db, library.Options{
		Catalog: cat,
		Guides:  guides,
		Memos:   c.MemoWorker,
	}, logger)
	c.Engine = engine
	c.Handler = api.NewHandler(api.Dependencies{
		Recommender:    engine,
		Library:        c.Library,
		Store:          db,
		CatalogEnabled: cfg.Catalog.Enabled(),
		TextGenEnabled: cfg.LLM.Enabled(),
		MaxInterests:   engine.Config().MaxExplicitInterests,
	})
	return c, nil
}

// middlewareConfig maps server and security settings onto the router.
func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	if len(cfg.Security.CORSOrigins) > 0 {
		mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	}
	if cfg.Server.RequestTimeout > 0 {
		mw.RequestTimeout = cfg.Server.RequestTimeout
	}
	return mw
}
