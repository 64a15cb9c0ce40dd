// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/bookpath/internal/middleware"
)

// Router binds the handler to its routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil config uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, config *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(config),
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(chiMiddleware(middleware.RequestID)) // X-Request-ID and logging context
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware(middleware.AccessLog))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))
		if timeout := router.chiMiddleware.RequestTimeout(); timeout > 0 {
			r.Use(chimiddleware.Timeout(timeout))
		}

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/today", router.handler.TodayRecommendations)
			r.Get("/new-books", router.handler.NewBookRecommendations)
			r.Get("/interest-candidates", router.handler.InterestCandidates)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", router.handler.ListBooks)
			r.Post("/interested", router.handler.AddInterestedBook)
			r.Patch("/{id}", router.handler.UpdateBookFields)
			r.Post("/{id}/guide", router.handler.RegenerateBookGuide)
		})

		r.Route("/reading-logs", func(r chi.Router) {
			r.Get("/", router.handler.ListReadingLogs)
			r.Post("/", router.handler.CreateReadingLog)
			r.Patch("/{id}", router.handler.UpdateReadingLog)
		})

		r.Post("/catalog/exclusions", router.handler.ExcludeCatalogBook)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
