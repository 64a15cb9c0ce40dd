// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/bookpath/internal/models"
)

const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady handles readiness probe requests.
// Returns 200 OK only when storage answers a ping, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	health := models.HealthStatus{
		Status:    "ready",
		Database:  "unknown",
		Catalog:   h.catalogEnabled,
		TextGen:   h.textGenEnabled,
		UptimeSec: int64(time.Since(h.startTime).Seconds()),
	}

	if h.store == nil {
		health.Status = "not_ready"
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     health,
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error:    &models.APIError{Code: ErrCodeServiceUnavailable, Message: "Storage is not configured"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		health.Status = "not_ready"
		health.Database = h.store.Driver() + ": unreachable"
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     health,
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error:    &models.APIError{Code: ErrCodeServiceUnavailable, Message: "Storage is unreachable"},
		})
		return
	}

	health.Database = h.store.Driver() + ": ok"
	respondSuccess(w, http.StatusOK, health, start)
}
