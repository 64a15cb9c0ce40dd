// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/bookpath/internal/library"
)

const isbnRequiredMessage = "ISBN이 필요합니다"

// ExcludeCatalogBook handles POST /api/v1/catalog/exclusions.
// The ISBN is hidden from new arrivals for the user, "default" when unset.
func (h *Handler) ExcludeCatalogBook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req ExclusionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.library.ExcludeCatalogBook(r.Context(), library.Exclusion{
		ISBN13: req.ISBN13,
		ISBN:   req.ISBN,
		Title:  req.Title,
		Reason: req.Reason,
		UserID: req.UserID,
	})
	switch {
	case errors.Is(err, library.ErrInvalidInput):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, isbnRequiredMessage, nil)
		return
	case err != nil:
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]bool{"excluded": true}, start)
}
