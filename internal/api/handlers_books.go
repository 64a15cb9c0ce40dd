// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/bookpath/internal/guide"
	"github.com/tomtom215/bookpath/internal/logging"
	"github.com/tomtom215/bookpath/internal/models"
)

const bookAddedMessage = "책이 추가되었습니다"

type recordsResponse struct {
	Records []models.LegacyRecord `json:"records"`
}

type recordResponse struct {
	Record models.LegacyRecord `json:"record"`
}

type addBookResponse struct {
	Message string `json:"message"`
	BookID  string `json:"bookId"`
	IsNew   bool   `json:"isNew"`
}

type guideResponse struct {
	Book      models.LegacyRecord `json:"book"`
	AIContent guide.Guide         `json:"aiContent"`
}

// ListBooks handles GET /api/v1/books.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	books, err := h.library.ListBooks(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	records := make([]models.LegacyRecord, len(books))
	for i := range books {
		records[i] = books[i].Legacy()
	}
	respondSuccess(w, http.StatusOK, recordsResponse{Records: records}, start)
}

// AddInterestedBook handles POST /api/v1/books/interested.
func (h *Handler) AddInterestedBook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req AddInterestedBookRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.library.AddInterestedBook(r.Context(), req.ISBN)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, addBookResponse{
		Message: bookAddedMessage,
		BookID:  res.BookID,
		IsNew:   res.IsNew,
	}, start)
}

// UpdateBookFields handles PATCH /api/v1/books/{id}.
func (h *Handler) UpdateBookFields(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req UpdateBookRequest
	if !decodeBody(w, r, &req) {
		return
	}

	book, err := h.library.UpdateBookFields(r.Context(), chi.URLParam(r, "id"), req.Fields)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, recordResponse{Record: book.Legacy()}, start)
}

// RegenerateBookGuide handles POST /api/v1/books/{id}/guide.
func (h *Handler) RegenerateBookGuide(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req RegenerateGuideRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	book, g, err := h.library.RegenerateGuide(r.Context(), id, req.Title, req.Author)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("book_id", id).Msg("Book guide regenerated")
	respondSuccess(w, http.StatusOK, guideResponse{Book: book.Legacy(), AIContent: g}, start)
}
