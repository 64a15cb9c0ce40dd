// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/bookpath/internal/models"
)

// readingLogFields carries the enumerated log fields for validation.
type readingLogFields struct {
	ChildReaction string `json:"아이반응" validate:"reaction"`
	QuestionLevel string `json:"질문정도" validate:"level"`
	FocusLevel    string `json:"집중정도" validate:"level"`
}

func newReadingLogFields(data map[string]interface{}) readingLogFields {
	str := func(key string) string {
		s, _ := data[key].(string)
		return s
	}
	return readingLogFields{
		ChildReaction: str(models.FieldChildReaction),
		QuestionLevel: str(models.FieldQuestionLevel),
		FocusLevel:    str(models.FieldFocusLevel),
	}
}

// decodeReadingLog decodes and validates a reading-log body.
func decodeReadingLog(w http.ResponseWriter, r *http.Request) (ReadingLogRequest, bool) {
	var req ReadingLogRequest
	if !decodeBody(w, r, &req) {
		return req, false
	}
	fields := newReadingLogFields(req.LogData)
	if apiErr := validateRequest(&fields); apiErr != nil {
		respondErrorWithDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return req, false
	}
	return req, true
}

// ListReadingLogs handles GET /api/v1/reading-logs.
func (h *Handler) ListReadingLogs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logs, err := h.library.ListReadingLogs(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	records := make([]models.LegacyRecord, len(logs))
	for i := range logs {
		records[i] = logs[i].Legacy()
	}
	respondSuccess(w, http.StatusOK, recordsResponse{Records: records}, start)
}

// CreateReadingLog handles POST /api/v1/reading-logs.
// The memo summary is attached later by the memo worker.
func (h *Handler) CreateReadingLog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := decodeReadingLog(w, r)
	if !ok {
		return
	}

	l, err := h.library.CreateReadingLog(r.Context(), req.BookID, req.LogData)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, l.Legacy(), start)
}

// UpdateReadingLog handles PATCH /api/v1/reading-logs/{id}.
func (h *Handler) UpdateReadingLog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := decodeReadingLog(w, r)
	if !ok {
		return
	}

	l, err := h.library.UpdateReadingLog(r.Context(), chi.URLParam(r, "id"), req.BookID, req.LogData)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, l.Legacy(), start)
}
