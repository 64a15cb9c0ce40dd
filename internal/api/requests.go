// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/bookpath/internal/recommend"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// defaultMaxInterests is the number of interests honored per request when
// Dependencies.MaxInterests is unset.
const defaultMaxInterests = 8

// AddInterestedBookRequest is the body of POST /books/interested.
type AddInterestedBookRequest struct {
	ISBN string `json:"isbn" validate:"required,isbn_any"`
}

// RegenerateGuideRequest is the body of POST /books/{id}/guide.
type RegenerateGuideRequest struct {
	Title  string `json:"title" validate:"required,max=300"`
	Author string `json:"author" validate:"max=300"`
}

// ReadingLogRequest is the body of the reading-log endpoints. LogData uses
// the legacy Korean keys.
type ReadingLogRequest struct {
	BookID  string                 `json:"bookId" validate:"required"`
	LogData map[string]interface{} `json:"logData" validate:"required"`
}

// UpdateBookRequest is the body of PATCH /books/{id}.
type UpdateBookRequest struct {
	Fields map[string]interface{} `json:"fields" validate:"required,min=1"`
}

// ExclusionRequest is the body of POST /catalog/exclusions.
type ExclusionRequest struct {
	ISBN13 string `json:"isbn13" validate:"omitempty,isbn_any"`
	ISBN   string `json:"isbn" validate:"omitempty,isbn_any"`
	Title  string `json:"title" validate:"max=300"`
	Reason string `json:"reason" validate:"max=500"`
	UserID string `json:"userId" validate:"max=100"`
}

// recommendationRequest reads the override query parameters. Values that
// do not parse or are out of range are ignored. Interests are read only
// when maxInterests is positive.
func recommendationRequest(r *http.Request, maxInterests int) recommend.Request {
	q := r.URL.Query()
	var req recommend.Request

	if n, err := strconv.Atoi(strings.TrimSpace(q.Get("ageMonths"))); err == nil && n > 0 {
		req.AgeMonths = n
	}
	if s := strings.TrimSpace(q.Get("emotionSensitivity")); recommend.ValidSensitivity(s) {
		req.EmotionSensitivity = s
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(q.Get("booksPerDay")), 64); err == nil && f > 0 {
		req.BooksPerDay = f
	}
	switch strings.ToLower(strings.TrimSpace(q.Get("force"))) {
	case "1", "true":
		req.Force = true
	}
	if maxInterests > 0 {
		req.Interests = recommend.ParseExplicitInterests(q.Get("interests"), maxInterests)
	}
	return req
}
