// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/bookpath/internal/catalog"
	"github.com/tomtom215/bookpath/internal/database"
	"github.com/tomtom215/bookpath/internal/library"
)

// Error codes for API responses
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeDatabase           = "DATABASE_ERROR"
	ErrCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	ErrCodeGuideFailed        = "GUIDE_GENERATION_FAILED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// classifyError maps a service error to a status, code and client message.
func classifyError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, library.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeValidation, err.Error()
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "Record not found"
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "Book not found in catalog"
	case errors.Is(err, library.ErrCatalogUnavailable):
		return http.StatusBadGateway, ErrCodeCatalogUnavailable, "Book catalog is unavailable"
	case errors.Is(err, library.ErrGuideFailed):
		return http.StatusBadGateway, ErrCodeGuideFailed, "Failed to generate the reading guide"
	default:
		return http.StatusInternalServerError, ErrCodeDatabase, "A database error occurred"
	}
}
