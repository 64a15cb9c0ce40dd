// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package api provides the HTTP surface of Bookpath.

Routes are served by a chi router (see router.go). Every response uses the
models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "..."}}
	{"status": "error", "error": {"code": "NOT_FOUND", "message": "..."}}

Book and reading-log records inside data keep the legacy {id, fields}
shape with Korean field keys, which the reading-log frontend still reads.

# Endpoints

Recommendations:
  - GET /api/v1/recommendations/today
  - GET /api/v1/recommendations/new-books
  - GET /api/v1/recommendations/interest-candidates

The recommendation endpoints accept the optional query parameters ageMonths,
emotionSensitivity (low, normal, high), booksPerDay, force (1 or true) and
interests (comma list, today only). Invalid values are ignored.

Library:
  - GET   /api/v1/books
  - POST  /api/v1/books/interested
  - PATCH /api/v1/books/{id}
  - POST  /api/v1/books/{id}/guide
  - GET   /api/v1/reading-logs
  - POST  /api/v1/reading-logs
  - PATCH /api/v1/reading-logs/{id}
  - POST  /api/v1/catalog/exclusions

Operations:
  - GET /api/v1/health/live
  - GET /api/v1/health/ready
  - GET /metrics

# Error Codes

  - VALIDATION_ERROR (400): malformed body or missing field
  - NOT_FOUND (404): no book, log or catalog item with that key
  - DATABASE_ERROR (500): storage failure
  - CATALOG_UNAVAILABLE (502): catalog lookup failed or not configured
  - GUIDE_GENERATION_FAILED (502): the guide could not be generated
*/
package api
