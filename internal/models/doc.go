// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package models defines data structures for the Bookpath application.

This package contains the storage records, catalog items and API response
wrappers used throughout the application. It serves as the single source of
truth for data structure definitions.

Key Components:

  - Book: A stored picture book with its reading guide and theme tags
  - ReadingLog: One reading session of one book, with the child's reaction
  - MemoSummary: LLM-extracted likes, dislikes and emotional triggers of a memo
  - CatalogItem: A book record returned by the external catalog
  - APIResponse: Standardized API response wrapper

Legacy Field Mapping:

The reading-log frontend talks in Korean-keyed records ({id, fields}). The
conversion helpers in legacy.go translate between those maps and the typed
models at the API boundary only; everything below the handlers works with
Book and ReadingLog.

	patch := models.BookPatchFromLegacy(fields)
	rec := book.Legacy()

Boolean Coercion:

Two coercions exist, one per direction:

  - CoerceBool: strict, true only for true, "true", "1" and non-zero numbers
  - IsAffirmative: permissive truthiness applied by the database layer when
    a stored interested value is scanned back, accepting "y", "yes", "관심"
    and "O" alongside booleans and 1

Thread Safety:

All model types are plain value types and safe to copy. Concurrent mutation
of a shared instance requires external synchronization.
*/
package models
