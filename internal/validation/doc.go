// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps the validator in a thread-safe singleton, registers the
// reading-log specific rules and converts failures to the VALIDATION_ERROR
// API envelope.
//
// # Custom Tags
//
//   - isbn_any: 10 or 13 characters after stripping hyphens and spaces
//   - reaction: empty or one of the six child reaction emoji
//   - level: empty or one of 적음, 보통, 많음, 높음
//   - sensitivity: empty or one of low, normal, high
//
// Field names in messages come from the json tag, so clients see the same
// names they sent.
//
// # Quick Start
//
//	type AddInterestedBookRequest struct {
//	    ISBN string `json:"isbn" validate:"required,isbn_any"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
