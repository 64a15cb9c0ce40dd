// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type logRequest struct {
	BookID        string `json:"bookId" validate:"required"`
	ChildReaction string `json:"childReaction" validate:"reaction"`
	FocusLevel    string `json:"focusLevel" validate:"level"`
	Memo          string `json:"memo" validate:"max=10"`
}

type isbnRequest struct {
	ISBN string `json:"isbn" validate:"required,isbn_any"`
}

type queryRequest struct {
	AgeMonths          int    `json:"ageMonths" validate:"min=0,max=240"`
	EmotionSensitivity string `json:"emotionSensitivity" validate:"sensitivity"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input interface{}
	}{
		{"log with reaction", &logRequest{BookID: "b1", ChildReaction: "😍", FocusLevel: "높음"}},
		{"log with empty optionals", &logRequest{BookID: "b1"}},
		{"isbn13 with hyphens", &isbnRequest{ISBN: "978-89-01-23456-7"}},
		{"isbn10 with X", &isbnRequest{ISBN: "89012345 6x"}},
		{"query defaults", &queryRequest{}},
		{"query high", &queryRequest{AgeMonths: 48, EmotionSensitivity: "high"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{"missing book id", &logRequest{}, "bookId", "required"},
		{"unknown reaction", &logRequest{BookID: "b", ChildReaction: "🙂"}, "childReaction", "reaction"},
		{"unknown level", &logRequest{BookID: "b", FocusLevel: "최고"}, "focusLevel", "level"},
		{"memo too long", &logRequest{BookID: "b", Memo: strings.Repeat("a", 11)}, "memo", "max"},
		{"short isbn", &isbnRequest{ISBN: "12345"}, "isbn", "isbn_any"},
		{"missing isbn", &isbnRequest{}, "isbn", "required"},
		{"age too high", &queryRequest{AgeMonths: 300}, "ageMonths", "max"},
		{"bad sensitivity", &queryRequest{EmotionSensitivity: "extreme"}, "emotionSensitivity", "sensitivity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}
			found := false
			for _, e := range err.Errors() {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected error on %s/%s, got: %v", tt.wantField, tt.wantTag, err)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&isbnRequest{ISBN: "12"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "isbn must be a 10 or 13 digit ISBN" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "isbn" {
		t.Errorf("details field = %v, want isbn", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&logRequest{ChildReaction: "?", FocusLevel: "?"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := len(err.Errors()); got != 3 {
		t.Fatalf("expected 3 errors, got %d", got)
	}

	apiErr := err.ToAPIError()
	for _, field := range []string{"bookId:", "childReaction:", "focusLevel:"} {
		if !strings.Contains(apiErr.Message, field) {
			t.Errorf("message %q does not mention %s", apiErr.Message, field)
		}
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	t.Parallel()

	ve := &RequestValidationError{}
	if ve.Error() != "validation failed" {
		t.Errorf("Error() = %q", ve.Error())
	}
	if ve.ToAPIError().Message != "Validation failed" {
		t.Errorf("unexpected message %q", ve.ToAPIError().Message)
	}
}
