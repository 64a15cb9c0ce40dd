// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package models

import (
	"testing"
	"time"
)

func TestCoerceBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input interface{}
		want  bool
	}{
		{"bool true", true, true},
		{"bool false", false, false},
		{"string true", "true", true},
		{"string one", "1", true},
		{"string yes", "yes", false},
		{"string TRUE", "TRUE", false},
		{"float one", float64(1), true},
		{"float zero", float64(0), false},
		{"int one", 1, true},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CoerceBool(tt.input); got != tt.want {
				t.Errorf("CoerceBool(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsAffirmative(t *testing.T) {
	t.Parallel()

	for _, v := range []interface{}{true, float64(1), "true", " Yes ", "y", "1", "관심", "O"} {
		if !IsAffirmative(v) {
			t.Errorf("IsAffirmative(%#v) = false, want true", v)
		}
	}
	for _, v := range []interface{}{false, float64(2), "no", "", nil, "0"} {
		if IsAffirmative(v) {
			t.Errorf("IsAffirmative(%#v) = true, want false", v)
		}
	}
}

func TestBookLegacyRoundTrip(t *testing.T) {
	t.Parallel()

	year := 2021
	book := Book{
		ID:         "b1",
		ISBN:       "9788900000001",
		Title:      "곰 세 마리",
		Themes:     "동물, 가족",
		PubYear:    &year,
		Interested: true,
	}

	rec := book.Legacy()
	if rec.ID != "b1" {
		t.Fatalf("expected id b1, got %s", rec.ID)
	}

	patch := BookPatchFromLegacy(rec.Fields)
	var decoded Book
	patch.Apply(&decoded)

	if decoded.ISBN != book.ISBN {
		t.Errorf("ISBN = %q, want %q", decoded.ISBN, book.ISBN)
	}
	if decoded.Title != book.Title {
		t.Errorf("Title = %q, want %q", decoded.Title, book.Title)
	}
	if decoded.Themes != book.Themes {
		t.Errorf("Themes = %q, want %q", decoded.Themes, book.Themes)
	}
	if !decoded.Interested {
		t.Error("Interested should survive the round trip")
	}
	if decoded.PubYear == nil || *decoded.PubYear != 2021 {
		t.Errorf("PubYear = %v, want 2021", decoded.PubYear)
	}
}

func TestBookPatchFromLegacy_ISBNFallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields map[string]interface{}
		want   string
	}{
		{"primary", map[string]interface{}{"ISBN": "111"}, "111"},
		{"isbn13", map[string]interface{}{"ISBN13": "222"}, "222"},
		{"isbn-13", map[string]interface{}{"ISBN-13": "333"}, "333"},
		{"empty primary falls through", map[string]interface{}{"ISBN": "", "ISBN13": "444"}, "444"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := BookPatchFromLegacy(tt.fields)
			if p.ISBN == nil || *p.ISBN != tt.want {
				t.Errorf("ISBN = %v, want %s", p.ISBN, tt.want)
			}
		})
	}
}

func TestBookPatchFromLegacy_SkipsNull(t *testing.T) {
	t.Parallel()

	p := BookPatchFromLegacy(map[string]interface{}{
		FieldTitle:      nil,
		FieldThemes:     "동물",
		FieldInterested: "1",
	})
	if p.Title != nil {
		t.Error("null title should be skipped")
	}
	if p.Themes == nil || *p.Themes != "동물" {
		t.Errorf("Themes = %v, want 동물", p.Themes)
	}
	if p.Interested == nil || !*p.Interested {
		t.Error(`"1" should coerce to interested`)
	}
	if (BookPatch{}).IsEmpty() != true {
		t.Error("zero patch should be empty")
	}
	if p.IsEmpty() {
		t.Error("patch with fields should not be empty")
	}
}

func TestReadingLogInputFromLegacy(t *testing.T) {
	t.Parallel()

	in := ReadingLogInputFromLegacy("book-1", map[string]interface{}{
		FieldCompleted:     true,
		FieldChildReaction: ReactionLoved,
		FieldMemo:          "곰을 좋아했어요",
		FieldFocusLevel:    LevelHigh,
		FieldReadDate:      "2026-03-01",
	})

	if in.BookID != "book-1" || !in.Completed || in.ChildReaction != ReactionLoved {
		t.Errorf("unexpected input: %+v", in)
	}
	if in.QuestionLevel != "" {
		t.Errorf("missing question level should be empty, got %q", in.QuestionLevel)
	}
	if in.ReadDate == nil || !in.ReadDate.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ReadDate = %v, want 2026-03-01", in.ReadDate)
	}
}

func TestReadingLogLegacy(t *testing.T) {
	t.Parallel()

	d := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	rec := ReadingLog{ID: "l1", BookID: "b1", ReadDate: &d}.Legacy()

	books, ok := rec.Fields[FieldBook].([]string)
	if !ok || len(books) != 1 || books[0] != "b1" {
		t.Errorf("책 = %v, want [b1]", rec.Fields[FieldBook])
	}
	if rec.Fields[FieldDate] != "2026-02-14" {
		t.Errorf("날짜 = %v, want 2026-02-14", rec.Fields[FieldDate])
	}
	if rec.Fields[FieldMemoSummary] != nil {
		t.Errorf("empty memo summary should be nil, got %v", rec.Fields[FieldMemoSummary])
	}
}

func TestParseMemoSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		ok       bool
		triggers string
	}{
		{"string trigger", `{"좋아한요소":"곰","싫어한요소":"없음","트리거":"이별, 공포"}`, true, "이별, 공포"},
		{"array trigger", `{"트리거":["이별","공포"]}`, true, "이별,공포"},
		{"empty", "", false, ""},
		{"null", "null", false, ""},
		{"garbage", "not json", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseMemoSummary(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got.Triggers != tt.triggers {
				t.Errorf("Triggers = %q, want %q", got.Triggers, tt.triggers)
			}
		})
	}
}

func TestMemoSummaryFallbacks(t *testing.T) {
	t.Parallel()

	got, ok := ParseMemoSummary(MemoSummaryParseFailed.JSON())
	if !ok || got != MemoSummaryParseFailed {
		t.Errorf("parse-failed sentinel did not survive encoding: %+v", got)
	}
	if MemoSummaryGenFailed.Liked != "AI 생성 실패" || MemoSummaryGenFailed.Triggers != NoneValue {
		t.Errorf("unexpected generation-failed sentinel: %+v", MemoSummaryGenFailed)
	}
}

func TestNormalizeISBN(t *testing.T) {
	t.Parallel()

	if got := NormalizeISBN("978-89-00-0000x "); got != "97889000000X" {
		t.Errorf("NormalizeISBN = %q", got)
	}
	item := CatalogItem{ISBN: "890000000X", PubDate: "2024-05-01"}
	if item.PreferredISBN() != "890000000X" {
		t.Errorf("PreferredISBN without isbn13 = %q", item.PreferredISBN())
	}
	if y := item.PubYear(); y == nil || *y != 2024 {
		t.Errorf("PubYear = %v, want 2024", y)
	}
	if (CatalogItem{PubDate: "20"}).PubYear() != nil {
		t.Error("short pub date should give nil year")
	}
}
