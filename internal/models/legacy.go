// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Legacy field keys for books.
const (
	FieldISBN        = "ISBN"
	FieldISBN13      = "ISBN13"
	FieldISBN13Dash  = "ISBN-13"
	FieldTitle       = "제목"
	FieldAuthor      = "저자"
	FieldPublisher   = "출판사"
	FieldPubYear     = "발행년"
	FieldCoverImage  = "표지이미지"
	FieldDescription = "설명"
	FieldThemes      = "테마"
	FieldAgeRange    = "연령"
	FieldParentGuide = "부모_읽기_가이드"
	FieldActivities  = "연계놀이"
	FieldInterested  = "관심"
)

// Legacy field keys for reading logs.
const (
	FieldBook          = "책"
	FieldCompleted     = "완독여부"
	FieldChildReaction = "아이반응"
	FieldMemo          = "메모"
	FieldQuestionLevel = "질문정도"
	FieldFocusLevel    = "집중정도"
	FieldMemoSummary   = "memoSummary"
	FieldDate          = "날짜"
	FieldReadDate      = "읽은날짜"
	FieldReadDateSpace = "읽은 날짜"
)

const dateLayout = "2006-01-02"

// Legacy returns the book as a Korean-keyed record.
func (b Book) Legacy() LegacyRecord {
	var pubYear interface{}
	if b.PubYear != nil {
		pubYear = *b.PubYear
	}
	return LegacyRecord{
		ID: b.ID,
		Fields: map[string]interface{}{
			FieldISBN:        b.ISBN,
			FieldTitle:       b.Title,
			FieldAuthor:      b.Author,
			FieldPublisher:   b.Publisher,
			FieldPubYear:     pubYear,
			FieldCoverImage:  b.CoverImage,
			FieldDescription: b.Description,
			FieldThemes:      b.Themes,
			FieldAgeRange:    b.AgeRange,
			FieldParentGuide: b.ParentGuide,
			FieldActivities:  b.Activities,
			FieldInterested:  b.Interested,
		},
	}
}

// Legacy returns the reading log as a Korean-keyed record.
func (l ReadingLog) Legacy() LegacyRecord {
	books := []string{}
	if l.BookID != "" {
		books = []string{l.BookID}
	}
	var summary, date interface{}
	if l.MemoSummary != "" {
		summary = l.MemoSummary
	}
	if l.ReadDate != nil {
		date = l.ReadDate.Format(dateLayout)
	}
	return LegacyRecord{
		ID: l.ID,
		Fields: map[string]interface{}{
			FieldBook:          books,
			FieldCompleted:     l.Completed,
			FieldChildReaction: l.ChildReaction,
			FieldMemo:          l.Memo,
			FieldQuestionLevel: l.QuestionLevel,
			FieldFocusLevel:    l.FocusLevel,
			FieldMemoSummary:   summary,
			FieldDate:          date,
		},
	}
}

// BookPatchFromLegacy maps Korean-keyed fields to a partial update.
// Absent and null fields are skipped. The ISBN is taken from the first
// non-empty of ISBN, ISBN13 and ISBN-13. Interested uses CoerceBool.
func BookPatchFromLegacy(fields map[string]interface{}) BookPatch {
	var p BookPatch
	for _, key := range []string{FieldISBN, FieldISBN13, FieldISBN13Dash} {
		if s, ok := legacyString(fields, key); ok && s != "" {
			p.ISBN = &s
			break
		}
	}
	p.Title = legacyStringPtr(fields, FieldTitle)
	p.Author = legacyStringPtr(fields, FieldAuthor)
	p.Publisher = legacyStringPtr(fields, FieldPublisher)
	p.CoverImage = legacyStringPtr(fields, FieldCoverImage)
	p.Description = legacyStringPtr(fields, FieldDescription)
	p.Themes = legacyStringPtr(fields, FieldThemes)
	p.AgeRange = legacyStringPtr(fields, FieldAgeRange)
	p.ParentGuide = legacyStringPtr(fields, FieldParentGuide)
	p.Activities = legacyStringPtr(fields, FieldActivities)

	if v, ok := fields[FieldPubYear]; ok && v != nil {
		if y, ok := toInt(v); ok {
			p.PubYear = &y
		}
	}
	if v, ok := fields[FieldInterested]; ok && v != nil {
		b := CoerceBool(v)
		p.Interested = &b
	}
	return p
}

// ReadingLogInputFromLegacy maps Korean-keyed log data to a writable log.
// Missing text fields become empty strings. The date is read from the
// first present of 날짜, 읽은날짜 and 읽은 날짜.
func ReadingLogInputFromLegacy(bookID string, data map[string]interface{}) ReadingLogInput {
	in := ReadingLogInput{BookID: bookID}
	if v, ok := data[FieldCompleted]; ok && v != nil {
		in.Completed = CoerceBool(v)
	}
	in.ChildReaction, _ = legacyString(data, FieldChildReaction)
	in.Memo, _ = legacyString(data, FieldMemo)
	in.QuestionLevel, _ = legacyString(data, FieldQuestionLevel)
	in.FocusLevel, _ = legacyString(data, FieldFocusLevel)

	for _, key := range []string{FieldDate, FieldReadDate, FieldReadDateSpace} {
		if s, ok := legacyString(data, key); ok && s != "" {
			if t, ok := ParseDate(s); ok {
				in.ReadDate = &t
			}
			break
		}
	}
	return in
}

// ParseDate accepts the date formats the frontend has sent over time.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateLayout, time.RFC3339, "2006-01-02T15:04:05", "2006.01.02", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CoerceBool is the strict conversion used for writes: booleans as-is,
// the strings "true" and "1", and any non-zero number.
func CoerceBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return false
	}
}

// IsAffirmative is the permissive flag check applied when a stored
// interested value is read back. The column has held booleans, numbers and
// free text over time.
func IsAffirmative(v interface{}) bool {
	switch t := v.(type) {
	case []byte:
		return IsAffirmative(string(t))
	case bool:
		return t
	case float64:
		return t == 1
	case int:
		return t == 1
	case int64:
		return t == 1
	case int32:
		return t == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "y", "yes", "1", "관심", "o":
			return true
		}
	}
	return false
}

func legacyString(fields map[string]interface{}, key string) (string, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return fmt.Sprint(t), true
	}
}

func legacyStringPtr(fields map[string]interface{}, key string) *string {
	s, ok := legacyString(fields, key)
	if !ok {
		return nil
	}
	return &s
}

func toInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case string:
		s := strings.TrimSpace(t)
		if len(s) > 4 {
			s = s[:4]
		}
		n, err := strconv.Atoi(s)
		return n, err == nil
	default:
		return 0, false
	}
}
