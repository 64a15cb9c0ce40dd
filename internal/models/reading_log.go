// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package models

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Child reactions recorded on a reading log.
const (
	ReactionLoved   = "😍"
	ReactionHappy   = "😊"
	ReactionNeutral = "😐"
	ReactionSad     = "😢"
	ReactionBored   = "🥱"
	ReactionScared  = "😰"
)

// Question and focus levels.
const (
	LevelLow    = "적음"
	LevelMedium = "보통"
	LevelMany   = "많음"
	LevelHigh   = "높음"
)

// NoneValue is the sentinel the memo summarizer writes for an empty field.
const NoneValue = "없음"

// ReadingLog is one reading session of one book.
//
// MemoSummary holds the raw JSON object attached asynchronously after the
// memo is summarized; use ParsedMemoSummary to read it.
type ReadingLog struct {
	ID            string     `json:"id"`
	BookID        string     `json:"book_id"`
	Completed     bool       `json:"completed"`
	ChildReaction string     `json:"child_reaction"`
	Memo          string     `json:"memo"`
	QuestionLevel string     `json:"question_level"`
	FocusLevel    string     `json:"focus_level"`
	MemoSummary   string     `json:"memo_summary,omitempty"`
	ReadDate      *time.Time `json:"read_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MemoSummary is the structured view of a parent's memo.
type MemoSummary struct {
	Liked    string `json:"좋아한요소"`
	Disliked string `json:"싫어한요소"`
	Triggers string `json:"트리거"`
}

// Memo summary fallbacks.
var (
	MemoSummaryParseFailed = MemoSummary{Liked: "분석 실패", Disliked: NoneValue, Triggers: NoneValue}
	MemoSummaryGenFailed   = MemoSummary{Liked: "AI 생성 실패", Disliked: NoneValue, Triggers: NoneValue}
)

// JSON returns the summary encoded as a JSON object.
func (m MemoSummary) JSON() string {
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}

// ParsedMemoSummary decodes MemoSummary. The trigger field is accepted as a
// string or a list of strings. ok is false when there is no summary or it
// is not a JSON object.
func (l ReadingLog) ParsedMemoSummary() (MemoSummary, bool) {
	return ParseMemoSummary(l.MemoSummary)
}

// ParseMemoSummary decodes a raw memo summary object.
func ParseMemoSummary(raw string) (MemoSummary, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return MemoSummary{}, false
	}
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return MemoSummary{}, false
	}
	return MemoSummary{
		Liked:    flattenSummaryField(fields["좋아한요소"]),
		Disliked: flattenSummaryField(fields["싫어한요소"]),
		Triggers: flattenSummaryField(fields["트리거"]),
	}, true
}

func flattenSummaryField(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// ReadingLogInput is the writable part of a reading log.
type ReadingLogInput struct {
	BookID        string
	Completed     bool
	ChildReaction string
	Memo          string
	QuestionLevel string
	FocusLevel    string
	ReadDate      *time.Time
}
