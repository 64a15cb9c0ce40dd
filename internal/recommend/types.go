// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import (
	"math"

	"github.com/tomtom215/bookpath/internal/models"
)

// Emotion sensitivity levels.
const (
	SensitivityLow    = "low"
	SensitivityNormal = "normal"
	SensitivityHigh   = "high"
)

// ValidSensitivity reports whether s is an accepted sensitivity override.
func ValidSensitivity(s string) bool {
	return s == SensitivityLow || s == SensitivityNormal || s == SensitivityHigh
}

// ThemeScore is one entry of the preference profile.
type ThemeScore struct {
	Theme string  `json:"theme"`
	Score float64 `json:"score"`
}

// Engagement counts, per theme, the logs that were completed, read with
// high focus, or raised many questions.
type Engagement struct {
	Completed    map[string]int `json:"completedThemes"`
	HighFocus    map[string]int `json:"highFocusThemes"`
	HighQuestion map[string]int `json:"highQuestionThemes"`
}

func newEngagement() Engagement {
	return Engagement{
		Completed:    make(map[string]int),
		HighFocus:    make(map[string]int),
		HighQuestion: make(map[string]int),
	}
}

// MaxCount returns the largest counter over all themes, at least 1.
func (e Engagement) MaxCount() int {
	highest := 1
	for _, m := range []map[string]int{e.Completed, e.HighFocus, e.HighQuestion} {
		for _, n := range m {
			if n > highest {
				highest = n
			}
		}
	}
	return highest
}

// Profile is the child model inferred from the reading history. It is
// recomputed per request and never stored.
type Profile struct {
	HasData            bool    `json:"hasData"`
	AgeMonths          int     `json:"ageMonths"`
	EmotionSensitivity string  `json:"emotionSensitivity"`
	BooksPerDay        float64 `json:"booksPerDay"`

	// ThemePreferences holds at most TopKThemes entries.
	ThemePreferences []ThemeScore `json:"themePreferences"`
	// AllPreferences keeps every theme in first-seen order.
	AllPreferences []ThemeScore `json:"-"`

	Engagement      Engagement `json:"engagementPatterns"`
	ComfortTriggers []string   `json:"comfortTriggers"`
}

// Preference returns the kept preference score for theme, or 0.
func (p Profile) Preference(theme string) float64 {
	for _, ts := range p.ThemePreferences {
		if ts.Theme == theme {
			return ts.Score
		}
	}
	return 0
}

// PreferenceMap returns the kept preferences keyed by theme.
func (p Profile) PreferenceMap() map[string]float64 {
	out := make(map[string]float64, len(p.ThemePreferences))
	for _, ts := range p.ThemePreferences {
		out[ts.Theme] = ts.Score
	}
	return out
}

func (p Profile) maxPreference() float64 {
	highest := 1.0
	for _, ts := range p.ThemePreferences {
		highest = math.Max(highest, ts.Score)
	}
	return highest
}

// ScoreBreakdown is the additive score of one candidate.
type ScoreBreakdown struct {
	ThemePreference float64 `json:"themePreference"`
	Engagement      float64 `json:"engagement"`
	Comfort         float64 `json:"comfort"`
	Age             float64 `json:"age"`
	Diversity       float64 `json:"diversity"`
	Interest        float64 `json:"interest"`
}

// Total is the sum of all components.
func (b ScoreBreakdown) Total() float64 {
	return b.ThemePreference + b.Engagement + b.Comfort + b.Age + b.Diversity + b.Interest
}

// Rounded returns the breakdown with every component and the total rounded
// to one decimal, in the shape API responses use.
func (b ScoreBreakdown) Rounded() RoundedBreakdown {
	return RoundedBreakdown{
		ThemePreference: round1(b.ThemePreference),
		Engagement:      round1(b.Engagement),
		Comfort:         round1(b.Comfort),
		Age:             round1(b.Age),
		Diversity:       round1(b.Diversity),
		Interest:        round1(b.Interest),
		Total:           round1(b.Total()),
	}
}

// RoundedBreakdown is ScoreBreakdown as rendered in responses.
type RoundedBreakdown struct {
	ThemePreference float64 `json:"themePreference"`
	Engagement      float64 `json:"engagement"`
	Comfort         float64 `json:"comfort"`
	Age             float64 `json:"age"`
	Diversity       float64 `json:"diversity"`
	Interest        float64 `json:"interest"`
	Total           float64 `json:"total"`
}

// Theme sources of catalog items.
const (
	ThemeSourceDB      = "db"
	ThemeSourceKeyword = "keyword"
	ThemeSourceNone    = "none"
)

// Score is the result of scoring one candidate.
type Score struct {
	Breakdown ScoreBreakdown
	// Evidence holds at most three human-readable signals.
	Evidence []string
	// Themes are the candidate themes the score was computed from.
	Themes []string
	// Matched are the themes with a positive preference.
	Matched []string
	// ExplicitMatches are the requested interests found on the candidate.
	ExplicitMatches []string
	// ThemeSource tells where catalog item themes came from.
	ThemeSource string
}

// Final is the unbounded final score.
func (s Score) Final() float64 {
	return s.Breakdown.Total()
}

// Candidate is a scored book, either stored or from the catalog.
type Candidate struct {
	ID    string
	Score Score

	Book *models.Book
	Item *models.CatalogItem
	// Interested is set for catalog items matching an interested stored book.
	Interested bool
}

// Reason is the explanation attached to a selected candidate.
type Reason struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Reason sources.
const (
	SourceAI               = "ai"
	SourceRuleNoKey        = "rule_no_key"
	SourceRuleNoData       = "rule_no_data"
	SourceRuleEmptyReasons = "rule_empty_reasons"
	SourceRuleEmptyAI      = "rule_empty_ai"
	SourceRuleGuard        = "rule_guard"
	SourceRuleException    = "rule_exception"
	sourceRuleOpenAIPrefix = "rule_openai_"
)

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
