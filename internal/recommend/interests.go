// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import (
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/bookpath/internal/models"
)

// Interest candidate sources.
const (
	InterestSourceThemePref  = "themePref"
	InterestSourceEngagement = "engagement"
	InterestSourceRecent     = "recent"
)

const (
	interestPrefTop       = 8
	interestEngagementTop = 4
	interestRecentTop     = 4
	interestMax           = 12
	interestAutoTop       = 5
)

// InterestCandidate is a theme offered to the parent as a possible
// explicit interest.
type InterestCandidate struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// InterestCandidates is the suggestion list for the interest picker.
type InterestCandidates struct {
	HasData    bool                `json:"hasData"`
	AutoTop    []string            `json:"autoTop"`
	Candidates []InterestCandidate `json:"candidates"`
}

// SuggestInterests ranks themes the parent may want to pin: the strongest
// preferences, the most engaging themes and the most read recent themes.
func SuggestInterests(cfg *Config, p Profile, logs []models.ReadingLog, books map[string]models.Book, now time.Time) InterestCandidates {
	out := InterestCandidates{
		HasData:    p.HasData,
		AutoTop:    []string{},
		Candidates: []InterestCandidate{},
	}
	seen := make(map[string]struct{})
	add := func(label, source string) {
		label = strings.TrimSpace(label)
		value := strings.ToLower(label)
		if value == "" {
			return
		}
		if _, dup := seen[value]; dup {
			return
		}
		seen[value] = struct{}{}
		out.Candidates = append(out.Candidates, InterestCandidate{Label: label, Value: value, Source: source})
	}

	prefTop := topThemes(p.AllPreferences, interestPrefTop)
	for _, t := range prefTop {
		add(t, InterestSourceThemePref)
	}
	out.AutoTop = append(out.AutoTop, prefTop[:min(len(prefTop), interestAutoTop)]...)

	e := p.Engagement
	engaged := make([]ThemeScore, 0, len(p.AllPreferences))
	for _, ts := range p.AllPreferences {
		score := 3*e.Completed[ts.Theme] + 2*e.HighFocus[ts.Theme] + e.HighQuestion[ts.Theme]
		if score > 0 {
			engaged = append(engaged, ThemeScore{Theme: ts.Theme, Score: float64(score)})
		}
	}
	for _, t := range topThemes(engaged, interestEngagementTop) {
		add(t, InterestSourceEngagement)
	}

	counts := make([]ThemeScore, 0)
	index := make(map[string]int)
	for _, l := range RecentLogs(cfg, logs, now) {
		book, ok := books[l.BookID]
		if !ok {
			continue
		}
		for _, t := range uniqueStrings(SplitThemes(book.Themes)) {
			if i, ok := index[t]; ok {
				counts[i].Score++
				continue
			}
			index[t] = len(counts)
			counts = append(counts, ThemeScore{Theme: t, Score: 1})
		}
	}
	for _, t := range topThemes(counts, interestRecentTop) {
		add(t, InterestSourceRecent)
	}

	if len(out.Candidates) > interestMax {
		out.Candidates = out.Candidates[:interestMax]
	}
	return out
}

func topThemes(entries []ThemeScore, n int) []string {
	sorted := append([]ThemeScore(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	out := make([]string, 0, n)
	for i := 0; i < len(sorted) && i < n; i++ {
		out = append(out, sorted[i].Theme)
	}
	return out
}
