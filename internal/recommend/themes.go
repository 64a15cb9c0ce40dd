// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/bookpath/internal/models"
)

// maxThemeRunes drops tokens that are sentences rather than tags.
const maxThemeRunes = 20

var themeSeparators = strings.NewReplacer(
	"\r\n", ",",
	"\n", ",",
	"|", ",",
	"/", ",",
	":", ",",
	"：", ",",
)

// ParseThemes is the permissive theme parser used when scoring candidates.
// Newlines, pipes, slashes and colons separate tags like commas do.
func ParseThemes(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(themeSeparators.Replace(raw), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := normalizeTheme(p)
		if t == "" || utf8.RuneCountInString(t) > maxThemeRunes {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SplitThemes splits a stored theme list on commas only.
func SplitThemes(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := normalizeTheme(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// displayThemes keeps the stored casing for user-facing text.
func displayThemes(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ThemeStats holds document frequencies of themes across the library.
type ThemeStats struct {
	N                 int
	DocumentFrequency map[string]int

	generic       map[string]struct{}
	genericFactor float64
	minWeight     float64
	maxWeight     float64
}

// BuildThemeStats counts, for each theme, the number of books carrying it.
func BuildThemeStats(books []models.Book, cfg *Config) *ThemeStats {
	stats := &ThemeStats{
		N:                 len(books),
		DocumentFrequency: make(map[string]int),
		generic:           cfg.genericSet(),
		genericFactor:     cfg.GenericFactor,
		minWeight:         cfg.WeightMin,
		maxWeight:         cfg.WeightMax,
	}
	if stats.N == 0 {
		stats.N = 1
	}
	for i := range books {
		for _, t := range uniqueStrings(SplitThemes(books[i].Themes)) {
			stats.DocumentFrequency[t]++
		}
	}
	return stats
}

// Weight returns the rarity weight of a theme: ln((N+1)/(df+1)) + 1,
// reduced for generic themes and clamped to the configured bounds.
func (s *ThemeStats) Weight(theme string) float64 {
	t := normalizeTheme(theme)
	if t == "" {
		return 1
	}
	df := s.DocumentFrequency[t]
	w := math.Log(float64(s.N+1)/float64(df+1)) + 1
	if _, ok := s.generic[t]; ok {
		w *= s.genericFactor
	}
	return clampFloat(w, s.minWeight, s.maxWeight)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
