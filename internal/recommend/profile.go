// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/bookpath/internal/models"
)

var (
	ageRangePattern  = regexp.MustCompile(`(\d+)[-~](\d+)`)
	singleAgePattern = regexp.MustCompile(`(\d+)`)
)

var reactionRatings = map[string]float64{
	models.ReactionLoved:   5,
	models.ReactionHappy:   4,
	models.ReactionNeutral: 3,
	models.ReactionSad:     2,
	models.ReactionBored:   1,
}

const defaultRating = 3

// datedLog is a log with its age in whole days; daysAgo is nil when the
// log has no read date.
type datedLog struct {
	log     models.ReadingLog
	daysAgo *int
}

func daysAgo(log models.ReadingLog, now time.Time) *int {
	if log.ReadDate == nil {
		return nil
	}
	d := int(math.Floor(now.Sub(*log.ReadDate).Hours() / 24))
	return &d
}

// RecentLogs returns the logs that feed the profile: those read within
// RecentWindowDays or undated, ordered oldest-first by days ago with undated
// logs last, then the last MaxRecentLogs of that order.
func RecentLogs(cfg *Config, logs []models.ReadingLog, now time.Time) []models.ReadingLog {
	dated := make([]datedLog, 0, len(logs))
	for _, l := range logs {
		d := daysAgo(l, now)
		if d != nil && *d > cfg.RecentWindowDays {
			continue
		}
		dated = append(dated, datedLog{log: l, daysAgo: d})
	}

	sort.SliceStable(dated, func(i, j int) bool {
		a, b := dated[i].daysAgo, dated[j].daysAgo
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	if len(dated) > cfg.MaxRecentLogs {
		dated = dated[len(dated)-cfg.MaxRecentLogs:]
	}

	out := make([]models.ReadingLog, len(dated))
	for i, d := range dated {
		out[i] = d.log
	}
	return out
}

// DefaultProfile is the profile of a child without reading history.
func DefaultProfile(cfg *Config) Profile {
	return Profile{
		AgeMonths:          cfg.DefaultAgeMonths,
		EmotionSensitivity: SensitivityNormal,
		ThemePreferences:   []ThemeScore{},
		Engagement:         newEngagement(),
		ComfortTriggers:    []string{},
	}
}

// AnalyzeProfile infers the child profile from the reading history.
// books must contain every book referenced by logs; unknown references are
// skipped.
func AnalyzeProfile(cfg *Config, logs []models.ReadingLog, books map[string]models.Book, now time.Time) Profile {
	if len(logs) == 0 {
		return DefaultProfile(cfg)
	}

	recent := RecentLogs(cfg, logs, now)
	p := DefaultProfile(cfg)
	p.HasData = true
	p.AgeMonths = inferAgeMonths(recent, books, cfg.DefaultAgeMonths)
	p.EmotionSensitivity = inferSensitivity(recent)

	type acc struct {
		sum   float64
		count int
	}
	prefs := make(map[string]*acc)
	order := make([]string, 0)

	for _, l := range recent {
		book, ok := books[l.BookID]
		if !ok || book.Themes == "" {
			continue
		}
		themes := uniqueStrings(SplitThemes(book.Themes))
		if len(themes) == 0 {
			continue
		}

		rating, ok := reactionRatings[l.ChildReaction]
		if !ok {
			rating = defaultRating
		}
		normalized := (rating - 1) / 4
		contribution := (0.6*normalized + 0.4*immersionWeight(l.FocusLevel)) * recencyWeight(daysAgo(l, now))

		for _, t := range themes {
			a, seen := prefs[t]
			if !seen {
				a = &acc{}
				prefs[t] = a
				order = append(order, t)
			}
			a.sum += contribution
			a.count++

			if l.Completed {
				p.Engagement.Completed[t]++
			}
			if l.FocusLevel == models.LevelHigh {
				p.Engagement.HighFocus[t]++
			}
			if l.QuestionLevel == models.LevelMany {
				p.Engagement.HighQuestion[t]++
			}
		}
	}

	all := make([]ThemeScore, 0, len(order))
	for _, t := range order {
		a := prefs[t]
		all = append(all, ThemeScore{Theme: t, Score: a.sum / float64(a.count)})
	}
	p.AllPreferences = all
	p.ThemePreferences = keepTopK(all, cfg.TopKThemes)
	p.ComfortTriggers = comfortTriggers(recent)
	return p
}

func immersionWeight(focus string) float64 {
	switch focus {
	case models.LevelHigh:
		return 1.0
	case models.LevelMedium:
		return 0.6
	default:
		return 0.3
	}
}

func recencyWeight(days *int) float64 {
	switch {
	case days == nil:
		return 1.0
	case *days <= 14:
		return 1.5
	case *days <= 60:
		return 1.0
	default:
		return 0.7
	}
}

// keepTopK keeps the k highest-scoring entries. Entries with equal scores
// keep their first-seen order. At most k entries are returned unchanged.
func keepTopK(entries []ThemeScore, k int) []ThemeScore {
	out := append([]ThemeScore(nil), entries...)
	if len(out) <= k {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out[:k]
}

func inferAgeMonths(recent []models.ReadingLog, books map[string]models.Book, fallback int) int {
	var sumMin, sumMax float64
	n := 0
	for _, l := range recent {
		book, ok := books[l.BookID]
		if !ok || book.AgeRange == "" {
			continue
		}
		lo, hi, ok := parseAgeSpan(book.AgeRange)
		if !ok {
			continue
		}
		sumMin += float64(lo)
		sumMax += float64(hi)
		n++
	}
	if n == 0 {
		return fallback
	}
	avgMin := sumMin / float64(n)
	avgMax := sumMax / float64(n)
	return int(math.Round((avgMin + avgMax) / 2 * 12))
}

// parseAgeSpan reads "4-7", "4~7세" or a single age such as "5세".
func parseAgeSpan(s string) (lo, hi int, ok bool) {
	if m := ageRangePattern.FindStringSubmatch(s); m != nil {
		lo, _ = strconv.Atoi(m[1])
		hi, _ = strconv.Atoi(m[2])
		return lo, hi, true
	}
	if m := singleAgePattern.FindStringSubmatch(s); m != nil {
		age, _ := strconv.Atoi(m[1])
		return age, age, true
	}
	return 0, 0, false
}

func inferSensitivity(recent []models.ReadingLog) string {
	positive := false
	for _, l := range recent {
		switch l.ChildReaction {
		case models.ReactionScared, models.ReactionSad:
			return SensitivityHigh
		case models.ReactionLoved, models.ReactionHappy:
			positive = true
		}
	}
	if positive {
		return SensitivityLow
	}
	return SensitivityNormal
}

func comfortTriggers(recent []models.ReadingLog) []string {
	triggers := make([]string, 0)
	for _, l := range recent {
		summary, ok := l.ParsedMemoSummary()
		if !ok || summary.Triggers == "" || summary.Triggers == models.NoneValue {
			continue
		}
		for _, t := range strings.Split(summary.Triggers, ",") {
			if t = normalizeTheme(t); t != "" && t != models.NoneValue {
				triggers = append(triggers, t)
			}
		}
	}
	return uniqueStrings(triggers)
}
