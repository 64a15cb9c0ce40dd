// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/tomtom215/bookpath/internal/models"
)

const (
	minBooksPerDay     = 1
	maxBooksPerDay     = 20
	defaultBooksPerDay = 3
)

// ResolveBooksPerDay returns the reading pace used to size the lists.
// A positive explicit value wins. Otherwise the pace is estimated from the
// logs dated within the last EstimateWindowDays, and defaults to 3.
func ResolveBooksPerDay(cfg *Config, explicit float64, logs []models.ReadingLog, now time.Time) float64 {
	if explicit > 0 && !math.IsInf(explicit, 0) && !math.IsNaN(explicit) {
		return clampFloat(explicit, minBooksPerDay, maxBooksPerDay)
	}
	if estimate := estimateBooksPerDay(cfg, logs, now); estimate > 0 {
		return clampFloat(estimate, minBooksPerDay, maxBooksPerDay)
	}
	return defaultBooksPerDay
}

func estimateBooksPerDay(cfg *Config, logs []models.ReadingLog, now time.Time) float64 {
	if len(logs) == 0 {
		return 0
	}
	window := time.Duration(cfg.EstimateWindowDays) * 24 * time.Hour
	start := now.Add(-window)
	count := 0
	for _, l := range logs {
		if l.ReadDate == nil {
			continue
		}
		if !l.ReadDate.Before(start) && !l.ReadDate.After(now) {
			count++
		}
	}
	avg := float64(count) / float64(cfg.EstimateWindowDays)
	return clampFloat(round1(avg), 0, maxBooksPerDay)
}

// TopCount is the list length for a reading pace.
func TopCount(booksPerDay float64) int {
	switch {
	case booksPerDay <= 1:
		return 6
	case booksPerDay <= 3:
		return 8
	case booksPerDay <= 5:
		return 10
	default:
		return 12
	}
}

// SafeRatio is the share of the list given to high-scoring picks.
func SafeRatio(booksPerDay float64) float64 {
	switch {
	case booksPerDay <= 1:
		return 0.85
	case booksPerDay <= 3:
		return 0.75
	case booksPerDay <= 5:
		return 0.70
	default:
		return 0.60
	}
}

// listSizes returns the list, safe and explore sizes for n candidates.
func listSizes(n int, booksPerDay float64) (top, safe, explore int) {
	top = TopCount(booksPerDay)
	if n < top {
		top = n
	}
	safe = int(math.Floor(float64(top) * SafeRatio(booksPerDay)))
	if safe < 1 {
		safe = 1
	}
	explore = top - safe
	if explore < 0 {
		explore = 0
	}
	return top, safe, explore
}

// Composer splits sorted candidates into safe and explore picks.
type Composer struct {
	cfg *Config
	rng *rand.Rand
}

// NewComposer creates a composer drawing randomness from rng.
func NewComposer(cfg *Config, rng *rand.Rand) *Composer {
	return &Composer{cfg: cfg, rng: rng}
}

// ComposePooled samples the safe picks from the top of the ranking and the
// explore picks from the candidates that bring the most unseen themes.
// sorted must be ordered by SortCandidates.
func (c *Composer) ComposePooled(sorted []Candidate, booksPerDay float64, force bool) []Candidate {
	if len(sorted) == 0 {
		return []Candidate{}
	}
	top, safeCount, exploreCount := listSizes(len(sorted), booksPerDay)

	safePool := c.shuffled(head(sorted, c.cfg.PoolSize))
	safe := head(safePool, safeCount)
	safeIDs := idSet(safe)

	ranked := rankByNewThemes(tail(sorted, safeCount), themeSet(safe), true)
	explorePool := head(ranked, c.cfg.PoolSize)

	explore := make([]Candidate, 0, exploreCount)
	for _, cand := range head(c.shuffled(explorePool), exploreCount) {
		if _, dup := safeIDs[cand.ID]; !dup {
			explore = append(explore, cand)
		}
	}

	if len(explore) < exploreCount {
		chosen := idSet(explore)
		for _, cand := range c.shuffled(explorePool) {
			if len(explore) >= exploreCount {
				break
			}
			if _, dup := safeIDs[cand.ID]; dup {
				continue
			}
			if _, dup := chosen[cand.ID]; dup {
				continue
			}
			chosen[cand.ID] = struct{}{}
			explore = append(explore, cand)
		}
	}

	return c.finish(safe, explore, top, force)
}

// ComposeTopSlice takes the safe picks straight from the top of the ranking
// and explores only candidates with at least one unseen theme.
func (c *Composer) ComposeTopSlice(sorted []Candidate, booksPerDay float64, force bool) []Candidate {
	if len(sorted) == 0 {
		return []Candidate{}
	}
	top, safeCount, exploreCount := listSizes(len(sorted), booksPerDay)

	safe := head(sorted, safeCount)
	seen := themeSet(safe)
	rest := make([]Candidate, 0, len(sorted))
	for _, cand := range tail(sorted, safeCount) {
		if newThemeCount(cand, seen) > 0 {
			rest = append(rest, cand)
		}
	}
	ranked := rankByNewThemes(rest, seen, booksPerDay >= c.cfg.NewThemeTieBreakBooksPerDay)

	safeIDs := idSet(safe)
	explore := make([]Candidate, 0, exploreCount)
	for _, cand := range ranked {
		if len(explore) >= exploreCount {
			break
		}
		if _, dup := safeIDs[cand.ID]; dup {
			continue
		}
		safeIDs[cand.ID] = struct{}{}
		explore = append(explore, cand)
	}

	return c.finish(safe, explore, top, force)
}

func (c *Composer) finish(safe, explore []Candidate, top int, force bool) []Candidate {
	list := make([]Candidate, 0, len(safe)+len(explore))
	list = append(list, safe...)
	list = append(list, explore...)
	list = head(list, top)
	if force {
		list = c.shuffled(list)
	}
	return list
}

func (c *Composer) shuffled(in []Candidate) []Candidate {
	out := append([]Candidate(nil), in...)
	c.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// rankByNewThemes orders candidates by score, or by the number of themes
// absent from seen and then by score when byNewThemes is set.
func rankByNewThemes(cands []Candidate, seen map[string]struct{}, byNewThemes bool) []Candidate {
	type ranked struct {
		cand  Candidate
		fresh int
	}
	rs := make([]ranked, len(cands))
	for i, cand := range cands {
		rs[i] = ranked{cand: cand, fresh: newThemeCount(cand, seen)}
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if byNewThemes && rs[i].fresh != rs[j].fresh {
			return rs[i].fresh > rs[j].fresh
		}
		return rs[i].cand.Score.Final() > rs[j].cand.Score.Final()
	})
	out := make([]Candidate, len(rs))
	for i, r := range rs {
		out[i] = r.cand
	}
	return out
}

func newThemeCount(cand Candidate, seen map[string]struct{}) int {
	n := 0
	for _, t := range cand.Score.Themes {
		if _, ok := seen[t]; t != "" && !ok {
			n++
		}
	}
	return n
}

func themeSet(cands []Candidate) map[string]struct{} {
	set := make(map[string]struct{})
	for _, cand := range cands {
		for _, t := range cand.Score.Themes {
			set[t] = struct{}{}
		}
	}
	return set
}

func idSet(cands []Candidate) map[string]struct{} {
	set := make(map[string]struct{}, len(cands))
	for _, cand := range cands {
		set[cand.ID] = struct{}{}
	}
	return set
}

func head(in []Candidate, n int) []Candidate {
	if n > len(in) {
		n = len(in)
	}
	if n < 0 {
		n = 0
	}
	return in[:n]
}

func tail(in []Candidate, n int) []Candidate {
	if n > len(in) {
		return nil
	}
	return in[n:]
}
