// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/bookpath/internal/models"
)

// Component caps of the additive score.
const (
	maxThemePreference   = 55.0
	emptyProfileTheme    = 30.0
	maxEngagement        = 25.0
	noHistoryEngagement  = 15.0
	baseComfort          = 20.0
	triggerPenalty       = 10.0
	safeThemeBonus       = 5.0
	explicitBoostPerHit  = 8.0
	maxExplicitBoost     = 16.0
	catalogDiversity     = 2.0
	explicitEvidenceHits = 2
	maxEvidence          = 3
)

// Scorer scores candidates against one profile. Build one per request.
type Scorer struct {
	cfg      *Config
	stats    *ThemeStats
	profile  Profile
	prefs    map[string]float64
	maxPref  float64
	explicit []string

	recentPublishers map[string]struct{}
	recentThemes     map[string]struct{}
	libraryByISBN    map[string]models.Book
}

// ScorerInput carries the request-scoped data a Scorer needs besides the
// profile.
type ScorerInput struct {
	// Library is every stored book; catalog items are matched against it.
	Library []models.Book
	// RecentBooks are the books of the most recent logs in storage order.
	RecentBooks []models.Book
	// ExplicitInterests are normalized interests picked by the parent.
	ExplicitInterests []string
}

// NewScorer prepares a scorer for the given profile.
func NewScorer(cfg *Config, stats *ThemeStats, profile Profile, in ScorerInput) *Scorer {
	s := &Scorer{
		cfg:              cfg,
		stats:            stats,
		profile:          profile,
		prefs:            profile.PreferenceMap(),
		maxPref:          profile.maxPreference(),
		explicit:         in.ExplicitInterests,
		recentPublishers: make(map[string]struct{}),
		recentThemes:     make(map[string]struct{}),
		libraryByISBN:    make(map[string]models.Book, len(in.Library)),
	}
	for _, b := range in.RecentBooks {
		if b.Publisher != "" {
			s.recentPublishers[b.Publisher] = struct{}{}
		}
		for _, t := range SplitThemes(b.Themes) {
			s.recentThemes[t] = struct{}{}
		}
	}
	for _, b := range in.Library {
		isbn := models.NormalizeISBN(b.ISBN)
		if isbn == "" {
			continue
		}
		if _, dup := s.libraryByISBN[isbn]; !dup {
			s.libraryByISBN[isbn] = b
		}
	}
	return s
}

// Score scores a stored, unread book.
func (s *Scorer) Score(b models.Book) Score {
	themes := ParseThemes(b.Themes)
	var sc Score
	sc.Themes = themes

	sc.Breakdown.ThemePreference, sc.Matched = s.themePreference(themes)
	sc.Breakdown.Engagement, sc.Evidence = s.engagement(themes)

	if matches := s.explicitMatches(themes); len(matches) > 0 {
		boost := math.Min(explicitBoostPerHit*float64(len(matches)), maxExplicitBoost)
		sc.Breakdown.ThemePreference += boost
		sc.ExplicitMatches = matches
		line := "명시 관심사 일치: " + strings.Join(firstN(matches, explicitEvidenceHits), ", ")
		sc.Evidence = append([]string{line}, sc.Evidence...)
	}
	sc.Breakdown.ThemePreference = math.Min(sc.Breakdown.ThemePreference, maxThemePreference)

	desc := strings.ToLower(b.Description)
	sc.Breakdown.Comfort = s.comfort(themes, desc, strings.ToLower(b.Themes))
	sc.Breakdown.Age = s.ageFit(b.AgeRange)
	sc.Breakdown.Diversity = s.diversity(b.Publisher, themes)
	if b.Interested {
		sc.Breakdown.Interest = s.cfg.InterestBonus
	}

	sc.Evidence = firstN(sc.Evidence, maxEvidence)
	return sc
}

// ScoreCatalogItem scores a catalog new arrival. Themes come from the
// matching stored book when there is one, else from keyword matches.
// Age is unknown and diversity is a fixed novelty bonus.
func (s *Scorer) ScoreCatalogItem(item models.CatalogItem) (Score, bool) {
	themes, source, stored, found := s.catalogThemes(item)
	var sc Score
	sc.Themes = themes
	sc.ThemeSource = source

	sc.Breakdown.ThemePreference, sc.Matched = s.themePreference(themes)
	sc.Breakdown.ThemePreference = math.Min(sc.Breakdown.ThemePreference, maxThemePreference)
	sc.Breakdown.Engagement, sc.Evidence = s.engagement(themes)

	desc := strings.ToLower(item.Description)
	sc.Breakdown.Comfort = s.comfort(themes, desc, strings.ToLower(item.Title))
	sc.Breakdown.Age = 0
	sc.Breakdown.Diversity = catalogDiversity

	interested := found && stored.Interested
	if interested {
		sc.Breakdown.Interest = s.cfg.InterestBonus
	}

	sc.Evidence = firstN(sc.Evidence, maxEvidence)
	return sc, interested
}

// CatalogThemes returns the themes of a catalog item and where they came from.
func (s *Scorer) CatalogThemes(item models.CatalogItem) ([]string, string) {
	themes, source, _, _ := s.catalogThemes(item)
	return themes, source
}

func (s *Scorer) catalogThemes(item models.CatalogItem) ([]string, string, models.Book, bool) {
	isbn := models.NormalizeISBN(item.PreferredISBN())
	stored, found := s.libraryByISBN[isbn]
	if isbn != "" && found {
		if themes := SplitThemes(stored.Themes); len(themes) > 0 {
			return themes, ThemeSourceDB, stored, true
		}
	}
	text := strings.ToLower(item.Title + " " + item.Description)
	if themes := keywordThemesFor(text); len(themes) > 0 {
		return themes, ThemeSourceKeyword, stored, found
	}
	return []string{}, ThemeSourceNone, stored, found
}

func (s *Scorer) themePreference(themes []string) (float64, []string) {
	var total float64
	var matched []string
	for _, t := range themes {
		pref := s.prefs[t]
		if pref <= 0 {
			continue
		}
		total += pref * s.stats.Weight(t)
		matched = append(matched, t)
	}
	if len(s.prefs) == 0 {
		return emptyProfileTheme, matched
	}
	if len(matched) == 0 {
		return 0, nil
	}
	return (total / float64(len(matched))) * maxThemePreference / s.maxPref, matched
}

func (s *Scorer) engagement(themes []string) (float64, []string) {
	e := s.profile.Engagement
	sum := 0
	var evidence []string
	for _, t := range themes {
		if n := e.Completed[t]; n > 0 {
			sum += 3 * n
			evidence = append(evidence, fmt.Sprintf("%s 테마 완독 %d회", t, n))
		}
		if n := e.HighFocus[t]; n > 0 {
			sum += 2 * n
			evidence = append(evidence, fmt.Sprintf("%s 테마 집중 %d회", t, n))
		}
		if n := e.HighQuestion[t]; n > 0 {
			sum += n
			evidence = append(evidence, fmt.Sprintf("%s 테마 질문 많음 %d회", t, n))
		}
	}
	if sum == 0 && !s.profile.HasData {
		return noHistoryEngagement, evidence
	}
	score := float64(sum) * maxEngagement / (float64(e.MaxCount()) * 6)
	return math.Min(score, maxEngagement), evidence
}

func (s *Scorer) explicitMatches(themes []string) []string {
	if len(s.explicit) == 0 {
		return nil
	}
	var out []string
	for _, interest := range s.explicit {
		for _, t := range themes {
			if t == interest {
				out = append(out, interest)
				break
			}
		}
	}
	return out
}

// comfort starts at the base score and only changes for highly sensitive
// children. extra is the second text searched for trigger keywords: the
// raw theme list for stored books, the title for catalog items.
func (s *Scorer) comfort(themes []string, desc, extra string) float64 {
	score := baseComfort
	if s.profile.EmotionSensitivity == SensitivityHigh {
		hit := containsAny(desc, triggerKeywords) || containsAny(extra, triggerKeywords)
		if !hit {
			joined := strings.Join(themes, " ")
			hit = containsAny(joined, s.profile.ComfortTriggers) || containsAny(desc, s.profile.ComfortTriggers)
		}
		switch {
		case hit:
			score -= triggerPenalty
		case hasSafeTheme(themes):
			score += safeThemeBonus
		}
	}
	return clampFloat(score, 0, baseComfort)
}

func (s *Scorer) ageFit(ageRange string) float64 {
	m := ageRangePattern.FindStringSubmatch(ageRange)
	if m == nil {
		return 0
	}
	lo, _ := strconv.Atoi(m[1])
	hi, _ := strconv.Atoi(m[2])
	years := float64(s.profile.AgeMonths) / 12
	switch {
	case years < float64(lo):
		return -5
	case years > float64(hi+2):
		return -10
	case years <= float64(hi):
		return 0
	default:
		return -2
	}
}

func (s *Scorer) diversity(publisher string, themes []string) float64 {
	_, samePublisher := s.recentPublishers[publisher]
	samePublisher = samePublisher && publisher != ""
	sameTheme := false
	for _, t := range themes {
		if _, ok := s.recentThemes[t]; ok {
			sameTheme = true
			break
		}
	}
	switch {
	case !samePublisher && !sameTheme:
		return 3
	case !samePublisher || !sameTheme:
		return 1
	default:
		return -1
	}
}

// SortCandidates orders candidates by final score, highest first. Ties keep
// their input order.
func SortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score.Final() > cands[j].Score.Final()
	})
}

func firstN(in []string, n int) []string {
	if len(in) <= n {
		return in
	}
	return in[:n]
}
