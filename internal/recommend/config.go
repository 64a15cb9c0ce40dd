// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import (
	"fmt"
	"strings"

	"github.com/tomtom215/bookpath/internal/config"
)

// Config contains the tuning constants of the recommendation engine.
type Config struct {
	// TopKThemes is the number of preference themes kept on the profile.
	// Default: 6
	TopKThemes int `json:"top_k_themes"`

	// GenericThemes are broad tags whose weight is multiplied by GenericFactor.
	GenericThemes []string `json:"generic_themes"`

	// GenericFactor down-weights generic themes.
	// Default: 0.7
	GenericFactor float64 `json:"generic_factor"`

	// WeightMin and WeightMax clamp the per-theme weight.
	// Default: 0.6 and 2.2
	WeightMin float64 `json:"weight_min"`
	WeightMax float64 `json:"weight_max"`

	// RecentWindowDays bounds which dated logs feed the profile.
	// Default: 60
	RecentWindowDays int `json:"recent_window_days"`

	// MaxRecentLogs is the number of logs kept from the ordered window.
	// Default: 30
	MaxRecentLogs int `json:"max_recent_logs"`

	// EstimateWindowDays is the window used to estimate books per day.
	// Default: 14
	EstimateWindowDays int `json:"estimate_window_days"`

	// DiversityWindow is the number of most recent logs compared for diversity.
	// Default: 10
	DiversityWindow int `json:"diversity_window"`

	// PoolSize is the size of the safe and explore sampling pools.
	// Default: 30
	PoolSize int `json:"pool_size"`

	// InterestBonus is added for books flagged as interested.
	// Default: 6
	InterestBonus float64 `json:"interest_bonus"`

	// DefaultAgeMonths is used when no age can be inferred.
	// Default: 31
	DefaultAgeMonths int `json:"default_age_months"`

	// NewThemeTieBreakBooksPerDay is the reading pace from which new arrival
	// exploration prefers books with more unseen themes.
	// Default: 6
	NewThemeTieBreakBooksPerDay float64 `json:"new_theme_tie_break_books_per_day"`

	// MaxExplicitInterests caps the interests accepted from a request.
	// Default: 8
	MaxExplicitInterests int `json:"max_explicit_interests"`

	// Seed seeds list sampling. Zero seeds from the clock.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the production tuning.
func DefaultConfig() *Config {
	return &Config{
		TopKThemes: 6,
		GenericThemes: []string{
			"이웃", "가족", "일상", "친구", "사랑", "배려", "공동체", "우정",
			"성장", "마음", "관계", "자연", "동물", "놀이", "유머",
		},
		GenericFactor:               0.7,
		WeightMin:                   0.6,
		WeightMax:                   2.2,
		RecentWindowDays:            60,
		MaxRecentLogs:               30,
		EstimateWindowDays:          14,
		DiversityWindow:             10,
		PoolSize:                    30,
		InterestBonus:               6,
		DefaultAgeMonths:            31,
		NewThemeTieBreakBooksPerDay: 6,
		MaxExplicitInterests:        8,
	}
}

// FromSettings builds a Config from the loaded application settings.
// Zero values keep the defaults.
func FromSettings(s config.RecommendConfig) *Config {
	c := DefaultConfig()
	if s.TopKThemes > 0 {
		c.TopKThemes = s.TopKThemes
	}
	if len(s.GenericThemes) > 0 {
		c.GenericThemes = append([]string(nil), s.GenericThemes...)
	}
	if s.GenericFactor > 0 {
		c.GenericFactor = s.GenericFactor
	}
	if s.WeightMin > 0 {
		c.WeightMin = s.WeightMin
	}
	if s.WeightMax > 0 {
		c.WeightMax = s.WeightMax
	}
	if s.RecentWindowDays > 0 {
		c.RecentWindowDays = s.RecentWindowDays
	}
	if s.MaxRecentLogs > 0 {
		c.MaxRecentLogs = s.MaxRecentLogs
	}
	if s.EstimateWindowDays > 0 {
		c.EstimateWindowDays = s.EstimateWindowDays
	}
	if s.DiversityWindow > 0 {
		c.DiversityWindow = s.DiversityWindow
	}
	if s.PoolSize > 0 {
		c.PoolSize = s.PoolSize
	}
	if s.InterestBonus > 0 {
		c.InterestBonus = s.InterestBonus
	}
	if s.DefaultAgeMonths > 0 {
		c.DefaultAgeMonths = s.DefaultAgeMonths
	}
	if s.NewThemeTieBreakBooksPerDay > 0 {
		c.NewThemeTieBreakBooksPerDay = s.NewThemeTieBreakBooksPerDay
	}
	if s.MaxExplicitInterests > 0 {
		c.MaxExplicitInterests = s.MaxExplicitInterests
	}
	c.Seed = s.Seed
	return c
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.TopKThemes < 1 {
		return fmt.Errorf("top_k_themes must be positive, got %d", c.TopKThemes)
	}
	if c.GenericFactor <= 0 || c.GenericFactor > 1 {
		return fmt.Errorf("generic_factor must be in (0, 1], got %f", c.GenericFactor)
	}
	if c.WeightMin <= 0 || c.WeightMax < c.WeightMin {
		return fmt.Errorf("weight bounds must satisfy 0 < min <= max, got [%f, %f]", c.WeightMin, c.WeightMax)
	}
	if c.RecentWindowDays < 1 {
		return fmt.Errorf("recent_window_days must be positive, got %d", c.RecentWindowDays)
	}
	if c.MaxRecentLogs < 1 {
		return fmt.Errorf("max_recent_logs must be positive, got %d", c.MaxRecentLogs)
	}
	if c.EstimateWindowDays < 1 {
		return fmt.Errorf("estimate_window_days must be positive, got %d", c.EstimateWindowDays)
	}
	if c.DiversityWindow < 0 {
		return fmt.Errorf("diversity_window must be non-negative, got %d", c.DiversityWindow)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("pool_size must be positive, got %d", c.PoolSize)
	}
	if c.InterestBonus < 0 {
		return fmt.Errorf("interest_bonus must be non-negative, got %f", c.InterestBonus)
	}
	if c.DefaultAgeMonths < 1 {
		return fmt.Errorf("default_age_months must be positive, got %d", c.DefaultAgeMonths)
	}
	if c.MaxExplicitInterests < 0 {
		return fmt.Errorf("max_explicit_interests must be non-negative, got %d", c.MaxExplicitInterests)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.GenericThemes = append([]string(nil), c.GenericThemes...)
	return &clone
}

func (c *Config) genericSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.GenericThemes))
	for _, t := range c.GenericThemes {
		if t = normalizeTheme(t); t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

func normalizeTheme(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
