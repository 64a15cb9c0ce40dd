// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package config

import (
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Configuration Categories:
//
//  1. Storage: DuckDB file or Postgres DSN holding books and reading logs
//  2. Catalog: Aladin TTB API used for ISBN lookups and new arrivals
//  3. LLM: OpenAI Responses API used for guides, memo summaries and reasons
//  4. Recommend: Tuning constants of the recommendation engine
//  5. Server, Security, Logging
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Storage   StorageConfig   `koanf:"storage"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	LLM       LLMConfig       `koanf:"llm"`
	Recommend RecommendConfig `koanf:"recommend"`
	Memo      MemoConfig      `koanf:"memo"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// StorageConfig selects and configures the books/reading-log store.
//
// Driver "duckdb" opens Path (use ":memory:" for an ephemeral store).
// Driver "postgres" opens DSN through pgx.
type StorageConfig struct {
	Driver       string `koanf:"driver"`
	Path         string `koanf:"path"`
	DSN          string `koanf:"dsn"`
	PageSize     int    `koanf:"page_size"`
	MaxOpenConns int    `koanf:"max_open_conns"`
}

// CatalogConfig configures the Aladin TTB client.
// The catalog is disabled when TTBKey is empty.
type CatalogConfig struct {
	TTBKey            string        `koanf:"ttb_key"`
	BaseURL           string        `koanf:"base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	CachePath         string        `koanf:"cache_path"`
	CategoryIDs       []string      `koanf:"category_ids"`
	MaxResults        int           `koanf:"max_results"`
	SearchMaxResults  int           `koanf:"search_max_results"`
}

// Enabled reports whether catalog lookups are configured.
func (c CatalogConfig) Enabled() bool {
	return c.TTBKey != ""
}

// Categories returns CategoryIDs as integers, skipping malformed entries.
func (c CatalogConfig) Categories() []int {
	out := make([]int, 0, len(c.CategoryIDs))
	for _, s := range c.CategoryIDs {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err == nil && n > 0 {
			out = append(out, n)
		}
	}
	return out
}

// LLMConfig configures the OpenAI Responses API client.
// Text generation is disabled when APIKey is empty.
type LLMConfig struct {
	APIKey                string        `koanf:"api_key"`
	BaseURL               string        `koanf:"base_url"`
	Model                 string        `koanf:"model"`
	ReasoningEffort       string        `koanf:"reasoning_effort"`
	Verbosity             string        `koanf:"verbosity"`
	MaxOutputTokens       int           `koanf:"max_output_tokens"`
	GuideMaxOutputTokens  int           `koanf:"guide_max_output_tokens"`
	MemoMaxOutputTokens   int           `koanf:"memo_max_output_tokens"`
	Timeout               time.Duration `koanf:"timeout"`
	ReasonTimeout         time.Duration `koanf:"reason_timeout"`
	MaxRetries            int           `koanf:"max_retries"`
	RequestsPerSecond     float64       `koanf:"requests_per_second"`
	MaxConcurrentRequests int           `koanf:"max_concurrent_requests"`
}

// Enabled reports whether text generation is configured.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// RecommendConfig mirrors recommend.Config so that tuning can be set from
// YAML or RECOMMEND_* environment variables.
type RecommendConfig struct {
	TopKThemes                  int      `koanf:"top_k_themes"`
	GenericThemes               []string `koanf:"generic_themes"`
	GenericFactor               float64  `koanf:"generic_factor"`
	WeightMin                   float64  `koanf:"weight_min"`
	WeightMax                   float64  `koanf:"weight_max"`
	RecentWindowDays            int      `koanf:"recent_window_days"`
	MaxRecentLogs               int      `koanf:"max_recent_logs"`
	EstimateWindowDays          int      `koanf:"estimate_window_days"`
	DiversityWindow             int      `koanf:"diversity_window"`
	PoolSize                    int      `koanf:"pool_size"`
	InterestBonus               float64  `koanf:"interest_bonus"`
	DefaultAgeMonths            int      `koanf:"default_age_months"`
	NewThemeTieBreakBooksPerDay float64  `koanf:"new_theme_tie_break_books_per_day"`
	MaxExplicitInterests        int      `koanf:"max_explicit_interests"`
	Seed                        int64    `koanf:"seed"`
}

// MemoConfig configures the asynchronous memo summarizer.
type MemoConfig struct {
	QueueSize int           `koanf:"queue_size"`
	Timeout   time.Duration `koanf:"timeout"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds the remaining security-relevant knobs. The service
// is unauthenticated; only cross-origin access is configurable.
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig configures the global zerolog logger.
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// Load reads configuration with the following precedence (highest first):
//  1. Environment variables
//  2. Config file (CONFIG_PATH, config.yaml, /etc/bookpath/config.yaml)
//  3. Built-in defaults
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
