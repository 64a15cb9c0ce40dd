// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/bookpath/config.yaml",
	"/etc/bookpath/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultGenericThemes are broad tags nearly every picture book carries.
var defaultGenericThemes = []string{
	"이웃", "가족", "일상", "친구", "사랑", "배려", "공동체", "우정",
	"성장", "마음", "관계", "자연", "동물", "놀이", "유머",
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:       "duckdb",
			Path:         "/data/bookpath.duckdb",
			DSN:          "",
			PageSize:     1000,
			MaxOpenConns: 4,
		},
		Catalog: CatalogConfig{
			TTBKey:            "",
			BaseURL:           "http://www.aladin.co.kr/ttb/api",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 1,
			CacheTTL:          6 * time.Hour,
			CachePath:         "", // empty = in-memory cache only
			CategoryIDs:       []string{"35101"},
			MaxResults:        50,
			SearchMaxResults:  20,
		},
		LLM: LLMConfig{
			APIKey:                "",
			BaseURL:               "https://api.openai.com",
			Model:                 "gpt-5-mini",
			ReasoningEffort:       "low",
			Verbosity:             "low",
			MaxOutputTokens:       800,
			GuideMaxOutputTokens:  600,
			MemoMaxOutputTokens:   500,
			Timeout:               30 * time.Second,
			ReasonTimeout:         15 * time.Second,
			MaxRetries:            2,
			RequestsPerSecond:     5,
			MaxConcurrentRequests: 12,
		},
		Recommend: RecommendConfig{
			TopKThemes:                  6,
			GenericThemes:               append([]string(nil), defaultGenericThemes...),
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
			Seed:                        0, // 0 = time-seeded
		},
		Memo: MemoConfig{
			QueueSize: 64,
			Timeout:   20 * time.Second,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			RequestTimeout:  60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// OPENAI_API_KEY -> llm.api_key, DUCKDB_PATH -> storage.path, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"catalog.category_ids",
	"recommend.generic_themes",
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so that the process environment cannot
// pollute configuration.
var envMappings = map[string]string{
	// Storage
	"storage_driver":         "storage.driver",
	"duckdb_path":            "storage.path",
	"database_url":           "storage.dsn",
	"storage_page_size":      "storage.page_size",
	"storage_max_open_conns": "storage.max_open_conns",

	// Catalog (Aladin). ALADIN_API_KEY is the name the first deployment used.
	"aladin_ttb_key":             "catalog.ttb_key",
	"aladin_api_key":             "catalog.ttb_key",
	"aladin_base_url":            "catalog.base_url",
	"aladin_timeout":             "catalog.timeout",
	"aladin_requests_per_sec":    "catalog.requests_per_second",
	"catalog_cache_ttl":          "catalog.cache_ttl",
	"catalog_cache_path":         "catalog.cache_path",
	"catalog_category_ids":       "catalog.category_ids",
	"catalog_max_results":        "catalog.max_results",
	"catalog_search_max_results": "catalog.search_max_results",

	// LLM (OpenAI)
	"openai_api_key":           "llm.api_key",
	"openai_base_url":          "llm.base_url",
	"openai_model":             "llm.model",
	"openai_reasoning_effort":  "llm.reasoning_effort",
	"openai_verbosity":         "llm.verbosity",
	"openai_max_output_tokens": "llm.max_output_tokens",
	"openai_timeout":           "llm.timeout",
	"openai_reason_timeout":    "llm.reason_timeout",
	"openai_max_retries":       "llm.max_retries",
	"openai_requests_per_sec":  "llm.requests_per_second",
	"openai_max_concurrent":    "llm.max_concurrent_requests",

	// Recommendation tuning
	"recommend_top_k_themes":                      "recommend.top_k_themes",
	"recommend_generic_themes":                    "recommend.generic_themes",
	"recommend_generic_factor":                    "recommend.generic_factor",
	"recommend_weight_min":                        "recommend.weight_min",
	"recommend_weight_max":                        "recommend.weight_max",
	"recommend_recent_window_days":                "recommend.recent_window_days",
	"recommend_max_recent_logs":                   "recommend.max_recent_logs",
	"recommend_estimate_window_days":              "recommend.estimate_window_days",
	"recommend_diversity_window":                  "recommend.diversity_window",
	"recommend_pool_size":                         "recommend.pool_size",
	"recommend_interest_bonus":                    "recommend.interest_bonus",
	"recommend_default_age_months":                "recommend.default_age_months",
	"recommend_new_theme_tie_break_books_per_day": "recommend.new_theme_tie_break_books_per_day",
	"recommend_max_explicit_interests":            "recommend.max_explicit_interests",
	"recommend_seed":                              "recommend.seed",

	// Memo summarizer
	"memo_queue_size": "memo.queue_size",
	"memo_timeout":    "memo.timeout",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_request_timeout":  "server.request_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Security
	"cors_origins": "security.cors_origins",

	// Logging
	"log_level": "logging.level",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - OPENAI_API_KEY -> llm.api_key
//   - DUCKDB_PATH -> storage.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
