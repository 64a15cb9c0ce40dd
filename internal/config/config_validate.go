// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that required configuration is present and valid.
// A missing storage location is fatal; the catalog and LLM sections are
// optional and only checked when enabled.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStorage() error {
	switch c.Storage.Driver {
	case "duckdb":
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("DUCKDB_PATH is required when STORAGE_DRIVER=duckdb")
		}
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of: duckdb, postgres, got %q", c.Storage.Driver)
	}
	if c.Storage.PageSize < 1 {
		return fmt.Errorf("STORAGE_PAGE_SIZE must be positive, got %d", c.Storage.PageSize)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if !c.Catalog.Enabled() {
		return nil
	}
	if err := validateHTTPURL(c.Catalog.BaseURL, "ALADIN_BASE_URL"); err != nil {
		return err
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		return fmt.Errorf("ALADIN_REQUESTS_PER_SEC must be positive, got %v", c.Catalog.RequestsPerSecond)
	}
	if c.Catalog.MaxResults < 1 || c.Catalog.MaxResults > 100 {
		return fmt.Errorf("CATALOG_MAX_RESULTS must be between 1 and 100, got %d", c.Catalog.MaxResults)
	}
	if len(c.Catalog.Categories()) == 0 {
		return fmt.Errorf("CATALOG_CATEGORY_IDS must contain at least one numeric category")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.LLM.Enabled() {
		return nil
	}
	if err := validateHTTPURL(c.LLM.BaseURL, "OPENAI_BASE_URL"); err != nil {
		return err
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("OPENAI_MODEL is required when OPENAI_API_KEY is set")
	}
	if c.LLM.MaxOutputTokens < 1 {
		return fmt.Errorf("OPENAI_MAX_OUTPUT_TOKENS must be positive, got %d", c.LLM.MaxOutputTokens)
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must not be negative, got %d", c.LLM.MaxRetries)
	}
	return nil
}

// validateRecommend only checks the values that would make the engine
// misbehave; recommend.Config.Validate covers the rest at construction.
func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.TopKThemes < 1 {
		return fmt.Errorf("RECOMMEND_TOP_K_THEMES must be positive, got %d", r.TopKThemes)
	}
	if r.WeightMin <= 0 || r.WeightMax < r.WeightMin {
		return fmt.Errorf("RECOMMEND_WEIGHT_MIN/MAX must satisfy 0 < min <= max, got %v/%v", r.WeightMin, r.WeightMax)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	return nil
}

// validateHTTPURL validates that a URL has an http or https scheme and a host.
// Paths are allowed because both upstream APIs are addressed by base path.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
