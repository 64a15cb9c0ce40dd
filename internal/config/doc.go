// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package config provides layered configuration loading for Bookpath.

Configuration is assembled with Koanf v2 from three sources, lowest
precedence first: built-in defaults, an optional YAML file, and environment
variables. The result is validated once at startup; a missing storage
location is a fatal error.

# Environment Variables

Storage:

	STORAGE_DRIVER   duckdb (default) or postgres
	DUCKDB_PATH      DuckDB file path, ":memory:" for an ephemeral store
	DATABASE_URL     Postgres DSN (required for the postgres driver)

Catalog (optional, disabled without a key):

	ALADIN_TTB_KEY        Aladin TTB key (ALADIN_API_KEY is accepted too)
	CATALOG_CATEGORY_IDS  Comma-separated category ids for new arrivals (35101)
	CATALOG_CACHE_PATH    Badger directory for the persistent lookup cache

LLM (optional, disabled without a key):

	OPENAI_API_KEY   Responses API key
	OPENAI_MODEL     Model name (gpt-5-mini)

Server and logging:

	HTTP_PORT, HTTP_HOST, CORS_ORIGINS, LOG_LEVEL

Recommendation tuning uses RECOMMEND_* variables, for example
RECOMMEND_GENERIC_THEMES=family,friendship,daily life for an English
catalog.

# Example

	cfg, err := config.Load()
	if err != nil {
	    return fmt.Errorf("failed to load configuration: %w", err)
	}
*/
package config
