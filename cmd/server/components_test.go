// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookpath/internal/api"
	"github.com/tomtom215/bookpath/internal/config"
	"github.com/tomtom215/bookpath/internal/database"
)

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cfg        config.CatalogConfig
		wantClient bool
		wantCloser bool
	}{
		{"disabled without key", config.CatalogConfig{CachePath: "/unused"}, false, false},
		{"memory cache only", config.CatalogConfig{TTBKey: "ttb", CacheTTL: time.Hour}, true, false},
		{"cache disabled by ttl", config.CatalogConfig{TTBKey: "ttb", CachePath: "set-but-ignored"}, true, false},
		{"badger cache", config.CatalogConfig{TTBKey: "ttb", CacheTTL: time.Hour, CachePath: "badger"}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := tt.cfg
			if cfg.CachePath == "badger" {
				cfg.CachePath = filepath.Join(t.TempDir(), "catalog-cache")
			}
			client, closer := newCatalog(cfg, zerolog.Nop())
			if (client != nil) != tt.wantClient {
				t.Errorf("client = %v, want present=%v", client, tt.wantClient)
			}
			if (closer != nil) != tt.wantCloser {
				t.Errorf("closer present = %v, want %v", closer != nil, tt.wantCloser)
			}
			if closer != nil {
				if err := closer(); err != nil {
					t.Errorf("closer() error = %v", err)
				}
			}
		})
	}
}

func TestNewTextClientsDisabled(t *testing.T) {
	t.Parallel()

	text := newTextClients(config.LLMConfig{}, zerolog.Nop())
	if text.guides != nil || text.memos != nil || text.reasons != nil {
		t.Errorf("expected nil generators without an API key, got %+v", text)
	}

	text = newTextClients(config.LLMConfig{APIKey: "sk-test", GuideMaxOutputTokens: 900, MemoMaxOutputTokens: 300}, zerolog.Nop())
	if text.guides == nil || text.memos == nil || text.reasons == nil {
		t.Errorf("expected generators with an API key, got %+v", text)
	}
}

func TestMiddlewareConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cfg         config.Config
		wantOrigins []string
		wantTimeout time.Duration
	}{
		{"defaults", config.Config{}, []string{"*"}, 60 * time.Second},
		{
			"overrides",
			config.Config{
				Security: config.SecurityConfig{CORSOrigins: []string{"https://log.example"}},
				Server:   config.ServerConfig{RequestTimeout: 5 * time.Second},
			},
			[]string{"https://log.example"},
			5 * time.Second,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := tt.cfg
			mw := middlewareConfig(&cfg)
			if len(mw.CORSAllowedOrigins) != len(tt.wantOrigins) || mw.CORSAllowedOrigins[0] != tt.wantOrigins[0] {
				t.Errorf("origins = %v, want %v", mw.CORSAllowedOrigins, tt.wantOrigins)
			}
			if mw.RequestTimeout != tt.wantTimeout {
				t.Errorf("timeout = %v, want %v", mw.RequestTimeout, tt.wantTimeout)
			}
		})
	}
}

func TestBuildComponentsWithoutExternalServices(t *testing.T) {
	t.Parallel()

	db, err := database.New(config.StorageConfig{Driver: database.DriverDuckDB, Path: ":memory:", PageSize: 100, MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	components, err := buildComponents(cfg, db, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildComponents() error = %v", err)
	}
	t.Cleanup(func() { _ = components.Close() })

	if components.Engine == nil || components.Library == nil || components.MemoWorker == nil {
		t.Fatalf("missing components: %+v", components)
	}
	if len(components.Engine.Categories()) != 0 {
		t.Errorf("Categories() = %v, want none", components.Engine.Categories())
	}

	handler := api.NewRouter(components.Handler, middlewareConfig(cfg)).SetupChi()
	for _, path := range []string{"/api/v1/health/ready", "/api/v1/books", "/api/v1/reading-logs"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, body %s", path, rec.Code, rec.Body.String())
		}
	}
}
