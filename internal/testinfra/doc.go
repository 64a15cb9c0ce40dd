// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

// Package testinfra provides container helpers for integration tests.
//
// It uses testcontainers-go to start a throwaway Postgres so that the
// postgres storage driver runs against a real server:
//
//	func TestPostgresStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//	    // database.New(config.StorageConfig{Driver: "postgres", DSN: pg.DSN})
//	}
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/database/...
//
// Tests skip when Docker is unavailable.
package testinfra
