// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package cache provides the caches that sit in front of the Aladin catalog.

Aladin asks TTB clients to stay near one request per second, while a single
"today" request may look up dozens of ISBNs. Catalog responses change
rarely, so they are cached for hours.

# Components

  - Cache: thread-safe in-memory TTL cache with hit/miss statistics
  - BadgerStore: durable Store on BadgerDB with native per-key TTL
  - Layered: JSON cache with memory in front of an optional Store;
    survives restarts when CATALOG_CACHE_PATH is set

# Usage

	store, err := cache.OpenBadgerStore("/data/catalog-cache", "aladin:")
	if err != nil {
	    return err
	}
	lc := cache.NewLayered("catalog", 6*time.Hour, store, logger)
	defer lc.Close()

	var item models.CatalogItem
	if !lc.GetJSON("isbn:9788901234567", &item) {
	    item = fetch()
	    lc.SetJSON("isbn:9788901234567", item)
	}

# Thread Safety

All types are safe for concurrent use.
*/
package cache
