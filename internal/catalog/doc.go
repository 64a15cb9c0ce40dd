// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package catalog is a client for the Aladin TTB open API, the Korean book
catalog used to fill in book metadata and to list new arrivals.

Endpoints used:

	ItemLookUp.aspx  itemIdType=ISBN13&ItemId=...    LookupByISBN
	ItemSearch.aspx  QueryType=Title&Query=...       SearchByTitle
	ItemList.aspx    QueryType=ItemNewSpecial        NewArrivals

All requests ask for output=js (JSON) and Version=20131101.

# Reliability

The catalog is treated as unreliable. Every call goes through:

  - a token bucket limiter (ALADIN_REQUESTS_PER_SEC, default 1/s)
  - a circuit breaker named "catalog"; an ISBN that does not exist is not
    counted as a failure
  - a layered cache keyed by request (memory, plus Badger when
    CATALOG_CACHE_PATH is set)

Callers degrade on errors: enrichment falls back to keyword themes and new
arrival lists come back empty.

The TTB key travels in the query string, so URLs are passed through
logging.RedactURL before they are logged.
*/
package catalog
