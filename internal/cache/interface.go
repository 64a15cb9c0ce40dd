// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package cache

import "time"

// Cacher defines the interface for in-process cache implementations.
//
//	var c Cacher = cache.New(6 * time.Hour)
//	c.Set("key", value)
//	if val, ok := c.Get("key"); ok {
//	    // Use cached value
//	}
type Cacher interface {
	// Get retrieves a value from the cache.
	// Returns the value and true if found and not expired.
	Get(key string) (interface{}, bool)

	// Set stores a value in the cache with the default TTL.
	Set(key string, value interface{})

	// SetWithTTL stores a value with a custom TTL.
	SetWithTTL(key string, value interface{}, ttl time.Duration)

	// Delete removes a value from the cache.
	Delete(key string)

	// Clear removes all entries from the cache.
	Clear()

	// GetStats returns cache statistics.
	GetStats() Stats

	// HitRate returns the cache hit rate as a percentage.
	HitRate() float64
}

// Store is a durable byte-oriented key/value store with per-key expiry.
// BadgerStore is the production implementation.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent or
	// expired.
	Get(key string) (value []byte, ok bool, err error)

	// Set stores value under key. A ttl <= 0 stores without expiry.
	Set(key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	Close() error
}

// Verify interface implementations at compile time
var (
	_ Cacher = (*Cache)(nil)
	_ Store  = (*BadgerStore)(nil)
)
