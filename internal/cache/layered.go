// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package cache

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bookpath/internal/logging"
	"github.com/tomtom215/bookpath/internal/metrics"
)

// Layered is a two level JSON cache: an in-memory TTL cache in front of an
// optional durable Store. Values are kept as encoded JSON in both levels so
// that callers always receive a private copy.
//
// Store errors are logged and treated as misses; the cache never fails the
// caller.
type Layered struct {
	name   string
	mem    *Cache
	disk   Store
	ttl    time.Duration
	logger zerolog.Logger
}

// NewLayered creates a layered cache. disk may be nil for memory only.
// name labels the cache_hits_total and cache_misses_total metrics.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLayered(name string, ttl time.Duration, disk Store, logger zerolog.Logger) *Layered {
	return &Layered{
		name:   name,
		mem:    New(ttl),
		disk:   disk,
		ttl:    ttl,
		logger: logger.With().Str("component", logging.ComponentCache).Str("cache", name).Logger(),
	}
}

// GetJSON decodes the cached value for key into dst and reports whether it
// was found. A disk hit is promoted to memory.
func (l *Layered) GetJSON(key string, dst interface{}) bool {
	if raw, ok := l.mem.Get(key); ok {
		if b, isBytes := raw.([]byte); isBytes && json.Unmarshal(b, dst) == nil {
			metrics.RecordCacheLookup(l.name+"_memory", true)
			return true
		}
		l.mem.Delete(key)
	}
	metrics.RecordCacheLookup(l.name+"_memory", false)

	if l.disk == nil {
		return false
	}

	b, ok, err := l.disk.Get(key)
	if err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("Durable cache read failed")
		return false
	}
	if !ok {
		metrics.RecordCacheLookup(l.name+"_disk", false)
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		_ = l.disk.Delete(key)
		metrics.RecordCacheLookup(l.name+"_disk", false)
		return false
	}
	metrics.RecordCacheLookup(l.name+"_disk", true)
	l.mem.Set(key, b)
	return true
}

// SetJSON encodes v and stores it in both levels.
func (l *Layered) SetJSON(key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("Value not cacheable")
		return
	}
	l.mem.Set(key, b)
	if l.disk != nil {
		if err := l.disk.Set(key, b, l.ttl); err != nil {
			l.logger.Warn().Err(err).Str("key", key).Msg("Durable cache write failed")
		}
	}
}

// Delete removes key from both levels.
func (l *Layered) Delete(key string) {
	l.mem.Delete(key)
	if l.disk != nil {
		if err := l.disk.Delete(key); err != nil {
			l.logger.Warn().Err(err).Str("key", key).Msg("Durable cache delete failed")
		}
	}
}

// Stats returns the memory level statistics.
func (l *Layered) Stats() Stats {
	return l.mem.GetStats()
}

// Close stops the memory sweeper and closes the durable store.
func (l *Layered) Close() error {
	_ = l.mem.Close()
	if l.disk != nil {
		return l.disk.Close()
	}
	return nil
}
