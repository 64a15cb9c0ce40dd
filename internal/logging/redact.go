// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package logging

import (
	"net/url"
	"strings"
)

// sensitiveParams are query parameters that carry credentials.
var sensitiveParams = []string{"ttbkey", "api_key", "apikey", "key", "token"}

// MaskSecret masks a secret, showing only the first and last 4 characters.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 12 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// RedactURL masks credential query parameters in a URL string.
// The catalog API authenticates with ttbkey in the query string, so request
// URLs must pass through here before being logged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[unparseable url]"
	}
	q := u.Query()
	changed := false
	for _, p := range sensitiveParams {
		if v := q.Get(p); v != "" {
			q.Set(p, MaskSecret(v))
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Truncate shortens s to at most maxLen bytes on a rune boundary.
// Upstream error bodies are truncated before logging.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut]) + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
