// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package guide

import (
	"errors"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// ErrNoJSON is returned when model output carries no JSON object.
var ErrNoJSON = errors.New("no json object in model output")

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// decodeObject decodes the outermost {...} span of text into v.
func decodeObject(text string, v interface{}) error {
	span := jsonObjectPattern.FindString(text)
	if span == "" {
		return ErrNoJSON
	}
	return json.Unmarshal([]byte(span), v)
}

// flexText is a field the model may send as a string or a list of strings.
// Lists are joined with commas.
type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexText(strings.TrimSpace(s))
		return nil
	}
	var list []interface{}
	if err := json.Unmarshal(data, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				if str = strings.TrimSpace(str); str != "" {
					parts = append(parts, str)
				}
			}
		}
		*f = flexText(strings.Join(parts, ","))
		return nil
	}
	// Numbers, objects and null read as empty.
	*f = ""
	return nil
}
