// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package catalog

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bookpath/internal/models"
)

// itemResponse is the TTB envelope shared by ItemLookUp, ItemSearch and
// ItemList. "item" is usually an array but a single match may arrive as an
// object, so it is decoded lazily.
type itemResponse struct {
	TotalResults int             `json:"totalResults"`
	Item         json.RawMessage `json:"item"`
	ErrorCode    int             `json:"errorCode"`
	ErrorMessage string          `json:"errorMessage"`
}

// Error codes reported in the response body with HTTP 200.
const (
	errorCodeNoItem = 8 // item id not found
)

func decodeItems(body []byte) ([]models.CatalogItem, error) {
	var env itemResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	if env.ErrorCode != 0 {
		if env.ErrorCode == errorCodeNoItem {
			return nil, fmt.Errorf("%s: %w", env.ErrorMessage, ErrNotFound)
		}
		return nil, fmt.Errorf("catalog error %d: %s", env.ErrorCode, env.ErrorMessage)
	}

	raw := bytes.TrimSpace(env.Item)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []models.CatalogItem{}, nil
	}

	if raw[0] == '{' {
		var one models.CatalogItem
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, fmt.Errorf("decode catalog item: %w", err)
		}
		return []models.CatalogItem{one}, nil
	}

	var items []models.CatalogItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode catalog items: %w", err)
	}
	return items, nil
}
