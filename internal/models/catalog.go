// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package models

import "strconv"

// CatalogItem is a book as returned by the external catalog (Aladin TTB).
type CatalogItem struct {
	ISBN13             string  `json:"isbn13"`
	ISBN               string  `json:"isbn"`
	Title              string  `json:"title"`
	Author             string  `json:"author"`
	Publisher          string  `json:"publisher"`
	PubDate            string  `json:"pubDate"`
	Cover              string  `json:"cover"`
	Description        string  `json:"description"`
	PriceStandard      int     `json:"priceStandard"`
	Link               string  `json:"link"`
	CustomerReviewRank float64 `json:"customerReviewRank"`
	CategoryName       string  `json:"categoryName,omitempty"`
}

// PreferredISBN returns ISBN13 when present, else ISBN.
func (c CatalogItem) PreferredISBN() string {
	if c.ISBN13 != "" {
		return c.ISBN13
	}
	return c.ISBN
}

// PubYear parses the first four characters of PubDate ("2024-05-01").
func (c CatalogItem) PubYear() *int {
	if len(c.PubDate) < 4 {
		return nil
	}
	y, err := strconv.Atoi(c.PubDate[:4])
	if err != nil {
		return nil
	}
	return &y
}

// ExcludedISBN is a catalog ISBN hidden from new arrival recommendations.
type ExcludedISBN struct {
	UserID string `json:"user_id"`
	ISBN13 string `json:"isbn13"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// DefaultUserID is the owner of exclusions when no user is given.
const DefaultUserID = "default"
