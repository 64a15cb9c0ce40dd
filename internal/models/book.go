// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package models

import (
	"strings"
	"time"
)

// Book is a picture book stored in the library.
//
// Themes is a comma-joined tag list ("동물, 가족, 우정"). AgeRange is free text
// such as "4-7" or "5~7세". Both are usually produced by guide generation.
type Book struct {
	ID          string    `json:"id"`
	ISBN        string    `json:"isbn"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Publisher   string    `json:"publisher"`
	PubYear     *int      `json:"pub_year,omitempty"`
	CoverImage  string    `json:"cover_image"`
	Description string    `json:"description"`
	Themes      string    `json:"themes"`
	AgeRange    string    `json:"age_range"`
	ParentGuide string    `json:"parent_guide"`
	Activities  string    `json:"activities"`
	Interested  bool      `json:"interested"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookPatch is a partial book update. Nil fields are left untouched.
type BookPatch struct {
	ISBN        *string
	Title       *string
	Author      *string
	Publisher   *string
	PubYear     *int
	CoverImage  *string
	Description *string
	Themes      *string
	AgeRange    *string
	ParentGuide *string
	Activities  *string
	Interested  *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p BookPatch) IsEmpty() bool {
	return p.ISBN == nil && p.Title == nil && p.Author == nil && p.Publisher == nil &&
		p.PubYear == nil && p.CoverImage == nil && p.Description == nil && p.Themes == nil &&
		p.AgeRange == nil && p.ParentGuide == nil && p.Activities == nil && p.Interested == nil
}

// Apply copies the non-nil patch fields onto b.
func (p BookPatch) Apply(b *Book) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&b.ISBN, p.ISBN)
	setStr(&b.Title, p.Title)
	setStr(&b.Author, p.Author)
	setStr(&b.Publisher, p.Publisher)
	setStr(&b.CoverImage, p.CoverImage)
	setStr(&b.Description, p.Description)
	setStr(&b.Themes, p.Themes)
	setStr(&b.AgeRange, p.AgeRange)
	setStr(&b.ParentGuide, p.ParentGuide)
	setStr(&b.Activities, p.Activities)
	if p.PubYear != nil {
		y := *p.PubYear
		b.PubYear = &y
	}
	if p.Interested != nil {
		b.Interested = *p.Interested
	}
}

// NormalizeISBN strips everything except digits and the X check character.
func NormalizeISBN(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= '0' && r <= '9') || r == 'X' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
