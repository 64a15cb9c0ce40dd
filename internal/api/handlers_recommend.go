// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/bookpath/internal/recommend"
)

// childProfileView is the profile summary returned with every list.
type childProfileView struct {
	HasData            bool                   `json:"hasData"`
	AgeMonths          int                    `json:"ageMonths"`
	EmotionSensitivity string                 `json:"emotionSensitivity"`
	BooksPerDay        float64                `json:"booksPerDay"`
	ThemePreferences   []recommend.ThemeScore `json:"themePreferences,omitempty"`
}

func newChildProfileView(p recommend.Profile, withThemes bool) childProfileView {
	v := childProfileView{
		HasData:            p.HasData,
		AgeMonths:          p.AgeMonths,
		EmotionSensitivity: p.EmotionSensitivity,
		BooksPerDay:        p.BooksPerDay,
	}
	if withThemes {
		v.ThemePreferences = p.ThemePreferences
		if v.ThemePreferences == nil {
			v.ThemePreferences = []recommend.ThemeScore{}
		}
	}
	return v
}

// reasonFields are shared by both list item shapes. recommendationReason
// repeats why for older clients.
type reasonFields struct {
	ScoreBreakdown       recommend.RoundedBreakdown `json:"score_breakdown"`
	Why                  string                     `json:"why"`
	RecommendationReason string                     `json:"recommendationReason"`
	RecommendationSource string                     `json:"recommendationSource"`
	Evidence             []string                   `json:"evidence"`
}

func newReasonFields(rec recommend.Recommendation) reasonFields {
	evidence := rec.Score.Evidence
	if evidence == nil {
		evidence = []string{}
	}
	return reasonFields{
		ScoreBreakdown:       rec.Score.Breakdown.Rounded(),
		Why:                  rec.Reason.Text,
		RecommendationReason: rec.Reason.Text,
		RecommendationSource: rec.Reason.Source,
		Evidence:             evidence,
	}
}

// libraryBookView is one item of the today list.
type libraryBookView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	PubYear   *int   `json:"pubYear"`
	Cover     string `json:"cover"`
	Theme     string `json:"theme"`
	Age       string `json:"age"`
	Guide     string `json:"guide"`
	reasonFields
}

// catalogBookView is one item of the new-books list.
type catalogBookView struct {
	ISBN        string  `json:"isbn"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Publisher   string  `json:"publisher"`
	PubDate     string  `json:"pubDate"`
	Cover       string  `json:"cover"`
	Description string  `json:"description"`
	Price       int     `json:"price"`
	Rating      float64 `json:"rating"`
	Score       float64 `json:"score"`
	Link        string  `json:"link"`
	reasonFields
}

type todayResponse struct {
	Total        int               `json:"total"`
	ChildProfile childProfileView  `json:"childProfile"`
	Meta         todayMeta         `json:"meta"`
	Books        []libraryBookView `json:"books"`
}

type todayMeta struct {
	ExplicitInterests []string `json:"explicitInterests"`
}

type newBooksResponse struct {
	Total        int               `json:"total"`
	Categories   []int             `json:"categories"`
	ChildProfile childProfileView  `json:"childProfile"`
	Books        []catalogBookView `json:"books"`
}

// TodayRecommendations handles GET /api/v1/recommendations/today.
func (h *Handler) TodayRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res, err := h.recommender.Today(r.Context(), recommendationRequest(r, h.maxInterests))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to compute recommendations", err)
		return
	}

	books := make([]libraryBookView, 0, len(res.Items))
	for _, rec := range res.Items {
		if rec.Book == nil {
			continue
		}
		b := rec.Book
		books = append(books, libraryBookView{
			ID:           b.ID,
			Title:        b.Title,
			Author:       b.Author,
			Publisher:    b.Publisher,
			PubYear:      b.PubYear,
			Cover:        b.CoverImage,
			Theme:        b.Themes,
			Age:          b.AgeRange,
			Guide:        b.ParentGuide,
			reasonFields: newReasonFields(rec),
		})
	}

	interests := res.ExplicitInterests
	if interests == nil {
		interests = []string{}
	}
	respondSuccess(w, http.StatusOK, todayResponse{
		Total:        len(books),
		ChildProfile: newChildProfileView(res.Profile, false),
		Meta:         todayMeta{ExplicitInterests: interests},
		Books:        books,
	}, start)
}

// NewBookRecommendations handles GET /api/v1/recommendations/new-books.
func (h *Handler) NewBookRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res, err := h.recommender.NewBooks(r.Context(), recommendationRequest(r, 0))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to compute recommendations", err)
		return
	}

	books := make([]catalogBookView, 0, len(res.Items))
	for _, rec := range res.Items {
		if rec.Item == nil {
			continue
		}
		it := rec.Item
		books = append(books, catalogBookView{
			ISBN:         it.PreferredISBN(),
			Title:        it.Title,
			Author:       it.Author,
			Publisher:    it.Publisher,
			PubDate:      it.PubDate,
			Cover:        it.Cover,
			Description:  it.Description,
			Price:        it.PriceStandard,
			Rating:       it.CustomerReviewRank,
			Score:        rec.Score.Breakdown.Rounded().Total,
			Link:         it.Link,
			reasonFields: newReasonFields(rec),
		})
	}

	categories := h.recommender.Categories()
	if categories == nil {
		categories = []int{}
	}
	respondSuccess(w, http.StatusOK, newBooksResponse{
		Total:        len(books),
		Categories:   categories,
		ChildProfile: newChildProfileView(res.Profile, true),
		Books:        books,
	}, start)
}

// InterestCandidates handles GET /api/v1/recommendations/interest-candidates.
func (h *Handler) InterestCandidates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res, err := h.recommender.InterestCandidates(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to compute interest candidates", err)
		return
	}
	respondSuccess(w, http.StatusOK, res, start)
}
