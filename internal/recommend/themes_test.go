// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/bookpath/internal/models"
)

func TestParseThemes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"commas", " 동물, 가족 ,,우정 ", []string{"동물", "가족", "우정"}},
		{"mixed separators", "동물 | 가족/우정:모험：Friends\r\n이웃", []string{"동물", "가족", "우정", "모험", "friends", "이웃"}},
		{"drops long tokens", strings.Repeat("가", 21) + "," + strings.Repeat("나", 20), []string{strings.Repeat("나", 20)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseThemes(tt.raw)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseThemes(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSplitThemesOnlyUsesCommas(t *testing.T) {
	t.Parallel()

	got := SplitThemes("동물|가족, 우정 ,")
	want := []string{"동물|가족", "우정"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitThemes() = %v, want %v", got, want)
	}
}

func booksWithThemes(themes ...string) []models.Book {
	out := make([]models.Book, len(themes))
	for i, th := range themes {
		out[i] = models.Book{ID: string(rune('a' + i)), Themes: th}
	}
	return out
}

func TestThemeStatsWeight(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	// 10 books, 5 of them tagged 동물 (once each even when repeated).
	books := booksWithThemes(
		"동물, 동물", "동물", "동물, 모험", "동물", "동물",
		"모험", "우주", "", "가족", "바다",
	)
	stats := BuildThemeStats(books, cfg)

	if stats.N != 10 {
		t.Fatalf("N = %d, want 10", stats.N)
	}
	if df := stats.DocumentFrequency["동물"]; df != 5 {
		t.Fatalf("df(동물) = %d, want 5", df)
	}

	// ln(11/6)+1 = 1.6061, times the generic factor 0.7.
	if w := stats.Weight("동물"); math.Abs(w-1.1243) > 1e-3 {
		t.Errorf("Weight(동물) = %.4f, want about 1.124", w)
	}
	if w := stats.Weight(""); w != 1 {
		t.Errorf("Weight(\"\") = %v, want 1", w)
	}
	if w := stats.Weight("공룡"); w != cfg.WeightMax {
		t.Errorf("unseen theme weight = %v, want clamp to %v", w, cfg.WeightMax)
	}
	if w := stats.Weight(" 동물 "); math.Abs(w-stats.Weight("동물")) > 1e-12 {
		t.Errorf("weight should normalize its input, got %v", w)
	}
}

func TestWeightBoundedAndMonotonic(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	for _, theme := range []string{"모험", "가족"} {
		prev := math.Inf(1)
		for df := 0; df <= 20; df++ {
			themes := make([]string, 20)
			for i := 0; i < df; i++ {
				themes[i] = theme
			}
			w := BuildThemeStats(booksWithThemes(themes...), cfg).Weight(theme)
			if w < cfg.WeightMin || w > cfg.WeightMax {
				t.Fatalf("%s df=%d: weight %v outside [%v, %v]", theme, df, w, cfg.WeightMin, cfg.WeightMax)
			}
			if w > prev {
				t.Fatalf("%s df=%d: weight rose from %v to %v", theme, df, prev, w)
			}
			prev = w
		}
	}
}

func TestBuildThemeStatsEmptyLibrary(t *testing.T) {
	t.Parallel()

	stats := BuildThemeStats(nil, DefaultConfig())
	if stats.N != 1 {
		t.Errorf("N = %d, want floor of 1", stats.N)
	}
}
