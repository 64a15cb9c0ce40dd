// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import "strings"

// keywordTheme maps a theme to the words that suggest it in a title or
// description. Used for catalog items that are not in the library.
type keywordTheme struct {
	theme    string
	keywords []string
}

var keywordThemes = []keywordTheme{
	{"동물", []string{"동물", "강아지", "고양이", "곰", "토끼", "펭귄", "사자", "호랑이", "여우", "늑대"}},
	{"가족", []string{"가족", "엄마", "아빠", "할머니", "할아버지", "동생", "형", "누나", "오빠"}},
	{"친구", []string{"친구", "우정", "함께", "같이", "사이좋게"}},
	{"자연", []string{"자연", "숲", "바다", "하늘", "나무", "꽃", "비", "눈", "구름", "산"}},
	{"일상", []string{"일상", "하루", "아침", "저녁", "잠", "밥", "학교", "유치원", "놀이", "산책"}},
	{"유머", []string{"웃음", "재미", "즐거", "행복", "엉뚱", "우스", "코믹"}},
}

// triggerKeywords lower comfort for emotionally sensitive children.
var triggerKeywords = []string{"갈등", "공포", "슬픔", "이별", "무서움", "놀람", "화남"}

// safeThemes raise comfort when no trigger was found.
var safeThemes = []string{"일상", "유머", "가족", "친구", "동물", "자연"}

// excludedKeywords drop activity books and merchandise from new arrivals.
var excludedKeywords = []string{
	"캐릭터", "스티커", "색칠", "만들기", "퍼즐", "카드",
	"세트", "DVD", "교구", "블록",
	"워크북", "문제집", "학습지",
}

// keywordThemesFor scans text for the keyword table. text must be lowercased.
func keywordThemesFor(text string) []string {
	var out []string
	for _, kt := range keywordThemes {
		if containsAny(text, kt.keywords) {
			out = append(out, kt.theme)
		}
	}
	return out
}

// IsExcludedTitle reports whether a catalog item looks like merchandise
// rather than a picture book.
func IsExcludedTitle(title, description string) bool {
	text := strings.ToLower(title + " " + description)
	for _, kw := range excludedKeywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func hasSafeTheme(themes []string) bool {
	for _, t := range themes {
		if containsAny(t, safeThemes) {
			return true
		}
	}
	return false
}
