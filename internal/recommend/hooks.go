// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

var hookStopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`그리고 하지만 그래서 또한 아이 어린이 책 이야기 내용 그림 주인공 함께
		하는 합니다 있습니다 됩니다 있어요 있다 이다 것 수 더 좀 정말
		우리 너 저 그 이 저희 다양한 통해 대한 관련 모든 때 처럼`) {
		hookStopwords[w] = struct{}{}
	}
}

// PickHooks returns up to limit frequent words of a description, for the
// text generator to weave into a reason.
func PickHooks(text string, limit int) []string {
	if text == "" || limit <= 0 {
		return nil
	}
	tokens := strings.Fields(nonWordPattern.ReplaceAllString(text, " "))

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		if _, stop := hookStopwords[tok]; stop {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}
