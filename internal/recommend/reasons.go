// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxRuleReasons  = 3
	maxReasonThemes = 2
	hookLimit       = 2
	minReasonRunes  = 40
)

// bannedPhrases are promotional claims the generated text must not make.
var bannedPhrases = []string{"도움이 됩니다", "성장을 돕습니다", "배울 수 있습니다"}

var (
	evidenceThemeWord = regexp.MustCompile(`테마\s?`)
	multiSpace        = regexp.MustCompile(`\s+`)
)

// reasonSystemPrompt limits the model to rephrasing the given grounds.
const reasonSystemPrompt = `
너는 부모에게 아동 도서를 추천하는 문장 작성자다.
아래 [추천 근거]에 있는 내용만 사용해서 자연스러운 한국어 문장으로 풀어써라.
규칙:
- 근거를 바꾸거나 새 사실을 만들지 마라(추가 정보 추측 금지).
- 광고/과장 표현 금지: "큰 도움이 됩니다", "성장을 돕습니다", "배울 수 있습니다" 금지.
- 모든 책에 공통으로 들어갈 수 있는 뻔한 문장 피하기.
- 2~4문장, 120~220자 내외.
- 가능하면 [책 설명에서 잡은 포인트]를 1개 이상 자연스럽게 포함해(없으면 생략).
`

func explicitFragment(matches []string) string {
	return fmt.Sprintf("요즘 관심사로 선택한 '%s'와 잘 맞아요", strings.Join(firstN(matches, maxReasonThemes), ", "))
}

// reasonExplicitMatches matches interests against the comma-split stored
// themes of a library book. Catalog items never carry explicit matches.
func reasonExplicitMatches(c Candidate, explicit []string) []string {
	if c.Book == nil || len(explicit) == 0 {
		return nil
	}
	themes := SplitThemes(c.Book.Themes)
	var out []string
	for _, interest := range explicit {
		for _, t := range themes {
			if t == interest {
				out = append(out, interest)
				break
			}
		}
	}
	return out
}

// BuildRuleReasons returns up to three grounded reason fragments in
// priority order: explicit interest, theme, engagement, comfort, age.
func BuildRuleReasons(c Candidate, p Profile, explicit []string) []string {
	b := c.Score.Breakdown
	reasons := make([]string, 0, 5)

	if matches := reasonExplicitMatches(c, explicit); len(matches) > 0 {
		reasons = append(reasons, explicitFragment(matches))
	}

	var themes []string
	if c.Book != nil {
		themes = displayThemes(c.Book.Themes)
	} else {
		themes = c.Score.Themes
	}
	if len(themes) > 0 {
		joined := strings.Join(firstN(themes, maxReasonThemes), ", ")
		if b.ThemePreference >= 30 {
			reasons = append(reasons, fmt.Sprintf("아이의 선호 테마(%s)와 잘 맞아요", joined))
		} else {
			reasons = append(reasons, fmt.Sprintf("이번엔 %s 테마로 가볍게 확장해볼 수 있어요", joined))
		}
	}

	if len(c.Score.Evidence) > 0 {
		e := evidenceThemeWord.ReplaceAllString(c.Score.Evidence[0], "")
		e = multiSpace.ReplaceAllString(e, " ")
		reasons = append(reasons, fmt.Sprintf("최근 기록에서 %s 경향이 있어요", e))
	} else if b.Engagement >= 12 {
		reasons = append(reasons, "끝까지 읽거나 집중도가 높았던 유형과 가까워요")
	}

	if p.EmotionSensitivity == SensitivityHigh {
		if b.Comfort >= 15 {
			reasons = append(reasons, "감정적으로 편안하게 읽기 좋은 흐름을 우선했어요")
		} else {
			reasons = append(reasons, "민감할 수 있는 요소는 조심해서 선택했어요")
		}
	} else if b.Comfort >= 15 {
		reasons = append(reasons, "부담 없이 편안하게 즐길 수 있는 편이에요")
	}

	if c.Book != nil && c.Book.AgeRange != "" {
		reasons = append(reasons, fmt.Sprintf("연령 안내(%s)를 참고해도 무난해요", c.Book.AgeRange))
	}

	if len(reasons) > maxRuleReasons {
		reasons = reasons[:maxRuleReasons]
	}
	return reasons
}

const ruleFallbackText = "아이의 발달 단계에 맞는 책입니다"

// RuleText is the deterministic reason used whenever generated text is
// unavailable or rejected.
func RuleText(c Candidate, explicit []string) string {
	b := c.Score.Breakdown
	var parts []string

	if c.Item != nil {
		if b.ThemePreference > 30 {
			parts = append(parts, "최근 선호 소재와 가까워요")
		}
		if b.Engagement > 10 {
			parts = append(parts, "집중/완독 반응이 좋았던 유형과 비슷해요")
		}
		if b.Comfort > 15 {
			parts = append(parts, "편안하게 읽기 좋은 톤이에요")
		}
	} else {
		if matches := reasonExplicitMatches(c, explicit); len(matches) > 0 {
			parts = append(parts, explicitFragment(matches))
		}
		if b.ThemePreference > 30 {
			parts = append(parts, "좋아하는 테마와 일치합니다")
		}
		if b.Engagement > 10 {
			parts = append(parts, "끝까지 읽거나 집중했던 유형입니다")
		}
		if b.Comfort > 15 {
			parts = append(parts, "안정적이고 편안한 내용입니다")
		}
	}
	if len(c.Score.Evidence) > 0 {
		parts = append(parts, c.Score.Evidence[0])
	}

	if len(parts) == 0 {
		return ruleFallbackText
	}
	return strings.Join(parts, ", ") + "입니다."
}

// reasonUserPrompt lays out the grounds the model may use.
func reasonUserPrompt(c Candidate, p Profile, reasons, hooks []string) string {
	var sb strings.Builder
	sb.WriteString("\n[책 정보]\n")
	switch {
	case c.Book != nil:
		fmt.Fprintf(&sb, "- 제목: %s\n", c.Book.Title)
		fmt.Fprintf(&sb, "- 테마: %s\n", orDefault(c.Book.Themes, "없음"))
		fmt.Fprintf(&sb, "- 연령: %s\n", orDefault(c.Book.AgeRange, "정보 없음"))
	case c.Item != nil:
		interested := "아니오"
		if c.Interested {
			interested = "예"
		}
		fmt.Fprintf(&sb, "- 제목: %s\n", c.Item.Title)
		fmt.Fprintf(&sb, "- 카테고리: %s\n", orDefault(c.Item.CategoryName, "정보 없음"))
		fmt.Fprintf(&sb, "- 발행일: %s\n", orDefault(c.Item.PubDate, "정보 없음"))
		fmt.Fprintf(&sb, "- 관심 표시(내 DB): %s\n", interested)
	}

	sb.WriteString("\n[아이 정보]\n")
	fmt.Fprintf(&sb, "- 나이: %d세 %d개월\n", p.AgeMonths/12, p.AgeMonths%12)
	fmt.Fprintf(&sb, "- 감정 예민도: %s\n", p.EmotionSensitivity)

	sb.WriteString("\n[추천 근거]\n")
	sb.WriteString("- " + strings.Join(reasons, "\n- ") + "\n")

	sb.WriteString("\n[책 설명에서 잡은 포인트]\n")
	if len(hooks) > 0 {
		sb.WriteString("- " + strings.Join(hooks, ", ") + "\n")
	} else {
		sb.WriteString("- 없음\n")
	}

	sb.WriteString("\n위 내용을 바탕으로 추천 이유를 작성해줘.\n")
	return sb.String()
}

// passesGuard rejects short text and promotional phrasing.
func passesGuard(text string) bool {
	if utf8.RuneCountInString(text) < minReasonRunes {
		return false
	}
	for _, phrase := range bannedPhrases {
		if strings.Contains(text, phrase) {
			return false
		}
	}
	return true
}

func candidateDescription(c Candidate) string {
	switch {
	case c.Book != nil:
		return c.Book.Description
	case c.Item != nil:
		return c.Item.Description
	default:
		return ""
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
