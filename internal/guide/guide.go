// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package guide

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookpath/internal/logging"
	"github.com/tomtom215/bookpath/internal/models"
	"github.com/tomtom215/bookpath/internal/textgen"
)

const (
	guideAttempts = 2
	strictSuffix  = "\n\n반드시 JSON만 출력하고 다른 설명은 넣지 마세요."
)

// ErrUnavailable is returned when no text generator is configured.
var ErrUnavailable = errors.New("text generation not configured")

// Guide is the reading guide attached to a book. Themes is comma-joined.
type Guide struct {
	Themes      string `json:"themes"`
	AgeRange    string `json:"ageRange"`
	ParentGuide string `json:"parentGuide"`
	Activities  string `json:"activities"`
}

// IsEmpty reports whether no field was generated.
func (g Guide) IsEmpty() bool {
	return g.Themes == "" && g.AgeRange == "" && g.ParentGuide == "" && g.Activities == ""
}

// Patch returns a book update setting the non-empty guide fields.
func (g Guide) Patch() models.BookPatch {
	var p models.BookPatch
	set := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	set(&p.Themes, g.Themes)
	set(&p.AgeRange, g.AgeRange)
	set(&p.ParentGuide, g.ParentGuide)
	set(&p.Activities, g.Activities)
	return p
}

type catalogGuideReply struct {
	Themes      flexText `json:"themes"`
	AgeRange    flexText `json:"ageRange"`
	ParentGuide flexText `json:"parentGuide"`
	Activities  flexText `json:"activities"`
}

type regeneratedReply struct {
	Themes      flexText `json:"테마"`
	AgeRange    flexText `json:"연령"`
	ParentGuide flexText `json:"부모_읽기_가이드"`
	Activities  flexText `json:"연계놀이"`
}

// BookInfo is what the regenerate prompt knows about a book.
type BookInfo struct {
	Title       string
	Author      string
	Description string
}

// Generator produces guides and memo summaries.
type Generator struct {
	guides textgen.Generator
	memos  textgen.Generator
	logger zerolog.Logger
}

// NewGenerator creates a generator. memos may share guides; either may be
// nil to disable that prompt family.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewGenerator(guides, memos textgen.Generator, logger zerolog.Logger) *Generator {
	return &Generator{
		guides: guides,
		memos:  memos,
		logger: logging.ForComponent(logger, logging.ComponentGuide),
	}
}

// Enabled reports whether guide prompts can run.
func (g *Generator) Enabled() bool {
	return g != nil && g.guides != nil
}

// ForCatalogItem generates the guide of a catalog record. It makes up to two
// attempts and returns an empty guide when both fail.
func (g *Generator) ForCatalogItem(ctx context.Context, item models.CatalogItem) Guide {
	if !g.Enabled() {
		return Guide{}
	}
	log := logging.FromContext(ctx, g.logger)
	prompt := catalogGuidePrompt(item)

	for attempt := 1; attempt <= guideAttempts; attempt++ {
		text, err := g.guides.GenerateText(ctx, "", prompt)
		if err != nil {
			log.Debug().Err(err).Int("attempt", attempt).Str("isbn", item.PreferredISBN()).Msg("Guide generation failed")
			if ctx.Err() != nil {
				break
			}
			continue
		}
		var reply catalogGuideReply
		if err := decodeObject(text, &reply); err != nil {
			log.Debug().Err(err).Int("attempt", attempt).Str("output", logging.Truncate(text, 200)).Msg("Guide output did not parse")
			prompt = catalogGuidePrompt(item) + strictSuffix
			continue
		}
		return Guide{
			Themes:      string(reply.Themes),
			AgeRange:    string(reply.AgeRange),
			ParentGuide: string(reply.ParentGuide),
			Activities:  string(reply.Activities),
		}
	}
	return Guide{}
}

// Regenerate produces a fresh guide for a stored book.
func (g *Generator) Regenerate(ctx context.Context, info BookInfo) (Guide, error) {
	if !g.Enabled() {
		return Guide{}, ErrUnavailable
	}
	text, err := g.guides.GenerateText(ctx, "", regeneratePrompt(info))
	if err != nil {
		return Guide{}, fmt.Errorf("generate guide: %w", err)
	}
	var reply regeneratedReply
	if err := decodeObject(text, &reply); err != nil {
		return Guide{}, fmt.Errorf("parse guide: %w", err)
	}
	return Guide{
		Themes:      string(reply.Themes),
		AgeRange:    string(reply.AgeRange),
		ParentGuide: string(reply.ParentGuide),
		Activities:  string(reply.Activities),
	}, nil
}

func catalogGuidePrompt(item models.CatalogItem) string {
	desc := item.Description
	if desc == "" {
		desc = "정보 없음"
	}
	return fmt.Sprintf(`다음 어린이 책에 대한 정보를 분석하여 JSON 형식으로 답변해주세요.

책 정보:
- 제목: %s
- 저자: %s
- 출판사: %s
- 설명: %s

다음 형식으로 JSON만 출력해주세요:
{
  "themes": ["테마1", "테마2", "테마3"],
  "ageRange": "4-7세",
  "parentGuide": "부모가 읽어줄 때 주의할 점이나 대화 주제",
  "activities": "책과 연계한 놀이 활동 제안"
}`, item.Title, item.Author, item.Publisher, desc)
}

func regeneratePrompt(info BookInfo) string {
	desc := ""
	if info.Description != "" {
		desc = "설명: " + info.Description + "\n"
	}
	return fmt.Sprintf(`다음 어린이 책에 대한 가이드를 생성해주세요:

책 제목: %s
저자: %s
%s
다음 항목을 JSON 형식으로만 답변:
{
  "테마": "주요 테마 3개 (쉼표 구분)",
  "연령": "추정 연령대 (예: 3-7세)",
  "부모_읽기_가이드": "150자 내외 부모 가이드",
  "연계놀이": "150자 내외 연계 놀이 아이디어"
}`, info.Title, info.Author, desc)
}
