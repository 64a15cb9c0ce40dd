// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package guide

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/bookpath/internal/logging"
	"github.com/tomtom215/bookpath/internal/models"
)

// Memo summary outcomes, used as metric labels.
const (
	MemoResultOK          = "ok"
	MemoResultParseFailed = "parse_failed"
	MemoResultGenFailed   = "gen_failed"
)

type memoReply struct {
	Liked    flexText `json:"좋아한요소"`
	Disliked flexText `json:"싫어한요소"`
	Triggers flexText `json:"트리거"`
}

// SummarizeMemo extracts the liked, disliked and trigger elements of a memo.
// It never fails: unparsable output yields models.MemoSummaryParseFailed and
// a failed call yields models.MemoSummaryGenFailed. The second result is one
// of the MemoResult constants.
func (g *Generator) SummarizeMemo(ctx context.Context, memo string) (models.MemoSummary, string) {
	if g == nil || g.memos == nil {
		return models.MemoSummaryGenFailed, MemoResultGenFailed
	}
	text, err := g.memos.GenerateText(ctx, "", memoPrompt(memo))
	if err != nil {
		log := logging.FromContext(ctx, g.logger)
		log.Debug().Err(err).Msg("Memo summary generation failed")
		return models.MemoSummaryGenFailed, MemoResultGenFailed
	}
	var reply memoReply
	if err := decodeObject(text, &reply); err != nil {
		return models.MemoSummaryParseFailed, MemoResultParseFailed
	}
	return models.MemoSummary{
		Liked:    orNone(string(reply.Liked)),
		Disliked: orNone(string(reply.Disliked)),
		Triggers: orNone(string(reply.Triggers)),
	}, MemoResultOK
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.NoneValue
	}
	return s
}

func memoPrompt(memo string) string {
	return fmt.Sprintf(`다음은 아이가 책을 읽은 후 부모가 작성한 메모입니다. 메모를 분석하여 다음 형식으로 JSON만 출력해주세요:

메모: %s

다음 형식으로 JSON만 출력:
{
  "좋아한요소": "아이가 좋아했거나 관심을 보인 요소들을 나열 (예: 동물, 색깔, 소리, 반복 등)",
  "싫어한요소": "아이가 싫어했거나 피했던 요소들 (없으면 '없음')",
  "트리거": "아이의 감정이나 행동을 유발한 트리거 요소들 (예: 갈등, 이별, 공포, 슬픔, 놀람 등, 없으면 '없음')"
}

중요:
- 메모에 명시적으로 언급된 내용만 추출
- 추측하지 말고 메모 내용만 기반으로 작성
- 없으면 '없음'으로 표시`, memo)
}
