// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package recommend

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/bookpath/internal/logging"
	"github.com/tomtom215/bookpath/internal/metrics"
	"github.com/tomtom215/bookpath/internal/textgen"
)

// Explainer attaches a reason to every selected candidate. Reasons are
// grounded rule fragments, optionally rephrased by a text generator.
type Explainer struct {
	gen     textgen.Generator
	timeout time.Duration
	logger  zerolog.Logger
}

// NewExplainer creates an explainer. gen may be nil, in which case every
// reason is rule text.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewExplainer(gen textgen.Generator, timeout time.Duration, logger zerolog.Logger) *Explainer {
	return &Explainer{
		gen:     gen,
		timeout: timeout,
		logger:  logging.ForComponent(logger, logging.ComponentExplainer),
	}
}

// ExplainAll explains candidates concurrently. The result is index-aligned
// with cands. A failure never affects other items.
func (e *Explainer) ExplainAll(ctx context.Context, cands []Candidate, p Profile, explicit []string) []Reason {
	out := make([]Reason, len(cands))
	g, gctx := errgroup.WithContext(ctx)
	for i := range cands {
		g.Go(func() error {
			out[i] = e.Explain(gctx, cands[i], p, explicit)
			metrics.RecordReasonSource(out[i].Source)
			return nil
		})
	}
	_ = g.Wait() // goroutines never fail
	return out
}

// Explain produces the reason for one candidate.
func (e *Explainer) Explain(ctx context.Context, c Candidate, p Profile, explicit []string) Reason {
	fallback := func(source string) Reason {
		return Reason{Text: RuleText(c, explicit), Source: source}
	}

	if !p.HasData {
		return fallback(SourceRuleNoData)
	}
	if e.gen == nil {
		return fallback(SourceRuleNoKey)
	}
	reasons := BuildRuleReasons(c, p, explicit)
	if len(reasons) == 0 {
		return fallback(SourceRuleEmptyReasons)
	}

	hooks := PickHooks(candidateDescription(c), hookLimit)
	prompt := reasonUserPrompt(c, p, reasons, hooks)

	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	text, err := e.gen.GenerateText(callCtx, reasonSystemPrompt, prompt)
	if err != nil {
		source := errorSource(err)
		e.logger.Debug().Err(err).Str("candidate", c.ID).Str("source", source).Msg("Reason generation fell back to rules")
		return fallback(source)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback(SourceRuleEmptyAI)
	}
	if !passesGuard(text) {
		return fallback(SourceRuleGuard)
	}
	return Reason{Text: text, Source: SourceAI}
}

func errorSource(err error) string {
	if errors.Is(err, textgen.ErrEmptyOutput) {
		return SourceRuleEmptyAI
	}
	var status interface{ HTTPStatusCode() int }
	if errors.As(err, &status) {
		if code := status.HTTPStatusCode(); code > 0 {
			return sourceRuleOpenAIPrefix + strconv.Itoa(code)
		}
	}
	return SourceRuleException
}
