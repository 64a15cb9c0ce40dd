// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package textgen calls the OpenAI Responses API (POST /v1/responses) for
plain text generation.

	client := textgen.NewClient(cfg.LLM, logger)
	guide := client.WithMaxOutputTokens(cfg.LLM.GuideMaxOutputTokens)
	text, err := guide.GenerateText(ctx, "", prompt)

Requests use text.format=text, the configured verbosity and reasoning
effort, and max_output_tokens. The default model is gpt-5-mini.

# Failures

Non-2xx answers are returned as *HTTPError; callers read the status with
HTTPStatusCode() to tag degraded output (rule_openai_429 and so on).
429 and 5xx answers and transport errors are retried with exponential
backoff, honoring Retry-After. A reply with no text returns ErrEmptyOutput.

All calls share a token bucket, a concurrency limit and a circuit breaker
named "openai".
*/
package textgen
