// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package textgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/bookpath/internal/breaker"
	"github.com/tomtom215/bookpath/internal/config"
	"github.com/tomtom215/bookpath/internal/logging"
	"github.com/tomtom215/bookpath/internal/metrics"
)

const (
	responsesPath = "/v1/responses"
	maxErrorBody  = 512
	maxBackoff    = 10 * time.Second
)

// ErrEmptyOutput is returned when the model answered without any text,
// typically because the output token budget was spent on reasoning.
var ErrEmptyOutput = errors.New("model returned no output text")

// Generator produces free text from a system and a user prompt.
// *Client implements it; the recommendation and guide code depend on this
// interface only.
type Generator interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
}

var _ Generator = (*Client)(nil)

// HTTPError is a non-2xx answer from the API.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

// HTTPStatusCode returns the response status.
func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// retryable reports whether a failed attempt may succeed when repeated.
func retryable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	// Transport errors other than cancellation.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Client calls the OpenAI Responses API. The rate limiter, the concurrency
// semaphore and the circuit breaker are shared by every client derived with
// WithMaxOutputTokens.
type Client struct {
	baseURL         string
	apiKey          string
	model           string
	reasoningEffort string
	verbosity       string
	maxOutputTokens int
	maxRetries      int

	httpClient *http.Client
	limiter    *rate.Limiter
	sem        chan struct{}
	breaker    *breaker.Breaker
	logger     zerolog.Logger

	// sleep waits between retries; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client from the LLM configuration.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg config.LLMConfig, logger zerolog.Logger) *Client {
	logger = logging.ForComponent(logger, logging.ComponentTextgen)

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	concurrency := cfg.MaxConcurrentRequests
	if concurrency <= 0 {
		concurrency = 8
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxOut := cfg.MaxOutputTokens
	if maxOut <= 0 {
		maxOut = 800
	}

	settings := breaker.DefaultSettings("openai")
	settings.IsSuccessful = func(err error) bool {
		if err == nil || errors.Is(err, ErrEmptyOutput) {
			return true
		}
		// Caller mistakes (bad request, context budget) are not outages.
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return httpErr.StatusCode < 500 && httpErr.StatusCode != http.StatusTooManyRequests &&
				httpErr.StatusCode != http.StatusUnauthorized
		}
		return errors.Is(err, context.Canceled)
	}

	return &Client{
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:          cfg.APIKey,
		model:           cfg.Model,
		reasoningEffort: cfg.ReasoningEffort,
		verbosity:       cfg.Verbosity,
		maxOutputTokens: maxOut,
		maxRetries:      max(0, cfg.MaxRetries),
		httpClient:      &http.Client{Timeout: timeout},
		limiter:         rate.NewLimiter(limit, max(1, int(cfg.RequestsPerSecond))),
		sem:             make(chan struct{}, concurrency),
		breaker:         breaker.New(settings, logger),
		logger:          logger,
		sleep:           sleepContext,
	}
}

// WithMaxOutputTokens returns a client that shares c's limits but caps
// output at n tokens.
func (c *Client) WithMaxOutputTokens(n int) *Client {
	derived := *c
	if n > 0 {
		derived.maxOutputTokens = n
	}
	return &derived
}

// MaxOutputTokens returns the output cap used for requests.
func (c *Client) MaxOutputTokens() int {
	return c.maxOutputTokens
}

// GenerateText sends one Responses request and returns the output text.
// An empty system prompt sends the user prompt alone.
func (c *Client) GenerateText(ctx context.Context, system, user string) (string, error) {
	req := c.newRequest(system, user)
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode openai request: %w", err)
	}

	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	start := time.Now()
	text, err := breaker.Do(c.breaker, func() (string, error) {
		return c.doWithRetry(ctx, body)
	})
	metrics.RecordUpstreamCall("openai", "responses", time.Since(start), err)
	if err != nil {
		log := logging.FromContext(ctx, c.logger)
		log.Debug().Err(err).
			Str("model", c.model).
			Int("max_output_tokens", c.maxOutputTokens).
			Msg("Text generation failed")
		return "", err
	}
	return text, nil
}

func (c *Client) doWithRetry(ctx context.Context, body []byte) (string, error) {
	backoff := 500 * time.Millisecond
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("openai rate limiter: %w", err)
		}

		text, retryAfter, err := c.doOnce(ctx, body)
		if err == nil {
			return text, nil
		}
		if attempt >= c.maxRetries || !retryable(err) || ctx.Err() != nil {
			return "", err
		}

		wait := backoff
		if retryAfter > 0 {
			wait = retryAfter
		}
		wait = min(wait, maxBackoff)

		c.logger.Warn().Err(err).
			Int("attempt", attempt+1).
			Int("max_retries", c.maxRetries).
			Dur("sleep", wait).
			Msg("OpenAI request retrying")

		if err := c.sleep(ctx, wait); err != nil {
			return "", err
		}
		backoff *= 2
	}
}

// doOnce performs a single HTTP exchange. retryAfter is the server's
// Retry-After hint, when present.
func (c *Client) doOnce(ctx context.Context, body []byte) (text string, retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+responsesPath, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("create openai request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("openai request failed: %w", err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", 0, fmt.Errorf("read openai response: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", parseRetryAfter(resp.Header.Get("Retry-After")), &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       logging.Truncate(string(raw), maxErrorBody),
		}
	}

	var decoded responsesResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", 0, fmt.Errorf("decode openai response: %w", err)
	}
	text = strings.TrimSpace(extractOutputText(decoded))
	if text == "" {
		if decoded.Status != "" && decoded.Status != "completed" {
			return "", 0, fmt.Errorf("%w (status %s)", ErrEmptyOutput, decoded.Status)
		}
		return "", 0, ErrEmptyOutput
	}
	return text, 0, nil
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
