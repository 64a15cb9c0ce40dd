// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/bookpath/internal/breaker"
	"github.com/tomtom215/bookpath/internal/cache"
	"github.com/tomtom215/bookpath/internal/config"
	"github.com/tomtom215/bookpath/internal/logging"
	"github.com/tomtom215/bookpath/internal/metrics"
	"github.com/tomtom215/bookpath/internal/models"
)

// ErrNotFound is returned when the catalog has no item for an ISBN.
var ErrNotFound = errors.New("catalog item not found")

// apiVersion is the TTB response schema the decoder is written against.
const apiVersion = "20131101"

// maxErrorBody bounds how much of an upstream error body is kept.
const maxErrorBody = 512

// Catalog is the subset of the Aladin API the rest of the service uses.
// *Client implements it; tests substitute fakes.
type Catalog interface {
	LookupByISBN(ctx context.Context, isbn string) (models.CatalogItem, error)
	SearchByTitle(ctx context.Context, title string) ([]models.CatalogItem, error)
	NewArrivals(ctx context.Context, categoryID, maxResults int) ([]models.CatalogItem, error)
}

var _ Catalog = (*Client)(nil)

// Client calls the Aladin TTB API. Requests are throttled with a token
// bucket, guarded by a circuit breaker and cached by URL.
type Client struct {
	baseURL    string
	ttbKey     string
	searchMax  int
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *breaker.Breaker
	cache      *cache.Layered
	logger     zerolog.Logger
}

// NewClient creates a catalog client. store is an optional durable cache
// level (nil keeps the cache in memory). A zero CacheTTL disables caching.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg config.CatalogConfig, store cache.Store, logger zerolog.Logger) *Client {
	logger = logging.ForComponent(logger, logging.ComponentCatalog)

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	searchMax := cfg.SearchMaxResults
	if searchMax <= 0 {
		searchMax = 20
	}

	settings := breaker.DefaultSettings("catalog")
	settings.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrNotFound)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		ttbKey:     cfg.TTBKey,
		searchMax:  searchMax,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		breaker:    breaker.New(settings, logger),
		logger:     logger,
	}
	if cfg.CacheTTL > 0 {
		c.cache = cache.NewLayered("catalog", cfg.CacheTTL, store, logger)
	}
	return c
}

// LookupByISBN returns the catalog item for an ISBN-13 (ItemLookUp).
func (c *Client) LookupByISBN(ctx context.Context, isbn string) (models.CatalogItem, error) {
	isbn = models.NormalizeISBN(isbn)
	if isbn == "" {
		return models.CatalogItem{}, fmt.Errorf("empty isbn: %w", ErrNotFound)
	}

	idType := "ISBN13"
	if len(isbn) == 10 {
		idType = "ISBN"
	}
	params := url.Values{}
	params.Set("itemIdType", idType)
	params.Set("ItemId", isbn)
	params.Set("Cover", "Big")

	items, err := c.fetch(ctx, "lookup", "ItemLookUp.aspx", params)
	if err != nil {
		return models.CatalogItem{}, err
	}
	if len(items) == 0 {
		return models.CatalogItem{}, fmt.Errorf("isbn %s: %w", isbn, ErrNotFound)
	}
	return items[0], nil
}

// SearchByTitle returns up to the configured number of title matches
// (ItemSearch, QueryType=Title).
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]models.CatalogItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	params := url.Values{}
	params.Set("Query", title)
	params.Set("QueryType", "Title")
	params.Set("MaxResults", strconv.Itoa(c.searchMax))
	params.Set("start", "1")
	params.Set("SearchTarget", "Book")
	params.Set("Cover", "Big")

	return c.fetch(ctx, "search", "ItemSearch.aspx", params)
}

// NewArrivals lists notable new books in a category (ItemList,
// QueryType=ItemNewSpecial).
func (c *Client) NewArrivals(ctx context.Context, categoryID, maxResults int) ([]models.CatalogItem, error) {
	if maxResults <= 0 {
		maxResults = 50
	}
	params := url.Values{}
	params.Set("QueryType", "ItemNewSpecial")
	params.Set("SearchTarget", "Book")
	params.Set("CategoryId", strconv.Itoa(categoryID))
	params.Set("MaxResults", strconv.Itoa(maxResults))
	params.Set("Cover", "Big")

	items, err := c.fetch(ctx, "new_arrivals", "ItemList.aspx", params)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].CategoryName == "" {
			items[i].CategoryName = strconv.Itoa(categoryID)
		}
	}
	return items, nil
}

// fetch performs one cached, throttled and breaker-guarded API call.
func (c *Client) fetch(ctx context.Context, operation, endpoint string, params url.Values) ([]models.CatalogItem, error) {
	cacheKey := ""
	if c.cache != nil {
		cacheKey = cache.GenerateKey("catalog:"+operation, endpoint+"?"+params.Encode())
		var cached []models.CatalogItem
		if c.cache.GetJSON(cacheKey, &cached) {
			return cached, nil
		}
	}

	params.Set("ttbkey", c.ttbKey)
	params.Set("output", "js")
	params.Set("Version", apiVersion)
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	start := time.Now()
	items, err := breaker.Do(c.breaker, func() ([]models.CatalogItem, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("catalog rate limiter: %w", err)
		}
		return c.get(ctx, reqURL)
	})
	metrics.RecordUpstreamCall("catalog", operation, time.Since(start), ignoreNotFound(err))

	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn().Err(err).
				Str("operation", operation).
				Str("url", logging.RedactURL(reqURL)).
				Msg("Catalog request failed")
		}
		return nil, err
	}

	if c.cache != nil {
		c.cache.SetJSON(cacheKey, items)
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]models.CatalogItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, which carries the TTB key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, logging.Truncate(string(body), maxErrorBody))
	}
	return decodeItems(body)
}

// ignoreNotFound keeps "no such ISBN" out of the upstream error metric.
func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
