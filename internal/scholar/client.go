// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar fetches and parses results from a Google-Scholar-style
// search provider. It owns the scraping transport: rate limiting,
// retries, and markup parsing. Callers see typed records only.
package scholar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/scholar-engine/internal/httputil"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

// defaultBaseURL is the scholar search endpoint. Overridable via config
// so tests can substitute an httptest server.
const defaultBaseURL = "https://scholar.google.com/scholar"

// Client searches the scholar provider. The rate limiter is per-process:
// one Client is shared by all concurrent requests.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        types.ScholarConfig
	log        *zap.Logger
}

// NewClient builds a scholar client from configuration.
func NewClient(cfg types.ScholarConfig, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 20
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 10
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 2
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RateBurst),
		cfg:        cfg,
		log:        log,
	}
}

// RateLimited reports whether a search issued now would be denied by the
// per-process rate limit.
func (c *Client) RateLimited() bool {
	return c.limiter.Tokens() < 1
}

// Search queries the provider and returns parsed results. The rate limit
// is consulted before the request goes out: a denied call returns
// ErrRateLimited immediately rather than queueing. Network and HTTP
// failures come back as ErrUpstreamUnavailable after retries.
func (c *Client) Search(ctx context.Context, query string, filters types.SearchFilters) ([]types.ScholarResult, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty provider query", types.ErrInvalidRequest)
	}

	if !c.limiter.Allow() {
		c.log.Warn("provider rate limit exceeded", zap.String("query", query))
		return nil, fmt.Errorf("%w: provider request budget exhausted, retry later", types.ErrRateLimited)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query, filters), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: provider request: %v", types.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: provider returned HTTP 429", types.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned HTTP %d", types.ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading provider response: %v", types.ErrUpstreamUnavailable, err)
	}

	results := ParseResults(string(body))
	if max := maxResults(filters, c.cfg); len(results) > max {
		results = results[:max]
	}
	return results, nil
}

// searchURL builds the provider query URL with year and sort filters.
func (c *Client) searchURL(query string, filters types.SearchFilters) string {
	params := url.Values{"q": {query}, "hl": {"en"}}
	if filters.YearStart > 0 {
		params.Set("as_ylo", strconv.Itoa(filters.YearStart))
	}
	if filters.YearEnd > 0 {
		params.Set("as_yhi", strconv.Itoa(filters.YearEnd))
	}
	if filters.SortBy == "date" {
		params.Set("scisbd", "1")
	}
	return c.cfg.BaseURL + "?" + params.Encode()
}

// DirectURL returns a provider URL the user can open manually when the
// pipeline cannot fetch results on their behalf.
func DirectURL(query string) string {
	return defaultBaseURL + "?" + url.Values{"q": {query}}.Encode()
}

func maxResults(filters types.SearchFilters, cfg types.ScholarConfig) int {
	if filters.MaxResults > 0 {
		return filters.MaxResults
	}
	return cfg.MaxResults
}
