// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package content fetches raw idea and builder-document records from the
// upstream content API.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/scholar-engine/internal/httputil"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

// Record is the raw JSON shape returned by the content API for both
// ideas and builder documents. Description is used by ideas, Content by
// builder documents; either may be empty.
type Record struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Content     string   `json:"content,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// Text returns the record's body text, preferring Content over Description.
func (r Record) Text() string {
	if r.Content != "" {
		return r.Content
	}
	return r.Description
}

// Client talks to the content API over HTTP with retry.
type Client struct {
	httpClient *http.Client
	cfg        types.ContentConfig
}

// NewClient builds a content API client from configuration.
func NewClient(cfg types.ContentConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
	}
}

// Fetch retrieves one record by source collection and id. Failures are
// wrapped as ErrUpstreamUnavailable so callers can degrade instead of
// aborting.
func (c *Client) Fetch(ctx context.Context, source types.ContentSource, id string) (Record, error) {
	var path string
	switch source {
	case types.SourceIdeas:
		path = "/ideas/" + url.PathEscape(id)
	case types.SourceBuilder:
		path = "/builder/documents/" + url.PathEscape(id)
	default:
		return Record{}, fmt.Errorf("%w: unknown content source %q", types.ErrInvalidRequest, source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return Record{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return Record{}, fmt.Errorf("%w: content API request: %v", types.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Record{}, fmt.Errorf("%w: content API returned HTTP %d for %s/%s",
			types.ErrUpstreamUnavailable, resp.StatusCode, source, id)
	}

	var rec Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("%w: parsing content API response: %v", types.ErrUpstreamUnavailable, err)
	}
	if rec.ID == "" {
		rec.ID = id
	}
	return rec, nil
}
