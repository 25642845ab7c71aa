// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholar-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ContentConfig holds settings for the ideas/builder content provider client.
type ContentConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the content API root (e.g. "https://app.example.com/api").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIToken authenticates against the content API. Optional.
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty"`
}

// ExtractionConfig holds settings for content extraction.
type ExtractionConfig struct {
	// MaxKeywords caps the keywords kept per extracted record (default 10).
	MaxKeywords int `json:"max_keywords" yaml:"max_keywords"`

	// MaxKeyPhrases caps the n-gram phrases kept per record (default 5).
	MaxKeyPhrases int `json:"max_key_phrases" yaml:"max_key_phrases"`

	// PhraseMinCount is the occurrence threshold for keeping a phrase
	// (default 2).
	PhraseMinCount int `json:"phrase_min_count" yaml:"phrase_min_count"`
}

// QueryConfig holds settings for query generation and refinement.
type QueryConfig struct {
	// MaxKeywords is the default number of terms selected into a
	// generated query (default 6).
	MaxKeywords int `json:"max_keywords" yaml:"max_keywords"`

	// TermCeiling bounds how many distinct terms refinement will
	// consider for very long queries (default 50).
	TermCeiling int `json:"term_ceiling" yaml:"term_ceiling"`
}

// ScholarConfig holds settings for the scholar search provider.
type ScholarConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the provider search endpoint. Overridable for tests.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// MaxResults is the maximum number of results per search (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxRetries is the retry budget for provider requests (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RequestsPerMinute is the per-process rate limit against the
	// provider (default 10).
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute"`

	// RateBurst is the rate-limiter burst size (default 2).
	RateBurst int `json:"rate_burst" yaml:"rate_burst"`
}

// AnalyticsConfig holds settings for the search history store.
type AnalyticsConfig struct {
	// DataDir is the directory holding the SQLite database (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxHistory caps how many historical actions feed feedback ranking
	// (default 200).
	MaxHistory int `json:"max_history" yaml:"max_history"`
}

// ServerConfig holds settings for the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// ShutdownGrace is how long to wait for in-flight requests on
	// shutdown (default 10s).
	ShutdownGrace time.Duration `json:"shutdown_grace" yaml:"shutdown_grace"`
}

// EngineConfig groups all stage configurations.
type EngineConfig struct {
	Content    ContentConfig    `json:"content" yaml:"content"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Query      QueryConfig      `json:"query" yaml:"query"`
	Scholar    ScholarConfig    `json:"scholar" yaml:"scholar"`
	Analytics  AnalyticsConfig  `json:"analytics" yaml:"analytics"`
	Server     ServerConfig     `json:"server" yaml:"server"`
}
