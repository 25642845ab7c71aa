// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the search pipeline over HTTP. Request bodies are
// decoded into explicit typed structs and validated at the boundary
// before anything reaches the core.
package api

import (
	"github.com/pdiddy/scholar-engine/internal/extract"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

// ContentSourceRef identifies one upstream record in a request body.
type ContentSourceRef struct {
	Source string `json:"source" binding:"required,oneof=ideas builder"`
	ID     string `json:"id" binding:"required"`
}

func (r ContentSourceRef) toRequest() extract.Request {
	return extract.Request{
		Source: types.ContentSource(r.Source),
		ID:     r.ID,
	}
}

// QueryOptions tunes query generation in request bodies.
type QueryOptions struct {
	MaxKeywords    int    `json:"max_keywords,omitempty"`
	CombineContent bool   `json:"combine_content,omitempty"`
	Type           string `json:"query_type,omitempty"`
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query          string              `json:"query"`
	UserID         string              `json:"user_id"`
	ConversationID string              `json:"conversation_id"`
	ContentSources []ContentSourceRef  `json:"content_sources"`
	Filters        types.SearchFilters `json:"filters"`
	Options        QueryOptions        `json:"options"`
}

// GenerateRequest is the body of POST /api/query/generate.
type GenerateRequest struct {
	ConversationID string             `json:"conversation_id"`
	ContentSources []ContentSourceRef `json:"content_sources" binding:"required,min=1,dive"`
	Options        QueryOptions       `json:"options"`
}

// RefineRequest is the body of POST /api/query/refine.
type RefineRequest struct {
	Query           string                   `json:"query" binding:"required"`
	ConversationID  string                   `json:"conversation_id"`
	OriginalContent []types.ExtractedContent `json:"original_content"`
}

// ValidateRequest is the body of POST /api/query/validate.
type ValidateRequest struct {
	Query string `json:"query"`
}

// CombineRequest is the body of POST /api/query/combine.
type CombineRequest struct {
	Queries []types.SearchQuery `json:"queries" binding:"required,min=1"`
}

// ActionRequest is the body of POST /api/results/action.
type ActionRequest struct {
	SessionID string   `json:"session_id"`
	UserID    string   `json:"user_id" binding:"required"`
	Action    string   `json:"action" binding:"required,oneof=accepted rejected viewed"`
	Title     string   `json:"title"`
	Journal   string   `json:"journal"`
	Authors   []string `json:"authors"`
	Keywords  []string `json:"keywords"`
	DOI       string   `json:"doi"`
}

// Envelope is the uniform response wrapper. Failures carry a
// human-readable error and, where sensible, a manual fallback URL.
type Envelope struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	FallbackURL string `json:"fallback_url,omitempty"`
	Data        any    `json:"data,omitempty"`
}
