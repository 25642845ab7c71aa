// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrator composes the search pipeline: extract content,
// generate a query, fetch provider results, score, deduplicate, apply
// feedback ranking, and record analytics. Each stage degrades gracefully
// to partial or fallback data; only an unresolvable query is fatal.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/scholar-engine/internal/dedupe"
	"github.com/pdiddy/scholar-engine/internal/extract"
	"github.com/pdiddy/scholar-engine/internal/query"
	"github.com/pdiddy/scholar-engine/internal/scholar"
	"github.com/pdiddy/scholar-engine/internal/score"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

// State names the pipeline stages. Transitions run strictly forward;
// Errored is terminal and reachable from any state.
type State string

const (
	StateIdle             State = "idle"
	StateContentExtracted State = "content_extracted"
	StateQueryGenerated   State = "query_generated"
	StateResultsFetched   State = "results_fetched"
	StateScored           State = "scored"
	StateDeduplicated     State = "deduplicated"
	StateRanked           State = "ranked"
	StateResponded        State = "responded"
	StateErrored          State = "errored"
)

// SearchProvider fetches raw results for a query. internal/scholar
// implements it.
type SearchProvider interface {
	Search(ctx context.Context, query string, filters types.SearchFilters) ([]types.ScholarResult, error)
}

// ResultRanker applies feedback-based re-ranking. internal/feedback
// implements it.
type ResultRanker interface {
	Rank(ctx context.Context, userID string, results []types.SearchResult) []types.SearchResult
}

// SessionRecorder persists search sessions. internal/analytics
// implements it; recording is best-effort.
type SessionRecorder interface {
	RecordSession(ctx context.Context, session types.SearchSession) (types.SearchSession, error)
}

// Request is one orchestrated search invocation.
type Request struct {
	// Query is an explicit query string. Optional when ContentSources
	// resolve to usable content.
	Query string

	UserID         string
	ConversationID string

	// ContentSources are upstream records to derive a query from.
	ContentSources []extract.Request

	Filters types.SearchFilters
	Options query.Options
}

// Response is the orchestrated search outcome.
type Response struct {
	Results          []types.SearchResult     `json:"results"`
	Query            string                   `json:"query"`
	GeneratedQueries []types.SearchQuery      `json:"generated_queries,omitempty"`
	ExtractedContent []types.ExtractedContent `json:"extracted_content,omitempty"`
	SessionID        string                   `json:"session_id,omitempty"`

	// Degraded marks best-effort output: some stage fell back to
	// partial data.
	Degraded bool `json:"degraded,omitempty"`

	// FailedSources lists content sources that could not be resolved.
	FailedSources []string `json:"failed_sources,omitempty"`

	// DuplicatesFlagged counts results collapsed by deduplication.
	DuplicatesFlagged int `json:"duplicates_flagged,omitempty"`

	// FallbackURL is a provider URL the user can open manually when the
	// pipeline could not fetch results itself.
	FallbackURL string `json:"fallback_url,omitempty"`
}

// Orchestrator wires the pipeline stages together. Stateless across
// requests; safe for concurrent use.
type Orchestrator struct {
	extractor *extract.Extractor
	engine    *query.Engine
	provider  SearchProvider
	scorer    *score.Scorer
	ranker    ResultRanker
	recorder  SessionRecorder
	log       *zap.Logger
}

// New builds an Orchestrator. The ranker and recorder may be nil, in
// which case re-ranking and analytics are skipped.
func New(extractor *extract.Extractor, engine *query.Engine, provider SearchProvider,
	scorer *score.Scorer, ranker ResultRanker, recorder SessionRecorder, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		extractor: extractor,
		engine:    engine,
		provider:  provider,
		scorer:    scorer,
		ranker:    ranker,
		recorder:  recorder,
		log:       log,
	}
}

// Search runs the full pipeline. The returned error is non-nil only for
// the hard failures of the taxonomy: an unresolvable query
// (ErrInvalidRequest), a rate-limited provider (ErrRateLimited), or an
// exhausted provider (ErrUpstreamUnavailable). All other failures
// degrade: the response reports Degraded with whatever was salvaged.
func (o *Orchestrator) Search(ctx context.Context, req Request) (Response, error) {
	state := StateIdle
	resp := Response{}

	// Extract content from the requested sources.
	if len(req.ContentSources) > 0 {
		contents, err := o.extractor.ExtractAll(ctx, req.ContentSources)
		resp.ExtractedContent = contents
		var pf *types.PartialFailure
		if errors.As(err, &pf) {
			resp.FailedSources = pf.Failed
			resp.Degraded = true
			o.log.Info("continuing with partial content",
				zap.Strings("failed_sources", pf.Failed))
		}
		state = o.transition(state, StateContentExtracted)
	}

	// Resolve the query: explicit wins, otherwise generate.
	searchQuery := req.Query
	if searchQuery == "" {
		generated := o.engine.GenerateQueries(resp.ExtractedContent, req.Options)
		resp.GeneratedQueries = generated
		if len(generated) > 0 {
			searchQuery = generated[0].Query
		}
	}
	if searchQuery == "" {
		o.transition(state, StateErrored)
		return resp, fmt.Errorf("%w: Query is required: provide a query or content sources", types.ErrInvalidRequest)
	}
	resp.Query = searchQuery
	state = o.transition(state, StateQueryGenerated)

	// Fetch raw results. Rate-limit and exhausted-upstream failures are
	// surfaced with a manual fallback URL; they do not crash the caller.
	raw, err := o.provider.Search(ctx, searchQuery, req.Filters)
	if err != nil {
		resp.FallbackURL = scholar.DirectURL(searchQuery)
		o.transition(state, StateErrored)
		switch {
		case errors.Is(err, types.ErrRateLimited):
			return resp, err
		default:
			return resp, fmt.Errorf("%w: search provider failed after retries", types.ErrUpstreamUnavailable)
		}
	}
	state = o.transition(state, StateResultsFetched)

	// Score.
	scored := o.scorer.ScoreAll(raw, searchQuery)
	state = o.transition(state, StateScored)

	// Deduplicate.
	groups := dedupe.DetectDuplicates(scored)
	deduped, removed := dedupe.Merge(scored, groups)
	resp.DuplicatesFlagged = removed
	state = o.transition(state, StateDeduplicated)

	// Feedback-based re-ranking. Absence of history is a no-op.
	if o.ranker != nil {
		deduped = o.ranker.Rank(ctx, req.UserID, deduped)
	}
	resp.Results = deduped
	state = o.transition(state, StateRanked)

	// Record the session. Analytics failures never fail the search.
	if o.recorder != nil {
		session, err := o.recorder.RecordSession(ctx, types.SearchSession{
			UserID:         req.UserID,
			ConversationID: req.ConversationID,
			Query:          searchQuery,
			ResultCount:    len(deduped),
			Degraded:       resp.Degraded,
		})
		if err != nil {
			o.log.Warn("session recording failed", zap.Error(err))
		} else {
			resp.SessionID = session.ID
		}
	}

	o.transition(state, StateResponded)
	return resp, nil
}

// transition logs a state change and returns the new state.
func (o *Orchestrator) transition(from, to State) State {
	o.log.Debug("pipeline transition",
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return to
}
