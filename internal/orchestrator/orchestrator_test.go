// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/scholar-engine/internal/content"
	"github.com/pdiddy/scholar-engine/internal/extract"
	"github.com/pdiddy/scholar-engine/internal/query"
	"github.com/pdiddy/scholar-engine/internal/score"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

// --- fakes ---

type fakeContentProvider struct {
	records map[string]content.Record
}

func (f *fakeContentProvider) Fetch(_ context.Context, _ types.ContentSource, id string) (content.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return content.Record{}, fmt.Errorf("%w: record %s", types.ErrUpstreamUnavailable, id)
	}
	return rec, nil
}

type fakeSearchProvider struct {
	results   []types.ScholarResult
	err       error
	gotQuery  string
	gotFilter types.SearchFilters
}

func (f *fakeSearchProvider) Search(_ context.Context, q string, filters types.SearchFilters) ([]types.ScholarResult, error) {
	f.gotQuery = q
	f.gotFilter = filters
	return f.results, f.err
}

type fakeRecorder struct {
	sessions []types.SearchSession
	err      error
}

func (f *fakeRecorder) RecordSession(_ context.Context, s types.SearchSession) (types.SearchSession, error) {
	if f.err != nil {
		return s, f.err
	}
	s.ID = "session-1"
	f.sessions = append(f.sessions, s)
	return s, nil
}

func testOrchestrator(cp *fakeContentProvider, sp *fakeSearchProvider, rec SessionRecorder) *Orchestrator {
	extractor := extract.NewExtractor(cp, types.ExtractionConfig{}, nil)
	engine := query.NewEngine(types.QueryConfig{}, nil)
	return New(extractor, engine, sp, score.NewScorer(), nil, rec, nil)
}

func ideaRecord(id string) content.Record {
	return content.Record{
		ID:    id,
		Title: "Machine Learning in Healthcare",
		Content: "We study machine learning models for healthcare diagnosis. " +
			"Machine learning enables earlier diagnosis from clinical data and " +
			"improves patient outcomes across hospital and clinic settings.",
	}
}

// --- pipeline ---

func TestSearchExplicitQuery(t *testing.T) {
	sp := &fakeSearchProvider{results: []types.ScholarResult{
		{Title: "Deep learning", Year: 2015, Citations: 65214, DOI: "10.1038/nature14539"},
		{Title: "Survey of methods", Year: 2020},
	}}
	rec := &fakeRecorder{}
	o := testOrchestrator(&fakeContentProvider{}, sp, rec)

	resp, err := o.Search(context.Background(), Request{
		Query:  `"deep learning"`,
		UserID: "u1",
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.Query != `"deep learning"` {
		t.Errorf("Query = %q", resp.Query)
	}
	if sp.gotQuery != `"deep learning"` {
		t.Errorf("provider received %q", sp.gotQuery)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(resp.Results))
	}
	for _, r := range resp.Results {
		if r.Confidence < 0 || r.Confidence > 1 {
			t.Errorf("result %q Confidence = %v, out of [0,1]", r.Title, r.Confidence)
		}
	}
	if resp.Degraded {
		t.Error("Degraded = true for a clean run")
	}
	if resp.SessionID != "session-1" {
		t.Errorf("SessionID = %q", resp.SessionID)
	}
	if len(rec.sessions) != 1 || rec.sessions[0].ResultCount != 2 {
		t.Errorf("recorded sessions = %+v", rec.sessions)
	}
}

func TestSearchGeneratesQueryFromContent(t *testing.T) {
	cp := &fakeContentProvider{records: map[string]content.Record{
		"idea-1": ideaRecord("idea-1"),
	}}
	sp := &fakeSearchProvider{results: []types.ScholarResult{{Title: "Result"}}}
	o := testOrchestrator(cp, sp, nil)

	resp, err := o.Search(context.Background(), Request{
		ContentSources: []extract.Request{{Source: types.SourceIdeas, ID: "idea-1"}},
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.Query == "" {
		t.Fatal("Query should be generated from content")
	}
	if !strings.Contains(resp.Query, "AND") && !strings.Contains(resp.Query, `"`) {
		t.Errorf("Query = %q, want a boolean query", resp.Query)
	}
	if len(resp.GeneratedQueries) == 0 {
		t.Error("GeneratedQueries should be reported")
	}
	if len(resp.ExtractedContent) != 1 {
		t.Errorf("len(ExtractedContent) = %d, want 1", len(resp.ExtractedContent))
	}
	if resp.Degraded {
		t.Error("Degraded = true for a clean extraction")
	}
}

func TestSearchDegradesOnFailedSource(t *testing.T) {
	// No records at all: every source falls back.
	cp := &fakeContentProvider{}
	sp := &fakeSearchProvider{results: []types.ScholarResult{{Title: "Result"}}}
	o := testOrchestrator(cp, sp, nil)

	resp, err := o.Search(context.Background(), Request{
		ContentSources: []extract.Request{{Source: types.SourceIdeas, ID: "down"}},
	})
	if err != nil {
		t.Fatalf("Search() error = %v, want graceful degradation", err)
	}
	if !resp.Degraded {
		t.Error("Degraded = false, want true")
	}
	if len(resp.FailedSources) != 1 || resp.FailedSources[0] != "ideas/down" {
		t.Errorf("FailedSources = %v", resp.FailedSources)
	}
	// The fallback content still produces a query.
	if len(resp.ExtractedContent) != 1 {
		t.Fatalf("len(ExtractedContent) = %d, want 1", len(resp.ExtractedContent))
	}
	ec := resp.ExtractedContent[0]
	if ec.Title != "Research Topic (Extraction Failed)" {
		t.Errorf("fallback Title = %q", ec.Title)
	}
	if ec.Confidence <= 0 || ec.Confidence > 0.5 {
		t.Errorf("fallback Confidence = %v, want in (0, 0.5]", ec.Confidence)
	}
	if resp.Query == "" {
		t.Error("fallback content should still resolve a query")
	}
}

func TestSearchUnresolvableQuery(t *testing.T) {
	o := testOrchestrator(&fakeContentProvider{}, &fakeSearchProvider{}, nil)

	_, err := o.Search(context.Background(), Request{})
	if !errors.Is(err, types.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
	if !strings.Contains(err.Error(), "Query is required") {
		t.Errorf("err = %q, want a 'Query is required' message", err)
	}
}

func TestSearchProviderFailures(t *testing.T) {
	tests := []struct {
		name        string
		providerErr error
		wantErr     error
	}{
		{"rate limited", fmt.Errorf("%w: budget exhausted", types.ErrRateLimited), types.ErrRateLimited},
		{"upstream down", fmt.Errorf("%w: HTTP 502", types.ErrUpstreamUnavailable), types.ErrUpstreamUnavailable},
		{"unclassified maps to upstream", errors.New("connection reset"), types.ErrUpstreamUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := &fakeSearchProvider{err: tt.providerErr}
			o := testOrchestrator(&fakeContentProvider{}, sp, nil)

			resp, err := o.Search(context.Background(), Request{Query: "robotics"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if resp.FallbackURL == "" {
				t.Error("FallbackURL should point at the provider for manual retry")
			}
			if !strings.Contains(resp.FallbackURL, "q=robotics") {
				t.Errorf("FallbackURL = %q, should carry the query", resp.FallbackURL)
			}
		})
	}
}

func TestSearchDeduplicatesResults(t *testing.T) {
	sp := &fakeSearchProvider{results: []types.ScholarResult{
		{Title: "Deep learning", DOI: "10.1038/nature14539", Citations: 100},
		{Title: "Deep Learning", DOI: "10.1038/nature14539", Citations: 65214},
		{Title: "Something else"},
	}}
	o := testOrchestrator(&fakeContentProvider{}, sp, nil)

	resp, err := o.Search(context.Background(), Request{Query: "deep learning"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.DuplicatesFlagged != 1 {
		t.Errorf("DuplicatesFlagged = %d, want 1", resp.DuplicatesFlagged)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(resp.Results))
	}
	if resp.Results[0].CitationCount != 65214 {
		t.Errorf("merged CitationCount = %d, want the higher figure", resp.Results[0].CitationCount)
	}
}

func TestSearchRecorderFailureIsNotFatal(t *testing.T) {
	sp := &fakeSearchProvider{results: []types.ScholarResult{{Title: "Result"}}}
	rec := &fakeRecorder{err: errors.New("disk full")}
	o := testOrchestrator(&fakeContentProvider{}, sp, rec)

	resp, err := o.Search(context.Background(), Request{Query: "robotics", UserID: "u1"})
	if err != nil {
		t.Fatalf("Search() error = %v, analytics must be best-effort", err)
	}
	if resp.SessionID != "" {
		t.Errorf("SessionID = %q, want empty after a recording failure", resp.SessionID)
	}
	if len(resp.Results) != 1 {
		t.Errorf("len(Results) = %d, want 1", len(resp.Results))
	}
}

func TestSearchFiltersPassedThrough(t *testing.T) {
	sp := &fakeSearchProvider{}
	o := testOrchestrator(&fakeContentProvider{}, sp, nil)

	filters := types.SearchFilters{YearStart: 2020, YearEnd: 2024, MaxResults: 5}
	if _, err := o.Search(context.Background(), Request{Query: "robotics", Filters: filters}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if sp.gotFilter != filters {
		t.Errorf("provider filters = %+v, want %+v", sp.gotFilter, filters)
	}
}
