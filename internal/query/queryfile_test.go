// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

func TestQueryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	q := types.SearchQuery{
		Query:      `"machine learning" AND "healthcare"`,
		Keywords:   []string{"machine learning", "healthcare"},
		Topics:     []string{"machine learning"},
		Type:       types.QueryAcademic,
		Confidence: 0.82,
	}
	filters := types.SearchFilters{YearStart: 2018, YearEnd: 2025, MaxResults: 10}
	results := []types.SearchResult{
		{
			ScholarResult: types.ScholarResult{
				Title:   "Deep learning for clinical diagnosis",
				Authors: []string{"A Kim", "B Osei"},
				Journal: "Nature Medicine",
				Year:    2021,
				DOI:     "10.1038/s41591-021-0001",
			},
			Confidence:     0.91,
			RelevanceScore: 0.88,
			QualityScore:   0.95,
			CitationCount:  412,
		},
	}

	if err := WriteQueryFile(path, q, filters, results, 2, true); err != nil {
		t.Fatalf("WriteQueryFile() error = %v", err)
	}

	loaded, err := ReadQueryFile(path)
	if err != nil {
		t.Fatalf("ReadQueryFile() error = %v", err)
	}
	if loaded.Query.Query != q.Query {
		t.Errorf("Query = %q, want %q", loaded.Query.Query, q.Query)
	}
	if loaded.Query.Confidence != q.Confidence {
		t.Errorf("Confidence = %v, want %v", loaded.Query.Confidence, q.Confidence)
	}
	if loaded.Filters.YearStart != 2018 || loaded.Filters.MaxResults != 10 {
		t.Errorf("Filters = %+v", loaded.Filters)
	}
	if len(loaded.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(loaded.Results))
	}
	r := loaded.Results[0]
	if r.Title != results[0].Title || r.DOI != results[0].DOI {
		t.Errorf("result = %+v", r)
	}
	if r.CitationCount != 412 {
		t.Errorf("CitationCount = %d, want 412", r.CitationCount)
	}
	if loaded.Summary.Total != 1 || loaded.Summary.DuplicatesFlagged != 2 || !loaded.Summary.Degraded {
		t.Errorf("Summary = %+v", loaded.Summary)
	}
}

func TestCombineReloadedQueryFiles(t *testing.T) {
	dir := t.TempDir()
	saved := []types.SearchQuery{
		{
			Query:      `"machine learning" AND "healthcare"`,
			Keywords:   []string{"machine learning", "healthcare"},
			Topics:     []string{"machine learning"},
			Type:       types.QueryAcademic,
			Confidence: 0.82,
		},
		{
			Query:      `"robotics" AND "surgery"`,
			Keywords:   []string{"robotics", "surgery"},
			Topics:     []string{"engineering"},
			Type:       types.QueryAcademic,
			Confidence: 0.74,
		},
	}

	var paths []string
	for i, q := range saved {
		path := filepath.Join(dir, fmt.Sprintf("q%d.yaml", i))
		if err := WriteQueryFile(path, q, types.SearchFilters{}, nil, 0, false); err != nil {
			t.Fatalf("WriteQueryFile() error = %v", err)
		}
		paths = append(paths, path)
	}

	var queries []types.SearchQuery
	for _, path := range paths {
		qf, err := ReadQueryFile(path)
		if err != nil {
			t.Fatalf("ReadQueryFile() error = %v", err)
		}
		queries = append(queries, qf.Query.ToSearchQuery())
	}

	e := testEngine()
	combined, ok := e.CombineQueries(queries)
	if !ok {
		t.Fatal("CombineQueries() should succeed with two reloaded queries")
	}
	if combined.Type != types.QueryCombined {
		t.Errorf("Type = %q, want %q", combined.Type, types.QueryCombined)
	}
	if combined.Confidence != 0.82 {
		t.Errorf("Confidence = %v, want the max input confidence 0.82", combined.Confidence)
	}
	for _, kw := range []string{"machine learning", "healthcare", "robotics", "surgery"} {
		if !containsFold(combined.Keywords, kw) {
			t.Errorf("Keywords = %v, want to contain %q", combined.Keywords, kw)
		}
	}
}

func TestReadQueryFileMissing(t *testing.T) {
	if _, err := ReadQueryFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
