// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

func TestFormatTable(t *testing.T) {
	resp := Response{
		Query: `"deep learning"`,
		Results: []types.SearchResult{
			{
				ScholarResult: types.ScholarResult{
					Title:   "Deep learning",
					Authors: []string{"Y LeCun", "Y Bengio", "G Hinton"},
					Year:    2015,
				},
				Confidence:    0.93,
				QualityScore:  0.88,
				CitationCount: 65214,
			},
			{
				ScholarResult:      types.ScholarResult{Title: "Recent preprint", Year: 2025},
				CitationsEstimated: true,
				CitationCount:      11,
			},
		},
		DuplicatesFlagged: 1,
		Degraded:          true,
		FailedSources:     []string{"ideas/gone"},
	}

	var buf bytes.Buffer
	FormatTable(resp, &buf)
	out := buf.String()

	for _, want := range []string{
		`Query: "deep learning"`,
		"Deep learning",
		"Y LeCun et al.",
		"2015",
		"65214",
		"~11", // estimated counts are marked
		"2 results",
		"(1 duplicates removed)",
		"[degraded: ideas/gone]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTableEmptyWithFallback(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(Response{
		Query:       "robotics",
		FallbackURL: "https://scholar.google.com/scholar?q=robotics",
	}, &buf)
	out := buf.String()

	if !strings.Contains(out, "No results found.") {
		t.Errorf("output missing empty notice:\n%s", out)
	}
	if !strings.Contains(out, "Try searching manually: https://scholar.google.com/scholar?q=robotics") {
		t.Errorf("output missing fallback hint:\n%s", out)
	}
}

func TestFormatJSON(t *testing.T) {
	resp := Response{
		Query:   "robotics",
		Results: []types.SearchResult{{ScholarResult: types.ScholarResult{Title: "Paper"}}},
	}

	var buf bytes.Buffer
	if err := FormatJSON(resp, &buf); err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}
	var decoded Response
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Query != "robotics" || len(decoded.Results) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}
