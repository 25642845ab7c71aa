// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score assigns relevance, confidence, and quality scores to raw
// provider results, independent of how they were fetched.
package score

import (
	"strings"
	"time"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// citationCeiling caps estimated citation counts. Provider-reported
// figures pass through untouched.
const citationCeiling = 500

// highImpactJournals is a fixed allow-list of venues treated as a
// quality signal.
var highImpactJournals = map[string]struct{}{
	"nature":                          {},
	"science":                         {},
	"cell":                            {},
	"the lancet":                      {},
	"lancet":                          {},
	"nejm":                            {},
	"new england journal of medicine": {},
	"jama":                            {},
	"pnas":                            {},
	"ieee transactions on pattern analysis and machine intelligence": {},
	"advances in neural information processing systems":              {},
	"journal of machine learning research":                           {},
	"psychological review":                                           {},
	"american economic review":                                       {},
}

// Scorer turns raw ScholarResults into scored SearchResults. Stateless;
// safe for concurrent use.
type Scorer struct {
	now func() time.Time
}

// NewScorer builds a Scorer. The clock is injectable for tests.
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// Score enriches one raw result with scores relative to the originating
// query.
func (s *Scorer) Score(raw types.ScholarResult, query string) types.SearchResult {
	r := types.SearchResult{ScholarResult: raw}
	r.CitationCount, r.CitationsEstimated = s.CalculateCitations(raw)
	r.RelevanceScore = s.relevance(raw, query)
	r.QualityScore = s.quality(raw)
	r.Confidence = clamp01(0.6*r.RelevanceScore + 0.4*r.QualityScore)
	return r
}

// ScoreAll scores a batch, preserving input order.
func (s *Scorer) ScoreAll(raw []types.ScholarResult, query string) []types.SearchResult {
	results := make([]types.SearchResult, len(raw))
	for i, rr := range raw {
		results[i] = s.Score(rr, query)
	}
	return results
}

// CalculateCitations returns the citation count for a result and whether
// it was estimated. The provider-reported count is used when present and
// positive. Otherwise the count is estimated from publication age with
// diminishing returns, boosted for known high-impact venues, capped at
// the ceiling, and never negative.
func (s *Scorer) CalculateCitations(raw types.ScholarResult) (int, bool) {
	if raw.Citations > 0 {
		return raw.Citations, false
	}

	if raw.Year <= 0 {
		return 0, true
	}

	age := s.now().Year() - raw.Year
	if age < 0 {
		age = 0
	}
	if age > 30 {
		age = 30
	}

	// Rough accumulation curve: citations grow with age but flatten.
	estimate := age * (12 - age/4)
	if _, known := highImpactJournals[strings.ToLower(raw.Journal)]; known {
		estimate *= 3
	}
	if estimate < 0 {
		estimate = 0
	}
	if estimate > citationCeiling {
		estimate = citationCeiling
	}
	return estimate, true
}

// relevance measures term overlap between the query and the result's
// title, abstract, and keywords.
func (s *Scorer) relevance(raw types.ScholarResult, query string) float64 {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return 0.5
	}

	title := strings.ToLower(raw.Title)
	abstract := strings.ToLower(raw.Abstract)
	kw := strings.ToLower(strings.Join(raw.Keywords, " "))

	var score float64
	for _, term := range terms {
		switch {
		case strings.Contains(title, term):
			score += 1.0
		case strings.Contains(abstract, term):
			score += 0.6
		case strings.Contains(kw, term):
			score += 0.5
		}
	}
	return clamp01(score / float64(len(terms)))
}

// quality blends recency, DOI presence (peer-review proxy), journal
// presence, and co-authorship count. Each factor contributes a capped
// weight; the blend is clamped to [0,1].
func (s *Scorer) quality(raw types.ScholarResult) float64 {
	score := 0.2

	if raw.Year > 0 {
		age := s.now().Year() - raw.Year
		switch {
		case age <= 3:
			score += 0.25
		case age <= 10:
			score += 0.15
		default:
			score += 0.05
		}
	}

	if raw.DOI != "" {
		score += 0.2
	}
	if raw.Journal != "" {
		score += 0.15
		if _, known := highImpactJournals[strings.ToLower(raw.Journal)]; known {
			score += 0.1
		}
	}

	switch n := len(raw.Authors); {
	case n >= 3:
		score += 0.1
	case n > 0:
		score += 0.05
	}

	return clamp01(score)
}

// queryTerms extracts lowercase search terms from a boolean query string.
func queryTerms(query string) []string {
	cleaned := strings.NewReplacer(`"`, " ", "(", " ", ")", " ").Replace(strings.ToLower(query))
	var terms []string
	for _, f := range strings.Fields(cleaned) {
		if f == "and" || f == "or" || f == "not" || len(f) <= 2 {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
