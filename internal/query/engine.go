// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query generates, validates, combines, and refines boolean
// search queries from extracted content.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// Options tunes query generation for one call.
type Options struct {
	// MaxKeywords caps the terms selected into a query. Zero means the
	// engine default.
	MaxKeywords int

	// CombineContent pools keywords across all content sources into a
	// single query instead of generating one query per source.
	CombineContent bool

	// Type overrides the query type tag. Empty means academic.
	Type types.QueryType
}

// Engine generates and refines search queries. Stateless; safe for
// concurrent use.
type Engine struct {
	cfg types.QueryConfig
	log *zap.Logger
}

// NewEngine builds a query engine.
func NewEngine(cfg types.QueryConfig, log *zap.Logger) *Engine {
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = 6
	}
	if cfg.TermCeiling <= 0 {
		cfg.TermCeiling = defaultTermCeiling
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg, log: log}
}

// GenerateQueries converts extracted content into ranked SearchQuery
// candidates, sorted by descending confidence. With CombineContent set
// (or a single input) keywords are pooled before selection; otherwise
// each content source yields its own query.
func (e *Engine) GenerateQueries(contents []types.ExtractedContent, opts Options) []types.SearchQuery {
	if len(contents) == 0 {
		return nil
	}

	maxKeywords := opts.MaxKeywords
	if maxKeywords <= 0 {
		maxKeywords = e.cfg.MaxKeywords
	}
	if maxKeywords > e.cfg.TermCeiling {
		maxKeywords = e.cfg.TermCeiling
	}
	qt := opts.Type
	if qt == "" {
		qt = types.QueryAcademic
	}

	var queries []types.SearchQuery
	if opts.CombineContent || len(contents) == 1 {
		if q, ok := e.buildQuery(contents, maxKeywords, qt); ok {
			queries = append(queries, q)
		}
	} else {
		for _, c := range contents {
			if q, ok := e.buildQuery([]types.ExtractedContent{c}, maxKeywords, qt); ok {
				queries = append(queries, q)
			}
		}
	}

	sort.SliceStable(queries, func(i, j int) bool {
		return queries[i].Confidence > queries[j].Confidence
	})
	return queries
}

// buildQuery pools and selects terms from the given contents and
// synthesizes one query. Returns false when no usable terms exist.
func (e *Engine) buildQuery(contents []types.ExtractedContent, maxKeywords int, qt types.QueryType) (types.SearchQuery, bool) {
	terms := selectTerms(contents, maxKeywords)
	if len(terms) == 0 {
		return types.SearchQuery{}, false
	}

	var keywords, topics []string
	for _, c := range contents {
		keywords = dedupeFold(keywords, c.Keywords...)
		topics = dedupeFold(topics, c.Topics...)
	}

	queryStr := buildBooleanQuery(terms)
	q := types.SearchQuery{
		ID:              uuid.NewString(),
		Query:           queryStr,
		OriginalContent: contents,
		Keywords:        keywords,
		Topics:          topics,
		Type:            qt,
		Confidence:      weightedConfidence(contents),
		Optimization:    e.optimization(queryStr, terms, topics),
		CreatedAt:       time.Now().UTC(),
	}
	return q, true
}

// selectTerms pools keywords and key phrases across contents, weighting
// each term by how often it appears across sources and by its source's
// confidence, and returns the top max terms. Key phrases are preferred
// over their component words when both qualify.
func selectTerms(contents []types.ExtractedContent, max int) []string {
	weights := make(map[string]float64)
	display := make(map[string]string)
	order := make(map[string]int)
	next := 0

	note := func(term string, w float64) {
		key := strings.ToLower(strings.TrimSpace(term))
		if key == "" {
			return
		}
		if _, ok := weights[key]; !ok {
			display[key] = key
			order[key] = next
			next++
		}
		weights[key] += w
	}

	for _, c := range contents {
		conf := c.Confidence
		if conf <= 0 {
			conf = 0.1
		}
		// Phrases carry extra weight: a recurring bigram is a stronger
		// search term than any single keyword.
		for _, p := range c.KeyPhrases {
			note(p, 1.5*conf)
		}
		for i, k := range c.Keywords {
			// Earlier keywords ranked higher by the extractor.
			note(k, conf*(1.0-0.05*float64(i)))
		}
	}

	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if weights[keys[i]] != weights[keys[j]] {
			return weights[keys[i]] > weights[keys[j]]
		}
		return order[keys[i]] < order[keys[j]]
	})

	if len(keys) > max {
		keys = keys[:max]
	}

	terms := make([]string, len(keys))
	for i, k := range keys {
		terms[i] = display[k]
	}
	return terms
}

// weightedConfidence averages source confidences weighted by how much
// material each source contributed.
func weightedConfidence(contents []types.ExtractedContent) float64 {
	var sum, weight float64
	for _, c := range contents {
		w := float64(len(c.Keywords) + len(c.KeyPhrases))
		if w <= 0 {
			w = 1
		}
		sum += c.Confidence * w
		weight += w
	}
	if weight == 0 {
		return 0
	}
	conf := sum / weight
	if conf > 1 {
		conf = 1
	}
	if conf < 0 {
		conf = 0
	}
	return conf
}

// optimization produces the breadth/quality summary attached to a
// generated query.
func (e *Engine) optimization(queryStr string, terms, topics []string) *types.QueryOptimization {
	breadth := analyzeBreadth(queryStr, e.cfg.TermCeiling)

	// Specificity rises with quoted multi-word phrases.
	phrases := 0
	for _, t := range terms {
		if strings.Contains(t, " ") {
			phrases++
		}
	}
	specificity := 0.3 + 0.7*float64(phrases)/float64(maxInt(len(terms), 1))

	// Academic relevance rises when taxonomy topics backed the terms.
	academic := 0.4
	if len(topics) > 0 {
		academic = 0.6 + 0.1*float64(minInt(len(topics), 4))
	}

	var suggestions, alternatives []string
	if breadth.Classification == types.BreadthTooNarrow {
		suggestions = append(suggestions, "add an OR-group of related terms to widen coverage")
	}
	if breadth.Classification == types.BreadthTooBroad {
		suggestions = append(suggestions, "join terms with AND to narrow the result set")
	}
	if len(terms) > 1 {
		alternatives = append(alternatives, buildBooleanQuery(terms[:len(terms)-1]))
	}

	return &types.QueryOptimization{
		BreadthScore:       breadth.Score,
		SpecificityScore:   clamp01(specificity),
		AcademicRelevance:  clamp01(academic),
		Suggestions:        suggestions,
		AlternativeQueries: alternatives,
	}
}

// CombineQueries unions the keyword sets of several queries into a
// single broader query. Confidence is the maximum of the inputs: the
// combination is not penalized for having more terms.
func (e *Engine) CombineQueries(queries []types.SearchQuery) (types.SearchQuery, bool) {
	if len(queries) == 0 {
		return types.SearchQuery{}, false
	}
	if len(queries) == 1 {
		return queries[0], true
	}

	var keywords, topics []string
	var contents []types.ExtractedContent
	maxConf := 0.0
	for _, q := range queries {
		keywords = dedupeFold(keywords, q.Keywords...)
		topics = dedupeFold(topics, q.Topics...)
		contents = append(contents, q.OriginalContent...)
		if q.Confidence > maxConf {
			maxConf = q.Confidence
		}
	}

	terms := keywords
	if len(terms) > e.cfg.MaxKeywords+2 {
		terms = terms[:e.cfg.MaxKeywords+2]
	}
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}
	queryStr := buildBooleanQuery(lowered)

	return types.SearchQuery{
		ID:              uuid.NewString(),
		Query:           queryStr,
		OriginalContent: contents,
		Keywords:        keywords,
		Topics:          topics,
		Type:            types.QueryCombined,
		Confidence:      maxConf,
		Optimization:    e.optimization(queryStr, lowered, topics),
		CreatedAt:       time.Now().UTC(),
	}, true
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

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
