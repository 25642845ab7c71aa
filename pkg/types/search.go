// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the scholar-engine
// search pipeline: extracted content, generated queries, refinement
// analysis, and scored results.
package types

import "time"

// ContentSource identifies where a piece of user content came from.
type ContentSource string

const (
	SourceIdeas   ContentSource = "ideas"
	SourceBuilder ContentSource = "builder"
)

// ExtractedContent is the normalized representation of a user idea or
// builder document, used as seed material for query generation. It is
// immutable once produced.
type ExtractedContent struct {
	// ID is the identifier of the upstream record this was extracted from.
	ID string `json:"id" yaml:"id"`

	// Source identifies the upstream collection (ideas or builder).
	Source ContentSource `json:"source" yaml:"source"`

	// Title is the upstream record title, or a fallback label when
	// extraction failed.
	Title string `json:"title" yaml:"title"`

	// Content is the raw text the keywords were derived from.
	Content string `json:"content" yaml:"content"`

	// Keywords are frequency-ranked single terms, unique case-insensitively.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// KeyPhrases are bigrams/trigrams that recur in the content.
	KeyPhrases []string `json:"key_phrases" yaml:"key_phrases"`

	// Topics are taxonomy labels matched against the content.
	Topics []string `json:"topics" yaml:"topics"`

	// Confidence is a value in [0,1] reflecting how much signal the
	// source content carried. Fallback records score at or below 0.2.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// ExtractedAt is when the extraction ran.
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}

// QueryType classifies how a search query was produced.
type QueryType string

const (
	QueryBasic    QueryType = "basic"
	QueryAcademic QueryType = "academic"
	QueryCombined QueryType = "combined"
)

// SearchQuery is a generated boolean search expression together with the
// material it was derived from. Refinement never mutates a SearchQuery;
// it produces new instances.
type SearchQuery struct {
	ID string `json:"id" yaml:"id"`

	// Query is the boolean search expression: quoted phrases joined by
	// AND/OR/NOT with balanced quotes and parentheses.
	Query string `json:"query" yaml:"query"`

	// OriginalContent lists the extracted content records, in input
	// order, that contributed terms to this query.
	OriginalContent []ExtractedContent `json:"original_content,omitempty" yaml:"original_content,omitempty"`

	Keywords []string  `json:"keywords" yaml:"keywords"`
	Topics   []string  `json:"topics,omitempty" yaml:"topics,omitempty"`
	Type     QueryType `json:"query_type" yaml:"query_type"`

	// Confidence is the weighted average of the source-content
	// confidences, in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Optimization carries breadth and quality analysis for the query.
	Optimization *QueryOptimization `json:"optimization,omitempty" yaml:"optimization,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// QueryOptimization summarizes how well-formed and well-scoped a query is.
type QueryOptimization struct {
	BreadthScore       float64  `json:"breadth_score" yaml:"breadth_score"`
	SpecificityScore   float64  `json:"specificity_score" yaml:"specificity_score"`
	AcademicRelevance  float64  `json:"academic_relevance" yaml:"academic_relevance"`
	Suggestions        []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	AlternativeQueries []string `json:"alternative_queries,omitempty" yaml:"alternative_queries,omitempty"`
}

// Breadth classifies how narrow or broad a query is.
type Breadth string

const (
	BreadthTooNarrow Breadth = "too_narrow"
	BreadthOptimal   Breadth = "optimal"
	BreadthTooBroad  Breadth = "too_broad"
)

// BreadthAnalysis reports the breadth classification of a query along
// with the term/operator figures it was derived from.
type BreadthAnalysis struct {
	Classification Breadth `json:"classification" yaml:"classification"`

	// Score is in [0,1]: low values are narrow, high values broad.
	Score float64 `json:"score" yaml:"score"`

	TermCount int `json:"term_count" yaml:"term_count"`
	AndCount  int `json:"and_count" yaml:"and_count"`
	OrCount   int `json:"or_count" yaml:"or_count"`

	Explanation string `json:"explanation" yaml:"explanation"`
}

// AlternativeTerms buckets replacement terms derived from the query's
// originating content.
type AlternativeTerms struct {
	Synonyms         []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	Related          []string `json:"related,omitempty" yaml:"related,omitempty"`
	Broader          []string `json:"broader,omitempty" yaml:"broader,omitempty"`
	Narrower         []string `json:"narrower,omitempty" yaml:"narrower,omitempty"`
	AcademicVariants []string `json:"academic_variants,omitempty" yaml:"academic_variants,omitempty"`
}

// ValidationResult reports whether a query string is syntactically valid
// boolean-search syntax. Confidence reflects how close to well-formed
// the input is, even when invalid.
type ValidationResult struct {
	IsValid     bool     `json:"is_valid" yaml:"is_valid"`
	Issues      []string `json:"issues,omitempty" yaml:"issues,omitempty"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Confidence  float64  `json:"confidence" yaml:"confidence"`
}

// Impact grades how much an optimization is expected to change results.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// OptimizationRecommendation is a concrete before/after query rewrite.
type OptimizationRecommendation struct {
	Description string `json:"description" yaml:"description"`
	Before      string `json:"before" yaml:"before"`
	After       string `json:"after" yaml:"after"`
	Impact      Impact `json:"impact" yaml:"impact"`
	Priority    int    `json:"priority" yaml:"priority"`
}

// ResultVolume tags a refined query variant with its expected effect on
// result count relative to the original.
type ResultVolume string

const (
	VolumeFewer   ResultVolume = "fewer"
	VolumeSimilar ResultVolume = "similar"
	VolumeMore    ResultVolume = "more"
)

// RefinedQuery is a variant of an input query produced by refinement.
type RefinedQuery struct {
	Query          string       `json:"query" yaml:"query"`
	ExpectedVolume ResultVolume `json:"expected_volume" yaml:"expected_volume"`

	// Changes describes what changed relative to the original and why.
	Changes []string `json:"changes" yaml:"changes"`
}

// QueryRefinement aggregates everything RefineQuery produces for one query.
type QueryRefinement struct {
	OriginalQuery    string                       `json:"original_query" yaml:"original_query"`
	Breadth          BreadthAnalysis              `json:"breadth" yaml:"breadth"`
	AlternativeTerms AlternativeTerms             `json:"alternative_terms" yaml:"alternative_terms"`
	Validation       ValidationResult             `json:"validation" yaml:"validation"`
	Recommendations  []OptimizationRecommendation `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	RefinedQueries   []RefinedQuery               `json:"refined_queries,omitempty" yaml:"refined_queries,omitempty"`
}

// ScholarResult is a raw record scraped from the search provider. All
// fields are untrusted external input: any of them may be missing.
type ScholarResult struct {
	Title     string   `json:"title" yaml:"title"`
	Authors   []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Journal   string   `json:"journal,omitempty" yaml:"journal,omitempty"`
	Year      int      `json:"year,omitempty" yaml:"year,omitempty"`
	Citations int      `json:"citations,omitempty" yaml:"citations,omitempty"`
	DOI       string   `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL       string   `json:"url,omitempty" yaml:"url,omitempty"`
	Abstract  string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Keywords  []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// SearchResult is a ScholarResult enriched with scores. Created per
// search invocation; scored, possibly re-ranked, and returned. Scores
// always lie in [0,1].
type SearchResult struct {
	ScholarResult `yaml:",inline"`

	Confidence     float64 `json:"confidence" yaml:"confidence"`
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
	CitationCount  int     `json:"citation_count" yaml:"citation_count"`
	QualityScore   float64 `json:"quality_score" yaml:"quality_score"`

	// CitationsEstimated marks CitationCount as an estimate rather than
	// a provider-reported figure.
	CitationsEstimated bool `json:"citations_estimated,omitempty" yaml:"citations_estimated,omitempty"`
}

// SearchFilters narrows a provider search.
type SearchFilters struct {
	MaxResults int    `json:"max_results,omitempty" yaml:"max_results,omitempty"`
	YearStart  int    `json:"year_start,omitempty" yaml:"year_start,omitempty"`
	YearEnd    int    `json:"year_end,omitempty" yaml:"year_end,omitempty"`
	SortBy     string `json:"sort_by,omitempty" yaml:"sort_by,omitempty"`
}
