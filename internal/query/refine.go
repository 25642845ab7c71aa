// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"fmt"
	"strings"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// Breadth thresholds. Tunable heuristics, not contracts; the fixture
// tests pin the behavior at the boundaries that matter.
const (
	// narrowTermMax: queries with this many effective terms or fewer
	// are too narrow.
	narrowTermMax = 1

	// narrowLengthMin: queries shorter than this are too narrow even
	// with multiple terms.
	narrowLengthMin = 12

	// broadTermMin: OR-only queries with this many terms or more are
	// too broad.
	broadTermMin = 6
)

// genericTerms add noise without narrowing academic searches.
var genericTerms = map[string]bool{
	"research": true, "study": true, "analysis": true, "paper": true,
	"approach": true, "method": true, "overview": true, "introduction": true,
}

// academicSynonyms maps colloquial terms to formal variants used for
// synonym substitution and academic-variant suggestions.
var academicSynonyms = map[string]string{
	"use":      "utilization",
	"kids":     "children",
	"job":      "employment",
	"money":    "financial resources",
	"help":     "intervention",
	"test":     "assessment",
	"teaching": "pedagogy",
	"drug":     "pharmaceutical",
	"food":     "nutrition",
	"old":      "elderly",
	"ai":       "artificial intelligence",
	"ml":       "machine learning",
}

// RefineQuery analyzes a query against its originating content and
// produces breadth analysis, alternative terms, validation, concrete
// optimization recommendations, and refined query variants. It never
// fails: malformed input yields a refinement whose validation explains
// the problems.
func (e *Engine) RefineQuery(query string, context []types.ExtractedContent) types.QueryRefinement {
	validation := ValidateQuery(query)
	breadth := analyzeBreadth(query, e.cfg.TermCeiling)
	terms := parseTerms(query, e.cfg.TermCeiling)

	return types.QueryRefinement{
		OriginalQuery:    query,
		Breadth:          breadth,
		AlternativeTerms: alternativeTerms(terms, context),
		Validation:       validation,
		Recommendations:  e.recommendations(query, terms, breadth),
		RefinedQueries:   e.variants(query, terms, context),
	}
}

// analyzeBreadth classifies a query as too narrow, too broad, or
// optimal, with a numeric score derived from term count and operator mix.
func analyzeBreadth(query string, ceiling int) types.BreadthAnalysis {
	terms := parseTerms(query, ceiling)
	and, or, _ := countOperators(query)

	// Low score = narrow, high = broad. ANDs narrow, ORs broaden.
	score := clamp01(0.1*float64(len(terms)) + 0.1*float64(or) - 0.08*float64(and))

	analysis := types.BreadthAnalysis{
		Score:     score,
		TermCount: len(terms),
		AndCount:  and,
		OrCount:   or,
	}

	switch {
	case len(terms) <= narrowTermMax || len(strings.TrimSpace(query)) < narrowLengthMin:
		analysis.Classification = types.BreadthTooNarrow
		analysis.Explanation = "the query has too few effective terms to cover the topic"
	case and == 0 && or > 0 && len(terms) >= broadTermMin:
		analysis.Classification = types.BreadthTooBroad
		analysis.Explanation = "many terms joined purely by OR will match too much"
	default:
		analysis.Classification = types.BreadthOptimal
		analysis.Explanation = "term count and operator mix are balanced"
	}
	return analysis
}

// alternativeTerms buckets replacement terms: dictionary synonyms and
// academic variants for query terms, context keywords not already in
// the query as related terms, context topics as broader terms, and
// context key phrases containing a query term as narrower terms.
func alternativeTerms(terms []string, context []types.ExtractedContent) types.AlternativeTerms {
	var alt types.AlternativeTerms

	for _, term := range terms {
		for _, word := range strings.Fields(term) {
			if syn, ok := academicSynonyms[word]; ok {
				alt.Synonyms = dedupeFold(alt.Synonyms, syn)
				alt.AcademicVariants = dedupeFold(alt.AcademicVariants, strings.ReplaceAll(term, word, syn))
			}
		}
	}

	for _, c := range context {
		for _, kw := range c.Keywords {
			if !containsFold(terms, kw) {
				alt.Related = dedupeFold(alt.Related, kw)
			}
		}
		alt.Broader = dedupeFold(alt.Broader, c.Topics...)
		for _, phrase := range c.KeyPhrases {
			for _, term := range terms {
				if phrase != term && strings.Contains(phrase, term) {
					alt.Narrower = dedupeFold(alt.Narrower, phrase)
					break
				}
			}
		}
	}

	const bucketCap = 8
	alt.Synonyms = capList(alt.Synonyms, bucketCap)
	alt.Related = capList(alt.Related, bucketCap)
	alt.Broader = capList(alt.Broader, bucketCap)
	alt.Narrower = capList(alt.Narrower, bucketCap)
	alt.AcademicVariants = capList(alt.AcademicVariants, bucketCap)
	return alt
}

func capList(list []string, max int) []string {
	if len(list) > max {
		return list[:max]
	}
	return list
}

// recommendations proposes concrete before/after rewrites, priority-ranked.
func (e *Engine) recommendations(query string, terms []string, breadth types.BreadthAnalysis) []types.OptimizationRecommendation {
	var recs []types.OptimizationRecommendation

	// Multi-word terms that are not quoted should be.
	if unquoted := firstUnquotedPhrase(query, terms); unquoted != "" {
		recs = append(recs, types.OptimizationRecommendation{
			Description: "quote the phrase so it matches as a unit",
			Before:      query,
			After:       strings.Replace(query, unquoted, quote(unquoted), 1),
			Impact:      types.ImpactHigh,
		})
	}

	for _, term := range terms {
		if genericTerms[term] {
			recs = append(recs, types.OptimizationRecommendation{
				Description: fmt.Sprintf("drop the generic term %q", term),
				Before:      query,
				After:       removeTerm(query, term),
				Impact:      types.ImpactMedium,
			})
			break
		}
	}

	switch breadth.Classification {
	case types.BreadthTooNarrow:
		if len(terms) > 0 {
			recs = append(recs, types.OptimizationRecommendation{
				Description: "widen the query with an OR-group of related terms",
				Before:      query,
				After:       query + " " + opOr + " " + quote(terms[0]+" applications"),
				Impact:      types.ImpactMedium,
			})
		}
	case types.BreadthTooBroad:
		if len(terms) >= 2 {
			recs = append(recs, types.OptimizationRecommendation{
				Description: "require the two strongest terms together",
				Before:      query,
				After:       quote(terms[0]) + " " + opAnd + " " + quote(terms[1]),
				Impact:      types.ImpactHigh,
			})
		}
	}

	for i := range recs {
		recs[i].Priority = i + 1
	}
	return recs
}

// firstUnquotedPhrase returns the first multi-word term that appears in
// the query without surrounding quotes.
func firstUnquotedPhrase(query string, terms []string) string {
	lower := strings.ToLower(query)
	for _, term := range terms {
		if !strings.Contains(term, " ") {
			continue
		}
		if strings.Contains(lower, term) && !strings.Contains(lower, `"`+term+`"`) {
			return term
		}
	}
	return ""
}

// removeTerm drops a term and any operator immediately before it.
func removeTerm(query, term string) string {
	for _, pattern := range []string{
		" " + opAnd + " " + quote(term),
		" " + opOr + " " + quote(term),
		" " + opAnd + " " + term,
		" " + opOr + " " + term,
		quote(term),
		term,
	} {
		if strings.Contains(query, pattern) {
			return strings.TrimSpace(strings.Replace(query, pattern, "", 1))
		}
	}
	return query
}

// variants produces refined query alternatives: at least one expected to
// return fewer results, one similar, and one more.
func (e *Engine) variants(query string, terms []string, context []types.ExtractedContent) []types.RefinedQuery {
	if len(terms) == 0 {
		return nil
	}
	var variants []types.RefinedQuery

	// Fewer: tighten with an extra AND term from the context.
	extra := pickExtraTerm(terms, context)
	variants = append(variants, types.RefinedQuery{
		Query:          query + " " + opAnd + " " + quote(extra),
		ExpectedVolume: types.VolumeFewer,
		Changes: []string{
			fmt.Sprintf("added AND %q to require an additional concept", extra),
		},
	})

	// Similar: substitute a synonym where one exists, otherwise requote.
	if subFrom, subTo := firstSynonym(terms); subFrom != "" {
		variants = append(variants, types.RefinedQuery{
			Query:          strings.Replace(query, subFrom, subTo, 1),
			ExpectedVolume: types.VolumeSimilar,
			Changes: []string{
				fmt.Sprintf("replaced %q with the academic variant %q", subFrom, subTo),
			},
		})
	} else {
		variants = append(variants, types.RefinedQuery{
			Query:          buildBooleanQuery(terms),
			ExpectedVolume: types.VolumeSimilar,
			Changes:        []string{"normalized quoting and operator placement"},
		})
	}

	// More: loosen the last AND to OR, or drop the last term.
	if strings.Contains(query, " "+opAnd+" ") {
		idx := strings.LastIndex(query, " "+opAnd+" ")
		variants = append(variants, types.RefinedQuery{
			Query:          query[:idx] + " " + opOr + " " + query[idx+len(" "+opAnd+" "):],
			ExpectedVolume: types.VolumeMore,
			Changes:        []string{"loosened the final AND to OR so either concept matches"},
		})
	} else if len(terms) > 1 {
		variants = append(variants, types.RefinedQuery{
			Query:          buildBooleanQuery(terms[:len(terms)-1]),
			ExpectedVolume: types.VolumeMore,
			Changes:        []string{fmt.Sprintf("dropped the most restrictive term %q", terms[len(terms)-1])},
		})
	} else {
		variants = append(variants, types.RefinedQuery{
			Query:          quote(terms[0]) + " " + opOr + " " + quote(terms[0]+" applications"),
			ExpectedVolume: types.VolumeMore,
			Changes:        []string{"added an OR alternative to widen a single-term query"},
		})
	}

	return variants
}

// pickExtraTerm selects a context keyword not already in the query for
// the tightening variant, falling back to a fixed academic qualifier.
func pickExtraTerm(terms []string, context []types.ExtractedContent) string {
	for _, c := range context {
		for _, kw := range c.Keywords {
			if !containsFold(terms, kw) {
				return strings.ToLower(kw)
			}
		}
	}
	return "empirical study"
}

// firstSynonym returns the first (term, variant) pair with a dictionary
// entry.
func firstSynonym(terms []string) (string, string) {
	for _, term := range terms {
		for _, word := range strings.Fields(term) {
			if syn, ok := academicSynonyms[word]; ok {
				return word, syn
			}
		}
	}
	return "", ""
}
