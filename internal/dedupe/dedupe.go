// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe identifies near-duplicate search results by DOI,
// normalized title, and author overlap. Grouping is advisory: input
// order is never changed and nothing is merged unless the caller asks.
package dedupe

import (
	"strings"
	"unicode"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// Group is a set of indices into the input slice that refer to the same
// work. The first index is the canonical (earliest) occurrence.
type Group struct {
	Indices []int

	// ByDOI marks groups established by DOI equality, the strongest
	// signal.
	ByDOI bool
}

// DetectDuplicates groups near-duplicate results. DOI equality
// short-circuits to "same work" regardless of title formatting; results
// without a matching DOI are grouped by normalized title corroborated by
// author-set overlap. Only groups with two or more members are returned.
// The input is not reordered or mutated.
func DetectDuplicates(results []types.SearchResult) []Group {
	byDOI := make(map[string]*Group)
	byTitle := make(map[string]*Group)
	var groups []*Group

	attach := func(g *Group, idx int) {
		g.Indices = append(g.Indices, idx)
	}

	for i, r := range results {
		doi := strings.ToLower(strings.TrimSpace(r.DOI))
		title := normalizeTitle(r.Title)

		if doi != "" {
			if g, ok := byDOI[doi]; ok {
				attach(g, i)
				g.ByDOI = true
				continue
			}
		}

		if title != "" {
			if g, ok := byTitle[title]; ok {
				// Title match alone is weak; require author overlap
				// unless either side has no authors at all.
				first := results[g.Indices[0]]
				if len(first.Authors) == 0 || len(r.Authors) == 0 || authorOverlap(first.Authors, r.Authors) {
					attach(g, i)
					if doi != "" {
						byDOI[doi] = g
					}
					continue
				}
			}
		}

		g := &Group{Indices: []int{i}}
		groups = append(groups, g)
		if doi != "" {
			byDOI[doi] = g
		}
		if title != "" {
			byTitle[title] = g
		}
	}

	var dupes []Group
	for _, g := range groups {
		if len(g.Indices) > 1 {
			dupes = append(dupes, *g)
		}
	}
	return dupes
}

// Merge collapses each duplicate group into its canonical result,
// filling empty fields from later members and keeping the higher scores.
// The returned slice preserves the input order of surviving results;
// the input itself is untouched.
func Merge(results []types.SearchResult, groups []Group) ([]types.SearchResult, int) {
	drop := make(map[int]struct{})
	merged := make([]types.SearchResult, len(results))
	copy(merged, results)

	for _, g := range groups {
		canonical := g.Indices[0]
		for _, idx := range g.Indices[1:] {
			mergeInto(&merged[canonical], merged[idx])
			drop[idx] = struct{}{}
		}
	}

	out := make([]types.SearchResult, 0, len(results)-len(drop))
	for i, r := range merged {
		if _, gone := drop[i]; gone {
			continue
		}
		out = append(out, r)
	}
	return out, len(drop)
}

// mergeInto fills empty fields of dst from src and keeps the higher scores.
func mergeInto(dst *types.SearchResult, src types.SearchResult) {
	if dst.Title == "" && src.Title != "" {
		dst.Title = src.Title
	}
	if len(dst.Authors) == 0 && len(src.Authors) > 0 {
		dst.Authors = src.Authors
	}
	if dst.Journal == "" && src.Journal != "" {
		dst.Journal = src.Journal
	}
	if dst.Abstract == "" && src.Abstract != "" {
		dst.Abstract = src.Abstract
	}
	if dst.DOI == "" && src.DOI != "" {
		dst.DOI = src.DOI
	}
	if dst.URL == "" && src.URL != "" {
		dst.URL = src.URL
	}
	if dst.Year == 0 && src.Year != 0 {
		dst.Year = src.Year
	}
	if src.CitationCount > dst.CitationCount {
		dst.CitationCount = src.CitationCount
		dst.CitationsEstimated = src.CitationsEstimated
	}
	if src.RelevanceScore > dst.RelevanceScore {
		dst.RelevanceScore = src.RelevanceScore
	}
	if src.QualityScore > dst.QualityScore {
		dst.QualityScore = src.QualityScore
	}
	if src.Confidence > dst.Confidence {
		dst.Confidence = src.Confidence
	}
}

// normalizeTitle returns a lowercased, punctuation-stripped version of
// the title with collapsed whitespace.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// authorOverlap reports whether the two author sets share at least one
// normalized surname.
func authorOverlap(a, b []string) bool {
	surnames := make(map[string]struct{}, len(a))
	for _, name := range a {
		if s := surname(name); s != "" {
			surnames[s] = struct{}{}
		}
	}
	for _, name := range b {
		if _, ok := surnames[surname(name)]; ok {
			return true
		}
	}
	return false
}

// surname extracts the lowercased final name component.
func surname(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[len(fields)-1], ".,")
}
