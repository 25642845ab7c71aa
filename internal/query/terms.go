// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"strings"
)

// Boolean operators recognized in query strings.
const (
	opAnd = "AND"
	opOr  = "OR"
	opNot = "NOT"
)

func isOperator(tok string) bool {
	return tok == opAnd || tok == opOr || tok == opNot
}

// defaultTermCeiling bounds how many distinct terms analysis considers,
// so very long queries stay cheap.
const defaultTermCeiling = 50

// queryTokens splits a query string into quoted phrases, operators, and
// bare words. Parentheses are dropped; quoted phrases stay intact.
func queryTokens(query string) []string {
	var tokens []string
	var current strings.Builder
	inQuote := false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range query {
		switch {
		case r == '"':
			if inQuote {
				flush()
			}
			inQuote = !inQuote
		case inQuote:
			current.WriteRune(r)
		case r == '(' || r == ')':
			flush()
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// parseTerms returns the distinct search terms of a query (operators and
// parentheses removed), lowercased, in order of first appearance, capped
// at ceiling. A ceiling of 0 means the default.
func parseTerms(query string, ceiling int) []string {
	if ceiling <= 0 {
		ceiling = defaultTermCeiling
	}

	seen := make(map[string]struct{})
	var terms []string
	for _, tok := range queryTokens(query) {
		if isOperator(tok) {
			continue
		}
		term := strings.ToLower(strings.TrimSpace(tok))
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
		if len(terms) >= ceiling {
			break
		}
	}
	return terms
}

// countOperators returns the number of AND / OR / NOT tokens in a query.
func countOperators(query string) (and, or, not int) {
	for _, tok := range queryTokens(query) {
		switch tok {
		case opAnd:
			and++
		case opOr:
			or++
		case opNot:
			not++
		}
	}
	return and, or, not
}

// quote wraps a term in double quotes for the boolean query syntax.
func quote(term string) string {
	return `"` + term + `"`
}

// buildBooleanQuery synthesizes a query of the form
// "t1" AND "t2" AND ("t3" OR "t4"): all terms quoted, with at most one
// trailing OR-group for breadth control. Fewer than four terms are
// joined purely by AND.
func buildBooleanQuery(terms []string) string {
	switch len(terms) {
	case 0:
		return ""
	case 1:
		return quote(terms[0])
	}

	if len(terms) < 4 {
		quoted := make([]string, len(terms))
		for i, t := range terms {
			quoted[i] = quote(t)
		}
		return strings.Join(quoted, " "+opAnd+" ")
	}

	// Last two terms form the OR-group; the rest are AND-joined.
	head := terms[:len(terms)-2]
	tail := terms[len(terms)-2:]

	quoted := make([]string, len(head))
	for i, t := range head {
		quoted[i] = quote(t)
	}
	group := "(" + quote(tail[0]) + " " + opOr + " " + quote(tail[1]) + ")"
	return strings.Join(quoted, " "+opAnd+" ") + " " + opAnd + " " + group
}

// dedupeFold appends items to dst, skipping case-insensitive duplicates.
func dedupeFold(dst []string, items ...string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, d := range dst {
		seen[strings.ToLower(d)] = struct{}{}
	}
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, item)
	}
	return dst
}

// containsFold reports whether list contains s case-insensitively.
func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
