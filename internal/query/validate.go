// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"strings"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// ValidateQuery checks a query string for syntactic validity: balanced
// quotes and parentheses, recognized operators with operands on both
// sides, and at least one non-trivial term. It never returns an error;
// malformed input yields IsValid=false with explanatory issues.
// Confidence reflects how close to well-formed the input is.
func ValidateQuery(query string) types.ValidationResult {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return types.ValidationResult{
			IsValid:     false,
			Issues:      []string{"query is empty"},
			Suggestions: []string{"enter at least one search term"},
			Confidence:  0,
		}
	}

	var issues, suggestions []string

	if strings.Count(trimmed, `"`)%2 != 0 {
		issues = append(issues, "unbalanced quotes")
		suggestions = append(suggestions, "close every opening quote")
	}

	depth := 0
	balanced := true
	for _, r := range trimmed {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				balanced = false
			}
		}
	}
	if depth != 0 || !balanced {
		issues = append(issues, "unbalanced parentheses")
		suggestions = append(suggestions, "match every opening parenthesis with a closing one")
	}

	tokens := queryTokens(trimmed)

	// Operators need operands on both sides.
	for i, tok := range tokens {
		if !isOperator(tok) {
			continue
		}
		if i == 0 || i == len(tokens)-1 || isOperator(tokens[i-1]) {
			issues = append(issues, "operator "+tok+" is missing an operand")
			suggestions = append(suggestions, "place search terms on both sides of "+tok)
			break
		}
	}

	// Operators from other query dialects are flagged rather than
	// silently treated as search terms.
	for _, tok := range tokens {
		if foreignOperators[tok] {
			issues = append(issues, "unrecognized operator "+tok)
			suggestions = append(suggestions, "use only AND, OR, and NOT")
			break
		}
	}

	hasTerm := false
	for _, tok := range tokens {
		if !isOperator(tok) && len(tok) > 2 {
			hasTerm = true
			break
		}
	}
	if !hasTerm {
		issues = append(issues, "no substantial search term (longer than 2 characters)")
		suggestions = append(suggestions, "add a descriptive search term")
	}

	confidence := 1.0 - 0.25*float64(len(issues))
	if confidence < 0 {
		confidence = 0
	}

	return types.ValidationResult{
		IsValid:     len(issues) == 0,
		Issues:      issues,
		Suggestions: suggestions,
		Confidence:  confidence,
	}
}

// foreignOperators are operators from other boolean dialects that this
// syntax does not support.
var foreignOperators = map[string]bool{
	"XOR": true, "NEAR": true, "ADJ": true, "SAME": true, "WITH": true,
}
