// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatTable writes a response as a human-readable table to w.
func FormatTable(resp Response, w io.Writer) {
	fmt.Fprintf(w, "Query: %s\n\n", resp.Query)

	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		if resp.FallbackURL != "" {
			fmt.Fprintf(w, "Try searching manually: %s\n", resp.FallbackURL)
		}
		return
	}

	fmt.Fprintf(w, "%-4s  %-56s  %-20s  %-4s  %-6s  %-6s  %s\n",
		"Rank", "Title", "Authors", "Year", "Conf", "Qual", "Cites")
	fmt.Fprintln(w, strings.Repeat("-", 112))

	for i, r := range resp.Results {
		title := r.Title
		if len(title) > 56 {
			title = title[:53] + "..."
		}
		year := ""
		if r.Year > 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		cites := fmt.Sprintf("%d", r.CitationCount)
		if r.CitationsEstimated {
			cites = "~" + cites
		}
		fmt.Fprintf(w, "%-4d  %-56s  %-20s  %-4s  %-6.2f  %-6.2f  %s\n",
			i+1, title, formatAuthors(r.Authors), year, r.Confidence, r.QualityScore, cites)
	}

	fmt.Fprintf(w, "\n%d results", len(resp.Results))
	if resp.DuplicatesFlagged > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", resp.DuplicatesFlagged)
	}
	if resp.Degraded {
		fmt.Fprintf(w, " [degraded: %s]", strings.Join(resp.FailedSources, ", "))
	}
	fmt.Fprintln(w)
}

// FormatJSON writes a response as indented JSON to w.
func FormatJSON(resp Response, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
