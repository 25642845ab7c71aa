// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-engine/internal/content"
	"github.com/pdiddy/scholar-engine/internal/extract"
	"github.com/pdiddy/scholar-engine/internal/orchestrator"
	"github.com/pdiddy/scholar-engine/internal/query"
	"github.com/pdiddy/scholar-engine/internal/scholar"
	"github.com/pdiddy/scholar-engine/internal/score"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the scholar provider for academic results",
	Long: `Search runs the pipeline from the command line: an explicit query, or
content sources ("ideas:ID" / "builder:ID") to derive one from. Results
are scored, deduplicated, and printed as a table or JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadEngineConfig()
		log := newLogger()
		defer log.Sync()

		queryStr, _ := cmd.Flags().GetString("query")
		sources, _ := cmd.Flags().GetStringSlice("from")
		maxResults, _ := cmd.Flags().GetInt("max-results")
		yearStart, _ := cmd.Flags().GetInt("year-start")
		yearEnd, _ := cmd.Flags().GetInt("year-end")
		sortBy, _ := cmd.Flags().GetString("sort")
		asJSON, _ := cmd.Flags().GetBool("json")
		outFile, _ := cmd.Flags().GetString("out")
		loadFile, _ := cmd.Flags().GetString("load")

		if loadFile != "" {
			qf, err := query.ReadQueryFile(loadFile)
			if err != nil {
				return err
			}
			resp := orchestrator.Response{
				Query:             qf.Query.Query,
				Results:           qf.Results,
				DuplicatesFlagged: qf.Summary.DuplicatesFlagged,
				Degraded:          qf.Summary.Degraded,
			}
			if asJSON {
				return orchestrator.FormatJSON(resp, os.Stdout)
			}
			orchestrator.FormatTable(resp, os.Stdout)
			return nil
		}

		req := orchestrator.Request{
			Query: queryStr,
			Filters: types.SearchFilters{
				MaxResults: maxResults,
				YearStart:  yearStart,
				YearEnd:    yearEnd,
				SortBy:     sortBy,
			},
		}
		for _, s := range sources {
			src, id, ok := strings.Cut(s, ":")
			if !ok {
				return fmt.Errorf("invalid content source %q: expected ideas:ID or builder:ID", s)
			}
			req.ContentSources = append(req.ContentSources, extract.Request{
				Source: types.ContentSource(src),
				ID:     id,
			})
		}

		extractor := extract.NewExtractor(content.NewClient(cfg.Content), cfg.Extraction, log)
		engine := query.NewEngine(cfg.Query, log)
		provider := scholar.NewClient(cfg.Scholar, log)

		// CLI searches skip feedback ranking and analytics: there is no
		// user identity or store on the command line.
		orch := orchestrator.New(extractor, engine, provider, score.NewScorer(), nil, nil, log)

		resp, err := orch.Search(cmd.Context(), req)
		if err != nil {
			if resp.FallbackURL != "" {
				fmt.Fprintf(os.Stderr, "Try searching manually: %s\n", resp.FallbackURL)
			}
			return err
		}

		if outFile != "" {
			var q types.SearchQuery
			if len(resp.GeneratedQueries) > 0 {
				q = resp.GeneratedQueries[0]
			} else {
				q = types.SearchQuery{Query: resp.Query}
			}
			if err := query.WriteQueryFile(outFile, q, req.Filters, resp.Results, resp.DuplicatesFlagged, resp.Degraded); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Saved query file: %s\n", outFile)
		}

		if asJSON {
			return orchestrator.FormatJSON(resp, os.Stdout)
		}
		orchestrator.FormatTable(resp, os.Stdout)
		return nil
	},
}

func init() {
	searchCmd.Flags().String("query", "", "explicit boolean search query")
	searchCmd.Flags().StringSlice("from", nil, "content sources to derive a query from (ideas:ID, builder:ID)")
	searchCmd.Flags().Int("max-results", 20, "maximum number of results to return")
	searchCmd.Flags().Int("year-start", 0, "earliest publication year")
	searchCmd.Flags().Int("year-end", 0, "latest publication year")
	searchCmd.Flags().String("sort", "", "provider sort order (\"date\" for newest first)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("out", "", "save the query and results to a YAML file")
	searchCmd.Flags().String("load", "", "load and display a previously saved query file")

	rootCmd.AddCommand(searchCmd)
}
