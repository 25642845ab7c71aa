// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-engine/internal/content"
	"github.com/pdiddy/scholar-engine/internal/extract"
	"github.com/pdiddy/scholar-engine/internal/query"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Generate, validate, and refine boolean search queries",
}

var queryGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate query candidates from content sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadEngineConfig()
		log := newLogger()
		defer log.Sync()

		sources, _ := cmd.Flags().GetStringSlice("from")
		combine, _ := cmd.Flags().GetBool("combine")
		maxKeywords, _ := cmd.Flags().GetInt("max-keywords")

		if len(sources) == 0 {
			return fmt.Errorf("at least one --from source is required (ideas:ID or builder:ID)")
		}

		var reqs []extract.Request
		for _, s := range sources {
			src, id, ok := strings.Cut(s, ":")
			if !ok {
				return fmt.Errorf("invalid content source %q", s)
			}
			reqs = append(reqs, extract.Request{Source: types.ContentSource(src), ID: id})
		}

		extractor := extract.NewExtractor(content.NewClient(cfg.Content), cfg.Extraction, log)
		contents, err := extractor.ExtractAll(cmd.Context(), reqs)
		var pf *types.PartialFailure
		if errors.As(err, &pf) {
			fmt.Fprintf(os.Stderr, "warning: failed sources: %s\n", strings.Join(pf.Failed, ", "))
		}

		engine := query.NewEngine(cfg.Query, log)
		queries := engine.GenerateQueries(contents, query.Options{
			MaxKeywords:    maxKeywords,
			CombineContent: combine,
		})

		for i, q := range queries {
			fmt.Printf("%d. %s  (confidence %.2f)\n", i+1, q.Query, q.Confidence)
		}
		if len(queries) == 0 {
			fmt.Println("No queries could be generated from the given sources.")
		}
		return nil
	},
}

var queryValidateCmd = &cobra.Command{
	Use:   "validate [query]",
	Short: "Check a query string for balanced quotes, parentheses, and operators",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := query.ValidateQuery(args[0])
		if v.IsValid {
			fmt.Printf("valid (confidence %.2f)\n", v.Confidence)
			return nil
		}
		fmt.Printf("invalid (confidence %.2f)\n", v.Confidence)
		for _, issue := range v.Issues {
			fmt.Println("  -", issue)
		}
		return nil
	},
}

var queryCombineCmd = &cobra.Command{
	Use:   "combine [query-file ...]",
	Short: "Union saved query files into one broader combined query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadEngineConfig()
		log := newLogger()
		defer log.Sync()

		var queries []types.SearchQuery
		for _, path := range args {
			qf, err := query.ReadQueryFile(path)
			if err != nil {
				return err
			}
			queries = append(queries, qf.Query.ToSearchQuery())
		}

		engine := query.NewEngine(cfg.Query, log)
		combined, ok := engine.CombineQueries(queries)
		if !ok {
			return fmt.Errorf("no queries to combine")
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(combined)
		}
		fmt.Printf("%s  (confidence %.2f)\n", combined.Query, combined.Confidence)
		return nil
	},
}

var queryRefineCmd = &cobra.Command{
	Use:   "refine [query]",
	Short: "Analyze a query's breadth and propose refined variants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadEngineConfig()
		log := newLogger()
		defer log.Sync()

		engine := query.NewEngine(cfg.Query, log)
		refinement := engine.RefineQuery(args[0], nil)

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(refinement)
		}

		fmt.Printf("Breadth: %s (score %.2f): %s\n",
			refinement.Breadth.Classification, refinement.Breadth.Score, refinement.Breadth.Explanation)
		for _, rq := range refinement.RefinedQueries {
			fmt.Printf("  [%s] %s\n", rq.ExpectedVolume, rq.Query)
			for _, ch := range rq.Changes {
				fmt.Println("        *", ch)
			}
		}
		return nil
	},
}

func init() {
	queryGenerateCmd.Flags().StringSlice("from", nil, "content sources (ideas:ID, builder:ID)")
	queryGenerateCmd.Flags().Bool("combine", false, "pool keywords across sources into one query")
	queryGenerateCmd.Flags().Int("max-keywords", 0, "cap on terms selected into a query")
	queryCombineCmd.Flags().Bool("json", false, "output the combined query as JSON")
	queryRefineCmd.Flags().Bool("json", false, "output refinement as JSON")

	queryCmd.AddCommand(queryGenerateCmd, queryValidateCmd, queryCombineCmd, queryRefineCmd)
	rootCmd.AddCommand(queryCmd)
}
