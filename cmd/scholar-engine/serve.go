// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-engine/internal/analytics"
	"github.com/pdiddy/scholar-engine/internal/api"
	"github.com/pdiddy/scholar-engine/internal/content"
	"github.com/pdiddy/scholar-engine/internal/extract"
	"github.com/pdiddy/scholar-engine/internal/feedback"
	"github.com/pdiddy/scholar-engine/internal/orchestrator"
	"github.com/pdiddy/scholar-engine/internal/query"
	"github.com/pdiddy/scholar-engine/internal/scholar"
	"github.com/pdiddy/scholar-engine/internal/score"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve starts the scholar-engine HTTP API. All engines are constructed
once at startup and shared across requests; the pipeline itself is
stateless apart from the analytics store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadEngineConfig()
		log := newLogger()
		defer log.Sync()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		store, err := analytics.NewStore(cfg.Analytics)
		if err != nil {
			return fmt.Errorf("opening analytics store: %w", err)
		}
		defer store.Close()

		extractor := extract.NewExtractor(content.NewClient(cfg.Content), cfg.Extraction, log)
		engine := query.NewEngine(cfg.Query, log)
		provider := scholar.NewClient(cfg.Scholar, log)
		ranker := feedback.NewRanker(store, log)

		orch := orchestrator.New(extractor, engine, provider, score.NewScorer(), ranker, store, log)
		handler := api.NewHandler(orch, extractor, engine, store, log)

		return api.Serve(context.Background(), cfg.Server, handler, log)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	rootCmd.AddCommand(serveCmd)
}
