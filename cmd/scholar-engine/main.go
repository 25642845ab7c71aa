// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholar-engine CLI: an
// academic search assistant that turns user content into boolean search
// queries, scrapes a scholar provider, and ranks the results.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/scholar-engine/internal/secrets"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, otherwise the named secret.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the scholar-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "scholar-engine",
	Short: "Academic search assistant for thesis writing",
	Long: `scholar-engine turns user ideas and builder documents into academic
boolean search queries, fetches results from a scholar provider, and
scores, deduplicates, and re-ranks them with user feedback.

Run the HTTP API with "serve", or use "search" and "query" directly
from the command line.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scholar-engine.yaml or ~/.config/scholar-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	// A local .env may carry API tokens in development.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholar-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholar-engine"))
		}
	}

	viper.SetEnvPrefix("SCHOLAR_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadEngineConfig materializes the typed configuration from viper with
// defaults filled in.
func loadEngineConfig() types.EngineConfig {
	var cfg types.EngineConfig
	_ = viper.Unmarshal(&cfg)

	if cfg.Content.UserAgent == "" {
		cfg.Content.UserAgent = "scholar-engine/" + version
	}
	if cfg.Scholar.UserAgent == "" {
		cfg.Scholar.UserAgent = "scholar-engine/" + version
	}
	if cfg.Content.Timeout <= 0 {
		cfg.Content.Timeout = 15 * time.Second
	}
	if cfg.Scholar.Timeout <= 0 {
		cfg.Scholar.Timeout = 20 * time.Second
	}
	cfg.Content.APIToken = secretDefault("content-api-token", cfg.Content.APIToken)
	return cfg
}

// newLogger builds the process logger.
func newLogger() *zap.Logger {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg = zap.NewDevelopmentConfig()
	}
	log, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
