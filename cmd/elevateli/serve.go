package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prPMDev/elevateli/internal/analysis"
	"github.com/prPMDev/elevateli/internal/cache"
	"github.com/prPMDev/elevateli/internal/config"
	"github.com/prPMDev/elevateli/internal/pipeline"
	"github.com/prPMDev/elevateli/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start an HTTP server exposing analysis runs, progress streams, and cache management.",
	RunE:  runServe,
}

var (
	serveAddr   string
	serveAPIKey string
	serveModel  string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "Address to listen on")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "Gemini model name")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := &config.Config{APIKey: serveAPIKey, Model: serveModel}
	cfg.FromEnv()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	resultCache := cache.New(store)

	var analyzer analysis.Analyzer
	if cfg.APIKey != "" {
		gemini, err := analysis.NewGeminiAnalyzer(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return fmt.Errorf("failed to create analyzer: %w", err)
		}
		defer gemini.Close() //nolint:errcheck
		analyzer = gemini
	}

	srv, err := server.New(server.Config{
		Addr:         serveAddr,
		Orchestrator: pipeline.New(nil, resultCache, analyzer),
		Cache:        resultCache,
		Store:        store,
		OperatorHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
