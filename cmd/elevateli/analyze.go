package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/prPMDev/elevateli/internal/analysis"
	"github.com/prPMDev/elevateli/internal/cache"
	"github.com/prPMDev/elevateli/internal/config"
	"github.com/prPMDev/elevateli/internal/fetch"
	"github.com/prPMDev/elevateli/internal/observability"
	"github.com/prPMDev/elevateli/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a profile page",
	Long:  "Analyze a profile page from a saved HTML file or a live URL: section extraction, a deterministic completeness score, and optionally an AI-assisted quality score.",
	RunE:  runAnalyze,
}

var (
	analyzeFile         string
	analyzeURL          string
	analyzeConfigPath   string
	analyzeAI           bool
	analyzeAPIKey       string
	analyzeModel        string
	analyzeTTLDays      int
	analyzeForceRefresh bool
	analyzeBrowser      bool
	analyzeInstructions string
	analyzeJSON         bool
	analyzeVerbose      bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to a saved profile HTML file")
	analyzeCmd.Flags().StringVarP(&analyzeURL, "url", "u", "", "Profile URL to fetch")
	analyzeCmd.Flags().StringVarP(&analyzeConfigPath, "config", "c", "", "Path to JSON config file")
	analyzeCmd.Flags().BoolVar(&analyzeAI, "ai", false, "Enable AI quality analysis")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Gemini model name")
	analyzeCmd.Flags().IntVar(&analyzeTTLDays, "ttl-days", 0, "Cache validity window in days (1-30)")
	analyzeCmd.Flags().BoolVar(&analyzeForceRefresh, "force-refresh", false, "Recompute even when a valid cached result exists")
	analyzeCmd.Flags().BoolVar(&analyzeBrowser, "browser", false, "Render the page in a headless browser")
	analyzeCmd.Flags().StringVar(&analyzeInstructions, "instructions", "", "Extra reviewer instructions for the AI analysis")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Emit the full result as JSON")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print progress and section details")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	cfg, err := buildAnalyzeConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	resultCache := cache.New(store)

	page, err := acquirePage(ctx, cfg, store)
	if err != nil {
		return err
	}

	var analyzer analysis.Analyzer
	if cfg.AIEnabled {
		gemini, err := analysis.NewGeminiAnalyzer(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return fmt.Errorf("failed to create analyzer: %w", err)
		}
		defer gemini.Close() //nolint:errcheck
		analyzer = gemini
	}

	printer := observability.NewPrinter(os.Stdout)
	opts := pipeline.Options{
		AIEnabled:    cfg.AIEnabled,
		ForceRefresh: analyzeForceRefresh,
		TTLDays:      cfg.CacheTTLDays,
		Instructions: cfg.Instructions,
	}
	if analyzeVerbose {
		opts.OnProgress = printer.PrintProgress
	}

	orchestrator := pipeline.New(nil, resultCache, analyzer)
	result, err := orchestrator.Analyze(ctx, page.ProfileID, page.Doc, opts)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if analyzeVerbose {
		printer.PrintSnapshot(result.Snapshot)
	}
	printer.PrintCompleteness(result.Completeness)
	printer.PrintQuality(result.Quality, result.FromCache)
	return nil
}

// buildAnalyzeConfig merges flags over the config file over the environment.
func buildAnalyzeConfig() (*config.Config, error) {
	cfg := &config.Config{
		ProfileFile:  analyzeFile,
		ProfileURL:   analyzeURL,
		AIEnabled:    analyzeAI,
		APIKey:       analyzeAPIKey,
		Model:        analyzeModel,
		Instructions: analyzeInstructions,
		CacheTTLDays: analyzeTTLDays,
		UseBrowser:   analyzeBrowser,
		Verbose:      analyzeVerbose,
	}

	if analyzeConfigPath != "" {
		fileCfg, err := config.Load(analyzeConfigPath)
		if err != nil {
			return nil, err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		merged.AIEnabled = cfg.AIEnabled || fileCfg.AIEnabled
		merged.UseBrowser = cfg.UseBrowser || fileCfg.UseBrowser
		cfg = &merged
	}

	cfg.FromEnv()

	if cfg.ProfileFile == "" && cfg.ProfileURL == "" {
		return nil, fmt.Errorf("one of --file or --url is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore picks the result store: Postgres when configured, a local
// SQLite file otherwise.
func openStore(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		store, err := cache.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return store, store.Close, nil
	}

	path := cfg.CachePath
	if path == "" {
		path = config.DefaultCachePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	store, err := cache.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// acquirePage loads the profile document from whichever source is set.
func acquirePage(ctx context.Context, cfg *config.Config, store cache.Store) (*fetch.Result, error) {
	if cfg.ProfileFile != "" {
		return fetch.FromFile(cfg.ProfileFile)
	}

	if cfg.UseBrowser {
		return fetch.WithBrowser(ctx, cfg.ProfileURL, fetch.DefaultTimeout, cfg.Verbose)
	}

	fetcher := fetch.NewCachedFetcher(store, nil)
	cached, err := fetcher.Fetch(ctx, cfg.ProfileURL)
	if err != nil {
		return nil, err
	}
	if fetch.ShouldUseBrowser(cached.Result) {
		// The static page was a shell; fall back to a real render.
		return fetch.WithBrowser(ctx, cfg.ProfileURL, fetch.DefaultTimeout, cfg.Verbose)
	}
	return cached.Result, nil
}
