package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prPMDev/elevateli/internal/cache"
	"github.com/prPMDev/elevateli/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached analysis results",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the cached result for a profile",
	RunE:  runCacheClear,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the local cache file location",
	Run: func(_ *cobra.Command, _ []string) {
		path := os.Getenv("ELEVATELI_CACHE_PATH")
		if path == "" {
			path = config.DefaultCachePath()
		}
		fmt.Println(path)
	},
}

var (
	cacheClearProfile string
	cacheDatabaseURL  string
	cacheFilePath     string
)

func init() {
	cacheClearCmd.Flags().StringVarP(&cacheClearProfile, "profile", "p", "", "Profile id to invalidate (required)")
	cacheClearCmd.Flags().StringVar(&cacheDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	cacheClearCmd.Flags().StringVar(&cacheFilePath, "cache-path", "", "Local cache file (overrides the default location)")
	_ = cacheClearCmd.MarkFlagRequired("profile")

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := &config.Config{DatabaseURL: cacheDatabaseURL, CachePath: cacheFilePath}
	cfg.FromEnv()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := cache.New(store).Invalidate(ctx, cacheClearProfile); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Printf("Cleared cached analysis for %s\n", cacheClearProfile)
	return nil
}
