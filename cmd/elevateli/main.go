// Package main provides the elevateli CLI: profile analysis, cache
// management, and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "elevateli",
	Short: "Profile completeness and quality analyzer",
	Long:  "ElevateLI extracts the sections of a professional profile page, scores completeness deterministically, and optionally scores content quality with AI assistance.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
