// Package main provides the entry point for the job radar dashboard service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobradar",
	Short: "Job market tracking dashboard",
	Long:  "jobradar tracks daily job-search snapshots across platforms, enriches them with live Adzuna postings, commute distances, and profile match scores, and serves the dashboard REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
