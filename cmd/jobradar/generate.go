package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/minji/jobradar/internal/config"
	"github.com/minji/jobradar/internal/ingest"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the daily grid of search-link snapshots",
	Long:  "Generate one search-link snapshot per (search query × region × platform) for a given date and upsert them into the database.",
	RunE:  runGenerate,
}

var generateDate string

func init() {
	generateCmd.Flags().StringVar(&generateDate, "date", "", "Snapshot date as YYYY-MM-DD (defaults to today, UTC)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	date := generateDate
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("--date must be YYYY-MM-DD, got %q", date)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rows := ingest.SearchLinkSnapshots(date)
	n, err := ingest.NewService(store).Ingest(ctx, rows)
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d search links for %s (%d upserted)\n", len(rows), date, n)
	return nil
}
