package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minji/jobradar/internal/config"
	"github.com/minji/jobradar/internal/ingest"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect live postings from Adzuna and ingest them",
	RunE:  runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	adzuna := buildCollector(cfg)
	if adzuna == nil {
		return fmt.Errorf("ADZUNA_APP_ID and ADZUNA_APP_KEY are required")
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshots, err := adzuna.Collect(ctx)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Println("No postings collected")
		return nil
	}

	n, err := ingest.NewService(store).Ingest(ctx, snapshots)
	if err != nil {
		return err
	}

	fmt.Printf("Collected %d postings (%d upserted)\n", len(snapshots), n)
	return nil
}
