package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minji/jobradar/internal/config"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Backfill coordinates and distances for stored UK snapshots",
	Long:  "Run one geocoding pass: look up coordinates for UK snapshots that do not have any yet and record their distance from the home base.",
	RunE:  runGeocode,
}

var geocodeLimit int

func init() {
	geocodeCmd.Flags().IntVar(&geocodeLimit, "limit", 0, "Max snapshots to geocode in this pass (defaults to GEOCODE_BATCH_LIMIT)")
	rootCmd.AddCommand(geocodeCmd)
}

func runGeocode(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	limit := geocodeLimit
	if limit <= 0 {
		limit = cfg.GeocodeBatchLimit
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := buildGeocoder(ctx, cfg, store).Run(ctx, limit)
	if err != nil {
		return err
	}

	fmt.Printf("Geocoded %d snapshots\n", n)
	return nil
}
