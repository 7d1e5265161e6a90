package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/minji/jobradar/internal/config"
	"github.com/minji/jobradar/internal/cvparse"
	"github.com/minji/jobradar/internal/ingest"
	"github.com/minji/jobradar/internal/scheduler"
	"github.com/minji/jobradar/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server and the daily snapshot scheduler",
	Long:  "Start an HTTP server exposing the dashboard REST API, plus a cron job that generates search links, collects Adzuna postings, and backfills geocoding once a day.",
	RunE:  runServe,
}

var serveNoScheduler bool

func init() {
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "Serve the API without the daily snapshot cron")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	adzuna := buildCollector(cfg)
	geocoder := buildGeocoder(ctx, cfg, store)

	var parser cvparse.Parser
	if cfg.GeminiAPIKey != "" {
		p, err := cvparse.NewGeminiParser(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("failed to create CV parser: %w", err)
		}
		defer p.Close()
		parser = p
	}

	opts := server.Options{Geocoder: geocoder, Parser: parser}
	if adzuna != nil {
		opts.Collector = adzuna
	}

	if !serveNoScheduler {
		ingestSvc := ingest.NewService(store)
		sched := scheduler.New(cfg.ScheduleSpec, func(ctx context.Context) error {
			date := time.Now().UTC().Format("2006-01-02")
			if _, err := ingestSvc.Ingest(ctx, ingest.SearchLinkSnapshots(date)); err != nil {
				return fmt.Errorf("generate search links: %w", err)
			}
			if adzuna != nil {
				snapshots, err := adzuna.Collect(ctx)
				if err != nil {
					return fmt.Errorf("collect postings: %w", err)
				}
				if len(snapshots) > 0 {
					if _, err := ingestSvc.Ingest(ctx, snapshots); err != nil {
						return fmt.Errorf("ingest postings: %w", err)
					}
				}
			}
			if _, err := geocoder.Run(ctx, cfg.GeocodeBatchLimit); err != nil {
				return fmt.Errorf("geocode backfill: %w", err)
			}
			return nil
		})
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	} else {
		log.Println("Scheduler disabled (--no-scheduler)")
	}

	srv := server.New(server.Config{
		Port:              cfg.Port,
		GeocodeBatchLimit: cfg.GeocodeBatchLimit,
	}, store, opts)

	return srv.Start()
}
