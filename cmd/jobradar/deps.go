package main

import (
	"context"
	"fmt"
	"log"

	"github.com/minji/jobradar/internal/collector"
	"github.com/minji/jobradar/internal/config"
	"github.com/minji/jobradar/internal/db"
	"github.com/minji/jobradar/internal/geocode"
)

// openStore connects to Postgres and makes sure the schema exists.
func openStore(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return store, nil
}

// buildCollector returns nil when Adzuna credentials are not configured.
func buildCollector(cfg *config.Config) *collector.AdzunaCollector {
	if cfg.AdzunaAppID == "" || cfg.AdzunaAppKey == "" {
		return nil
	}
	return collector.NewAdzunaCollector(cfg.AdzunaAppID, cfg.AdzunaAppKey)
}

// buildGeocoder assembles the backfiller, with a Redis cache when REDIS_URL
// is set and an uncached client otherwise.
func buildGeocoder(ctx context.Context, cfg *config.Config, store *db.DB) *geocode.Backfiller {
	var cache geocode.Cache
	if cfg.RedisURL != "" {
		rdb, err := geocode.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[geocode] redis unavailable, caching disabled: %v", err)
		} else {
			cache = geocode.NewRedisCache(rdb, 0)
		}
	}
	return geocode.NewBackfiller(store, geocode.NewClient(cache))
}
