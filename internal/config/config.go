// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string // optional; geocode caching is disabled without it

	AdzunaAppID  string // optional; collection is skipped without creds
	AdzunaAppKey string

	GeminiAPIKey string // optional; CV parsing is disabled without it
	GeminiModel  string

	GeocodeBatchLimit int    // max snapshots geocoded per pass
	ScheduleSpec      string // cron spec for the daily cycle
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	limit := 50
	if s := os.Getenv("GEOCODE_BATCH_LIMIT"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("GEOCODE_BATCH_LIMIT must be a positive integer, got %q", s)
		}
		limit = v
	}

	spec := os.Getenv("SCHEDULE_SPEC")
	if spec == "" {
		spec = "@every 24h"
	}

	return &Config{
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          os.Getenv("REDIS_URL"),
		AdzunaAppID:       os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:      os.Getenv("ADZUNA_APP_KEY"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       os.Getenv("GEMINI_MODEL"),
		GeocodeBatchLimit: limit,
		ScheduleSpec:      spec,
	}, nil
}
