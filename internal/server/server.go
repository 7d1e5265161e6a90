// Package server provides the HTTP REST API for the job radar dashboard.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/minji/jobradar/internal/cvparse"
	"github.com/minji/jobradar/internal/db"
	"github.com/minji/jobradar/internal/ingest"
	"github.com/minji/jobradar/internal/types"
)

// Store is the storage surface the API needs. *db.DB satisfies it; handler
// tests use a fake.
type Store interface {
	ListSnapshots(ctx context.Context, filters db.SnapshotFilters) ([]types.Snapshot, error)
	GetSnapshot(ctx context.Context, id uuid.UUID) (*types.Snapshot, error)
	UpsertSnapshots(ctx context.Context, snapshots []types.Snapshot) (int, error)
	DistinctRegions(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context) (*types.CandidateProfile, error)
	SaveProfile(ctx context.Context, p types.CandidateProfile) error
}

// Collector pulls fresh postings from an external source.
type Collector interface {
	Collect(ctx context.Context) ([]types.Snapshot, error)
}

// Geocoder backfills coordinates for stored snapshots.
type Geocoder interface {
	Run(ctx context.Context, limit int) (int, error)
}

// Config holds server configuration
type Config struct {
	Port              string
	GeocodeBatchLimit int
}

// Options carries the optional integrations. Any nil field disables the
// corresponding endpoint with 503 rather than failing startup.
type Options struct {
	Collector Collector
	Geocoder  Geocoder
	Parser    cvparse.Parser
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      Store
	ingestSvc  *ingest.Service
	collector  Collector
	geocoder   Geocoder
	parser     cvparse.Parser
	batchLimit int
}

// New creates a new server instance
func New(cfg Config, store Store, opts Options) *Server {
	s := &Server{
		store:      store,
		ingestSvc:  ingest.NewService(store),
		collector:  opts.Collector,
		geocoder:   opts.Geocoder,
		parser:     opts.Parser,
		batchLimit: cfg.GeocodeBatchLimit,
	}

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // geocoding passes are paced
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /snapshots", s.handleListSnapshots)
	mux.HandleFunc("GET /snapshots/{id}", s.handleGetSnapshot)
	mux.HandleFunc("POST /snapshots/generate", s.handleGenerate)
	mux.HandleFunc("POST /snapshots/ingest", s.handleIngest)
	mux.HandleFunc("POST /snapshots/collect", s.handleCollect)
	mux.HandleFunc("POST /snapshots/geocode", s.handleGeocode)

	mux.HandleFunc("GET /export.csv", s.handleExportCSV)
	mux.HandleFunc("GET /regions", s.handleRegions)

	mux.HandleFunc("GET /profile", s.handleGetProfile)
	mux.HandleFunc("PUT /profile", s.handlePutProfile)
	mux.HandleFunc("POST /profile/parse-cv", s.handleParseCV)

	return s.withLogging(s.withCORS(mux))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
