// Package scheduler wires up the cron job that runs the daily snapshot
// cycle: search-link generation, Adzuna collection, and geocode backfill.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Cycle is one full snapshot run. Errors are logged, not propagated; a
// failed run must not stop the schedule.
type Cycle func(ctx context.Context) error

// Scheduler wraps robfig/cron and manages the snapshot loop.
type Scheduler struct {
	cron  *cron.Cron
	cycle Cycle
	spec  string // cron spec, e.g. "@every 24h"
}

// New creates a Scheduler firing on the given cron spec.
func New(spec string, cycle Cycle) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithLogger(cron.DefaultLogger)),
		cycle: cycle,
		spec:  spec,
	}
}

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so the dashboard is populated without waiting for the first
// tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.run(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	log.Println("[scheduler] Snapshot cycle started")
	if err := s.cycle(ctx); err != nil {
		log.Printf("[scheduler] Cycle error: %v", err)
		return
	}
	log.Println("[scheduler] Snapshot cycle complete")
}
