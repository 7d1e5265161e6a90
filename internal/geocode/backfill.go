package geocode

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/minji/jobradar/internal/geo"
	"github.com/minji/jobradar/internal/types"
)

// Store is the storage surface the backfill loop needs.
type Store interface {
	ListUngeocodedUK(ctx context.Context, limit int) ([]types.Snapshot, error)
	UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lng, distanceKm float64) error
}

// Backfiller geocodes stored UK snapshots that are still missing
// coordinates and records their distance from the home base.
type Backfiller struct {
	store  Store
	client *Client
}

// NewBackfiller constructs a Backfiller.
func NewBackfiller(store Store, client *Client) *Backfiller {
	return &Backfiller{store: store, client: client}
}

// Run geocodes up to limit snapshots and returns how many were updated.
// Individual lookup failures are logged and skipped; the pass keeps going.
func (b *Backfiller) Run(ctx context.Context, limit int) (int, error) {
	rows, err := b.store.ListUngeocodedUK(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list ungeocoded: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	updated := 0
	for _, row := range rows {
		coords, err := b.client.Geocode(ctx, searchTerm(row))
		if err != nil {
			if ctx.Err() != nil {
				return updated, ctx.Err()
			}
			log.Printf("[geocode] %s: %v — skipping", row.ID, err)
			continue
		}
		if coords == nil {
			continue
		}

		distance := geo.RoundKm(geo.Haversine(geo.HomeLat, geo.HomeLng, coords.Lat, coords.Lng))
		if err := b.store.UpdateCoordinates(ctx, row.ID, coords.Lat, coords.Lng, distance); err != nil {
			log.Printf("[geocode] update %s: %v — skipping", row.ID, err)
			continue
		}
		updated++
	}

	log.Printf("[geocode] backfill done — updated=%d of %d", updated, len(rows))
	return updated, nil
}

// searchTerm picks the best lookup string: the location detail when present,
// otherwise the job title anchored to London, matching the original
// dashboard's fallback order.
func searchTerm(s types.Snapshot) string {
	if s.LocationDetail != "" {
		return s.LocationDetail
	}
	if s.JobTitle != "" {
		return s.JobTitle + ", London"
	}
	return "London, UK"
}
