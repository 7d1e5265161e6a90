// Package ingest normalizes incoming snapshots, fills in derived fields,
// and writes them to storage. It also generates the daily grid of
// search-link snapshots for the tracked regions and platforms.
package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/minji/jobradar/internal/geo"
	"github.com/minji/jobradar/internal/regions"
	"github.com/minji/jobradar/internal/signals"
	"github.com/minji/jobradar/internal/types"
)

const previewLength = 200

// Store is the storage surface ingest needs.
type Store interface {
	UpsertSnapshots(ctx context.Context, snapshots []types.Snapshot) (int, error)
}

// Service validates, normalizes and stores snapshots.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Ingest normalizes and upserts a batch. Rows missing any identity field
// are rejected before anything is written.
func (s *Service) Ingest(ctx context.Context, snapshots []types.Snapshot) (int, error) {
	for i := range snapshots {
		if err := validate(snapshots[i]); err != nil {
			return 0, fmt.Errorf("snapshot %d: %w", i, err)
		}
		snapshots[i] = Normalize(snapshots[i])
	}

	n, err := s.store.UpsertSnapshots(ctx, snapshots)
	if err != nil {
		return 0, fmt.Errorf("upsert snapshots: %w", err)
	}
	log.Printf("[ingest] upserted %d of %d snapshots", n, len(snapshots))
	return n, nil
}

func validate(s types.Snapshot) error {
	switch {
	case s.Date == "":
		return fmt.Errorf("missing date")
	case s.Role == "":
		return fmt.Errorf("missing role")
	case s.Region == "":
		return fmt.Errorf("missing region")
	case s.Platform == "":
		return fmt.Errorf("missing platform")
	}
	return nil
}

// Normalize fills derived fields the sender may have left out: the job
// title defaults to the role, the preview snippet to a prefix of the
// description, keyword signals are extracted when absent, and distance is
// computed when coordinates are already known.
func Normalize(s types.Snapshot) types.Snapshot {
	// A posting that carries a company but no title still needs to dedupe
	// as a posting, not collapse into the search-link key space.
	if s.JobTitle == "" && s.CompanyName != "" {
		s.JobTitle = s.Role
	}

	if s.PreviewSnippet == "" && s.Description != "" {
		s.PreviewSnippet = truncate(s.Description, previewLength)
	}

	if len(s.KeywordHits) == 0 {
		title := s.JobTitle
		if title == "" {
			title = s.Role
		}
		sig := signals.Extract(title, s.PreviewSnippet)
		s.KeywordHits = sig.KeywordHits
		s.KeywordScore = sig.KeywordScore
		s.SeniorityHint = sig.SeniorityHint
	}

	if s.DistanceKm == nil && s.Latitude != nil && s.Longitude != nil {
		d := geo.RoundKm(geo.Haversine(geo.HomeLat, geo.HomeLng, *s.Latitude, *s.Longitude))
		s.DistanceKm = &d
	}

	if s.Skills == nil {
		s.Skills = []string{}
	}
	return s
}

// SearchLinkSnapshots generates the daily grid of search-link rows: one per
// (search query × region × platform), each carrying a ready-to-open URL.
func SearchLinkSnapshots(date string) []types.Snapshot {
	out := make([]types.Snapshot, 0, len(regions.SearchQueries)*len(regions.Regions)*len(regions.Platforms))
	for _, query := range regions.SearchQueries {
		for _, region := range regions.Regions {
			for _, platform := range regions.Platforms {
				var searchURL string
				switch platform {
				case "LinkedIn":
					searchURL = regions.BuildLinkedInSearchURL(query, region.GeoID)
				case "Indeed":
					searchURL = regions.BuildIndeedSearchURL(query, region.IndeedDomain, region.IndeedLocation)
				case "Glassdoor":
					searchURL = regions.BuildGlassdoorSearchURL(query, region.GlassdoorLocID)
				}
				// Role keeps the query string itself: queries like
				// "Product Operations" and "Business Operations" normalize
				// to the same canonical role, and collapsing them here
				// would merge their distinct search links.
				out = append(out, types.Snapshot{
					Date:      date,
					Role:      query,
					Region:    region.Name,
					Platform:  platform,
					SearchURL: searchURL,
					Skills:    []string{},
				})
			}
		}
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
