package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minji/jobradar/internal/regions"
	"github.com/minji/jobradar/internal/types"
)

type fakeStore struct {
	upserted []types.Snapshot
}

func (s *fakeStore) UpsertSnapshots(_ context.Context, snapshots []types.Snapshot) (int, error) {
	s.upserted = append(s.upserted, snapshots...)
	return len(snapshots), nil
}

func TestIngestRejectsMissingIdentityFields(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	_, err := svc.Ingest(context.Background(), []types.Snapshot{
		{Date: "2026-08-31", Role: "Business Analyst", Region: "London"},
	})
	require.ErrorContains(t, err, "missing platform")
	assert.Empty(t, store.upserted)
}

func TestIngestNormalizesBeforeStoring(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	lat, lng := 51.5390, -0.1426
	n, err := svc.Ingest(context.Background(), []types.Snapshot{{
		Date:        "2026-08-31",
		Role:        "Business Analyst",
		Region:      "London",
		Platform:    "Adzuna",
		JobTitle:    "Senior Business Analyst",
		CompanyName: "Acme Bank",
		Description: strings.Repeat("Requirements gathering with SQL and JIRA. ", 10),
		Latitude:    &lat,
		Longitude:   &lng,
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, store.upserted, 1)

	got := store.upserted[0]
	assert.Len(t, []rune(got.PreviewSnippet), 200)
	assert.Contains(t, got.KeywordHits, "SQL")
	assert.Contains(t, got.KeywordHits, "JIRA")
	assert.True(t, got.SeniorityHint)
	require.NotNil(t, got.DistanceKm)
	assert.InDelta(t, 14.0, *got.DistanceKm, 1.5)
}

func TestNormalizeDefaultsTitleForCompanyRows(t *testing.T) {
	got := Normalize(types.Snapshot{
		Date: "2026-08-31", Role: "Business Analyst", Region: "London",
		Platform: "Indeed", CompanyName: "Acme Bank",
	})
	assert.Equal(t, "Business Analyst", got.JobTitle)
	assert.True(t, got.IsEnriched())
}

func TestNormalizeLeavesSearchLinkRowsBare(t *testing.T) {
	got := Normalize(types.Snapshot{
		Date: "2026-08-31", Role: "Business Analyst",
		Region: "London, United Kingdom", Platform: "LinkedIn",
		SearchURL: "https://example.test",
	})
	assert.Empty(t, got.JobTitle)
	assert.False(t, got.IsEnriched())
	assert.NotNil(t, got.Skills)
}

func TestNormalizeKeepsExistingSignals(t *testing.T) {
	got := Normalize(types.Snapshot{
		Date: "2026-08-31", Role: "Business Analyst", Region: "London",
		Platform: "Adzuna", KeywordHits: []string{"SQL"}, KeywordScore: 3,
		PreviewSnippet: "Tableau and Power BI work",
	})
	assert.Equal(t, []string{"SQL"}, got.KeywordHits)
	assert.Equal(t, 3, got.KeywordScore)
}

func TestSearchLinkSnapshotsCoversTheGrid(t *testing.T) {
	rows := SearchLinkSnapshots("2026-08-31")
	want := len(regions.SearchQueries) * len(regions.Regions) * len(regions.Platforms)
	require.Len(t, rows, want)

	seen := map[string]bool{}
	for _, r := range rows {
		assert.Equal(t, "2026-08-31", r.Date)
		assert.NotEmpty(t, r.SearchURL)
		assert.False(t, r.IsEnriched())
		assert.False(t, seen[r.DedupKey()], "duplicate key %s", r.DedupKey())
		seen[r.DedupKey()] = true
	}
}
