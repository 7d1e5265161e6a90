package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minji/jobradar/internal/types"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func fixtures() []types.Snapshot {
	dist := 8.0
	far := 35.0
	return []types.Snapshot{
		{
			Date: "2026-08-31", Role: "Business Analyst", Region: "London, United Kingdom",
			Platform: "Adzuna", JobTitle: "Business Analyst", CompanyName: "Acme Bank",
			LocationDetail: "Camden Town", DistanceKm: &dist,
			KeywordHits: []string{"SQL", "Agile"}, KeywordScore: 7,
		},
		{
			Date: "2026-08-30", Role: "Product Analyst", Region: "London, United Kingdom",
			Platform: "Adzuna", JobTitle: "Product Analyst", CompanyName: "Shoply",
			LocationDetail: "Guildford, Surrey", DistanceKm: &far,
			KeywordHits: []string{"Python"}, KeywordScore: 3,
		},
		{
			Date: "2026-08-25", Role: "Business Analyst", Region: "Seoul, South Korea",
			Platform: "LinkedIn", SearchURL: "https://linkedin.example/search",
			KeywordScore: 0,
		},
	}
}

func TestApply_NoFiltersNewestFirst(t *testing.T) {
	got := Apply(fixtures(), Filters{}, nil, testNow)

	require.Len(t, got.Items, 3)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, "2026-08-31", got.Items[0].Date)
	assert.Equal(t, "2026-08-25", got.Items[2].Date)
	assert.Nil(t, got.Items[0].Match)
}

func TestApply_RegionLabelRecomputedForUK(t *testing.T) {
	got := Apply(fixtures(), Filters{}, nil, testNow)

	labels := map[string]string{}
	for _, it := range got.Items {
		labels[it.CompanyName] = it.RegionLabel
	}
	assert.Equal(t, "London – Inner", labels["Acme Bank"])
	assert.Equal(t, "London – Commuter Belt", labels["Shoply"])
	// Non-UK rows keep the stored display name.
	assert.Equal(t, "Seoul, South Korea", labels[""])
}

func TestApply_RegionKeyFilterUsesClassifiedLabel(t *testing.T) {
	got := Apply(fixtures(), Filters{RegionKey: "london-inner"}, nil, testNow)

	require.Len(t, got.Items, 1)
	assert.Equal(t, "Acme Bank", got.Items[0].CompanyName)

	// The stored display key still matches too.
	got = Apply(fixtures(), Filters{RegionKey: "london"}, nil, testNow)
	assert.Len(t, got.Items, 2)
}

func TestApply_RoleFilterNormalizes(t *testing.T) {
	got := Apply(fixtures(), Filters{Role: "Business Analyst"}, nil, testNow)

	assert.Len(t, got.Items, 2)
}

func TestApply_Recency(t *testing.T) {
	got := Apply(fixtures(), Filters{SinceDays: 2}, nil, testNow)

	assert.Len(t, got.Items, 2) // the Seoul row from the 25th is too old
}

func TestApply_SearchAndSkill(t *testing.T) {
	got := Apply(fixtures(), Filters{Search: "acme"}, nil, testNow)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Acme Bank", got.Items[0].CompanyName)

	got = Apply(fixtures(), Filters{Skill: "python"}, nil, testNow)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Shoply", got.Items[0].CompanyName)
}

func TestApply_SortByMatchWithProfile(t *testing.T) {
	profile := types.CandidateProfile{
		TargetRoles:      []string{"Business Analyst"},
		Skills:           []string{"SQL"},
		PreferredRegions: []string{"london"},
		ExperienceLevel:  types.LevelMid,
	}

	got := Apply(fixtures(), Filters{Sort: SortMatch}, &profile, testNow)

	require.Len(t, got.Items, 3)
	require.NotNil(t, got.Items[0].Match)
	assert.Equal(t, "Acme Bank", got.Items[0].CompanyName)
	assert.GreaterOrEqual(t, got.Items[0].Match.Score, got.Items[1].Match.Score)
	assert.GreaterOrEqual(t, got.Items[1].Match.Score, got.Items[2].Match.Score)
}

func TestApply_SortByDistanceUnknownLast(t *testing.T) {
	got := Apply(fixtures(), Filters{Sort: SortDistance}, nil, testNow)

	require.Len(t, got.Items, 3)
	assert.Equal(t, "Acme Bank", got.Items[0].CompanyName)
	assert.Equal(t, "Shoply", got.Items[1].CompanyName)
	assert.Nil(t, got.Items[2].DistanceKm)
}

func TestApply_Paging(t *testing.T) {
	got := Apply(fixtures(), Filters{PageSize: 2}, nil, testNow)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, 3, got.Total)

	got = Apply(fixtures(), Filters{Page: 2, PageSize: 2}, nil, testNow)
	assert.Len(t, got.Items, 1)

	got = Apply(fixtures(), Filters{Page: 9, PageSize: 2}, nil, testNow)
	assert.Empty(t, got.Items)

	// Negative page size disables paging (used by CSV export).
	got = Apply(fixtures(), Filters{PageSize: -1}, nil, testNow)
	assert.Len(t, got.Items, 3)
}

func TestApply_DistanceBandDecoration(t *testing.T) {
	got := Apply(fixtures(), Filters{Sort: SortDistance}, nil, testNow)

	assert.Equal(t, "5–15 km", got.Items[0].DistanceBand)
	assert.Equal(t, "30+ km", got.Items[1].DistanceBand)
	assert.Equal(t, "", got.Items[2].DistanceBand)
}
