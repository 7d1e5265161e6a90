package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	assert.Empty(t, p.TargetRoles)
	assert.Empty(t, p.Skills)
	assert.Empty(t, p.Domains)
	assert.Empty(t, p.PreferredRegions)
	assert.Equal(t, LevelMid, p.ExperienceLevel)
	require.NoError(t, p.Validate())
}

func TestMerge_PartialUpdate(t *testing.T) {
	stored := CandidateProfile{
		TargetRoles:      []string{"Business Analyst"},
		Skills:           []string{"SQL"},
		Domains:          []string{"Fintech"},
		PreferredRegions: []string{"london"},
		ExperienceLevel:  LevelMid,
	}

	skills := []string{"SQL", "Python"}
	level := LevelSenior
	got := stored.Merge(ProfilePatch{Skills: &skills, ExperienceLevel: &level})

	assert.Equal(t, []string{"SQL", "Python"}, got.Skills)
	assert.Equal(t, LevelSenior, got.ExperienceLevel)
	// Untouched fields survive
	assert.Equal(t, []string{"Business Analyst"}, got.TargetRoles)
	assert.Equal(t, []string{"london"}, got.PreferredRegions)
}

func TestMerge_EmptySliceClearsField(t *testing.T) {
	stored := DefaultProfile()
	stored.Skills = []string{"SQL"}

	empty := []string{}
	got := stored.Merge(ProfilePatch{Skills: &empty})

	assert.Empty(t, got.Skills)
}

func TestMerge_EmptyLevelIgnored(t *testing.T) {
	stored := DefaultProfile()

	blank := ""
	got := stored.Merge(ProfilePatch{ExperienceLevel: &blank})

	assert.Equal(t, LevelMid, got.ExperienceLevel)
}

func TestNormalized_FillsNilCollections(t *testing.T) {
	var p CandidateProfile
	got := p.Normalized()

	assert.NotNil(t, got.TargetRoles)
	assert.NotNil(t, got.Skills)
	assert.NotNil(t, got.Domains)
	assert.NotNil(t, got.PreferredRegions)
	assert.Equal(t, LevelMid, got.ExperienceLevel)
}

func TestValidate_RejectsUnknownLevel(t *testing.T) {
	p := DefaultProfile()
	p.ExperienceLevel = "wizard"

	assert.Error(t, p.Validate())
}

func TestSnapshotDedupKey(t *testing.T) {
	link := Snapshot{Date: "2026-08-31", Role: "Business Analyst", Region: "London, United Kingdom", Platform: "LinkedIn"}
	assert.Equal(t, "2026-08-31|Business Analyst|London, United Kingdom|LinkedIn", link.DedupKey())

	posting := link
	posting.JobTitle = "Senior Business Analyst"
	posting.CompanyName = "Acme"
	posting.Platform = "Adzuna"
	assert.Equal(t, "2026-08-31|Senior Business Analyst|Acme|Adzuna", posting.DedupKey())
	assert.True(t, posting.IsEnriched())
	assert.False(t, link.IsEnriched())
}
