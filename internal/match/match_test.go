package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minji/jobradar/internal/types"
)

func baSnapshot() types.Snapshot {
	return types.Snapshot{
		Role:        "Business Analyst",
		Region:      "London, United Kingdom",
		Platform:    "LinkedIn",
		KeywordHits: []string{"SQL"},
	}
}

func TestCompute_EndToEndFixture(t *testing.T) {
	profile := types.CandidateProfile{
		TargetRoles:      []string{"Business Analyst"},
		Skills:           []string{"SQL"},
		Domains:          []string{},
		PreferredRegions: []string{"london"},
		ExperienceLevel:  types.LevelMid,
	}

	got := Compute(baSnapshot(), profile)

	// 35 exact role + 20 region + 25 full overlap + 8 no-hint neutral
	assert.Equal(t, 88, got.Score)
	assert.Equal(t, "high", got.Level)
	assert.Equal(t, []string{
		"Exact role match: Business Analyst",
		"Preferred region: London, United Kingdom",
		"Skill/domain overlap: SQL",
	}, got.Reasons)
}

func TestCompute_EmptyProfileIsNeutralBaseline(t *testing.T) {
	profile := types.DefaultProfile()

	got := Compute(baSnapshot(), profile)

	want := WeightsV2.RoleNeutral + WeightsV2.RegionNeutral + WeightsV2.KeywordNeutral + WeightsV2.SeniorityNeutral
	assert.Equal(t, want, got.Score)
	assert.Empty(t, got.Reasons)

	// Deterministic for any snapshot without a seniority hint.
	other := types.Snapshot{Role: "Quant Developer", Region: "Singapore"}
	assert.Equal(t, want, Compute(other, profile).Score)
}

func TestCompute_IrrelevantSkillDoesNotChangeScore(t *testing.T) {
	profile := types.CandidateProfile{
		TargetRoles:      []string{"Business Analyst"},
		Skills:           []string{"SQL"},
		PreferredRegions: []string{"london"},
		ExperienceLevel:  types.LevelMid,
	}
	snap := baSnapshot()
	snap.KeywordHits = nil

	before := Compute(snap, profile)
	profile.Skills = append(profile.Skills, "Knitting")
	after := Compute(snap, profile)

	assert.Equal(t, before.Score, after.Score)
	assert.Equal(t, before.Reasons, after.Reasons)
}

func TestCompute_PartialRoleMatch(t *testing.T) {
	snap := baSnapshot()
	snap.Role = "Senior Business Analyst"
	snap.SeniorityHint = true
	profile := types.CandidateProfile{
		TargetRoles:     []string{"Business Analyst"},
		ExperienceLevel: types.LevelSenior,
	}

	got := Compute(snap, profile)

	// 20 partial + 10 region neutral + 12 keyword neutral + 20 aligned seniority
	assert.Equal(t, 62, got.Score)
	assert.Equal(t, "medium", got.Level)
	assert.Contains(t, got.Reasons, "Partial role match: Senior Business Analyst")
	assert.Contains(t, got.Reasons, "Seniority aligns with senior level")
}

func TestCompute_SeniorityMismatch(t *testing.T) {
	snap := baSnapshot()
	snap.Role = "Junior Business Analyst"
	snap.SeniorityHint = true
	profile := types.CandidateProfile{ExperienceLevel: types.LevelLead}

	got := Compute(snap, profile)

	// 17 + 10 + 12 neutrals + 5 mismatch
	assert.Equal(t, 44, got.Score)
	assert.Contains(t, got.Reasons, "Seniority differs from your lead level")
}

func TestCompute_RegionMismatchReason(t *testing.T) {
	snap := baSnapshot()
	snap.Region = "Singapore"
	profile := types.CandidateProfile{PreferredRegions: []string{"london"}}

	got := Compute(snap, profile)

	assert.Contains(t, got.Reasons, "Region Singapore is not in your preferences")
}

func TestCompute_ClassifierLabelRegionMatches(t *testing.T) {
	snap := baSnapshot()
	snap.Region = "London – Inner"
	profile := types.CandidateProfile{PreferredRegions: []string{"london-inner"}}

	got := Compute(snap, profile)

	assert.Contains(t, got.Reasons, "Preferred region: London – Inner")
}

func TestCompute_KeywordOverlapProportional(t *testing.T) {
	snap := baSnapshot()
	snap.KeywordHits = []string{"SQL", "Python", "Tableau"}
	profile := types.CandidateProfile{
		Skills:  []string{"SQL", "Python"},
		Domains: []string{"Fintech", "SaaS"},
	}

	got := Compute(snap, profile)

	// Overlap 2 of 4 profile keywords: round(2/4*25)=13, plus role/region/seniority neutrals.
	want := WeightsV2.RoleNeutral + WeightsV2.RegionNeutral + 13 + WeightsV2.SeniorityNeutral
	assert.Equal(t, want, got.Score)
	assert.Contains(t, got.Reasons, "Skill/domain overlap: SQL, Python")
}

func TestCompute_MalformedInputsDegradeGracefully(t *testing.T) {
	var snap types.Snapshot
	var profile types.CandidateProfile

	got := Compute(snap, profile)

	assert.GreaterOrEqual(t, got.Score, 0)
	assert.LessOrEqual(t, got.Score, 100)
	assert.Equal(t, "medium", got.Level) // neutral baseline lands in medium
}
