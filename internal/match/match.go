// Package match scores a snapshot against the candidate profile using a
// deterministic weighted sum over four sub-scores. Results are ephemeral:
// computed per (snapshot, profile) pair at read time and never persisted.
package match

import (
	"fmt"
	"math"
	"strings"

	"github.com/minji/jobradar/internal/regions"
	"github.com/minji/jobradar/internal/types"
)

// Result is the outcome of scoring one snapshot against the profile.
type Result struct {
	Score   int      `json:"score"` // 0–100
	Level   string   `json:"level"` // high | medium | low
	Reasons []string `json:"reasons"`
}

// Weights is a versioned point table for the four sub-scores. Each dimension
// has a full-credit value and a neutral value contributed when the profile
// declares no preference there, so an unconfigured profile lands at a
// baseline rather than zero.
type Weights struct {
	RoleExact        int
	RolePartial      int
	RoleNeutral      int
	Region           int
	RegionNeutral    int
	Keyword          int
	KeywordNeutral   int
	Seniority        int
	SeniorityMiss    int // seniority marker present but mismatched
	SeniorityNeutral int // snapshot carries no seniority hint
}

// WeightsV2 is the canonical 35/20/25/20 split. The earlier 40/25/20/15
// revision is retired.
var WeightsV2 = Weights{
	RoleExact:        35,
	RolePartial:      20,
	RoleNeutral:      17,
	Region:           20,
	RegionNeutral:    10,
	Keyword:          25,
	KeywordNeutral:   12,
	Seniority:        20,
	SeniorityMiss:    5,
	SeniorityNeutral: 8,
}

// alignmentWords maps a declared experience level to the role-title words
// that count as aligned. Unlike signals.SeniorityHintWords this includes the
// mid-level words, since here we compare against a stated level.
var alignmentWords = map[string][]string{
	types.LevelJunior: {"junior", "associate", "entry", "intern", "graduate", "trainee"},
	types.LevelMid:    {"analyst", "specialist", "coordinator", "consultant"},
	types.LevelSenior: {"senior", "lead", "principal", "staff", "head"},
	types.LevelLead:   {"lead", "head", "director", "manager", "vp", "chief", "executive"},
}

// Compute scores one snapshot against the profile with WeightsV2.
func Compute(snapshot types.Snapshot, profile types.CandidateProfile) Result {
	return ComputeWith(WeightsV2, snapshot, profile)
}

// ComputeWith scores with an explicit weight table. It is total over any
// well-formed pair: missing collections behave as empty and contribute the
// neutral score for their dimension. Reasons are appended in sub-score
// evaluation order (role, region, keyword, seniority), one per non-neutral
// outcome.
func ComputeWith(w Weights, snapshot types.Snapshot, profile types.CandidateProfile) Result {
	var reasons []string
	score := 0

	roleLower := strings.ToLower(snapshot.Role)

	// Role
	if len(profile.TargetRoles) > 0 {
		exact, partial := false, false
		for _, target := range profile.TargetRoles {
			t := strings.ToLower(target)
			if t == roleLower {
				exact = true
				break
			}
			if strings.Contains(roleLower, t) || strings.Contains(t, roleLower) {
				partial = true
			}
		}
		switch {
		case exact:
			score += w.RoleExact
			reasons = append(reasons, fmt.Sprintf("Exact role match: %s", snapshot.Role))
		case partial:
			score += w.RolePartial
			reasons = append(reasons, fmt.Sprintf("Partial role match: %s", snapshot.Role))
		default:
			reasons = append(reasons, "Role doesn't match your targets")
		}
	} else {
		score += w.RoleNeutral
	}

	// Region
	if len(profile.PreferredRegions) > 0 {
		key := regions.RegionKeyFor(snapshot.Region)
		preferred := false
		for _, k := range profile.PreferredRegions {
			if k == key {
				preferred = true
				break
			}
		}
		if preferred {
			score += w.Region
			reasons = append(reasons, fmt.Sprintf("Preferred region: %s", snapshot.Region))
		} else {
			reasons = append(reasons, fmt.Sprintf("Region %s is not in your preferences", snapshot.Region))
		}
	} else {
		score += w.RegionNeutral
	}

	// Keyword/skill overlap against the snapshot's extracted hits
	profileKeywords := make([]string, 0, len(profile.Skills)+len(profile.Domains))
	for _, k := range append(append([]string{}, profile.Skills...), profile.Domains...) {
		profileKeywords = append(profileKeywords, strings.ToLower(k))
	}
	if len(profileKeywords) > 0 {
		var matched []string
		for _, hit := range snapshot.KeywordHits {
			h := strings.ToLower(hit)
			for _, kw := range profileKeywords {
				if strings.Contains(h, kw) || strings.Contains(kw, h) {
					matched = append(matched, hit)
					break
				}
			}
		}
		pts := math.Min(float64(w.Keyword), float64(len(matched))/float64(len(profileKeywords))*float64(w.Keyword))
		score += int(math.Round(pts))
		if len(matched) > 0 {
			reasons = append(reasons, fmt.Sprintf("Skill/domain overlap: %s", strings.Join(matched, ", ")))
		}
	} else {
		score += w.KeywordNeutral
	}

	// Seniority alignment, only when the snapshot flagged a marker
	if snapshot.SeniorityHint {
		aligned := false
		for _, word := range alignmentWords[profile.ExperienceLevel] {
			if strings.Contains(roleLower, word) {
				aligned = true
				break
			}
		}
		if aligned {
			score += w.Seniority
			reasons = append(reasons, fmt.Sprintf("Seniority aligns with %s level", profile.ExperienceLevel))
		} else {
			score += w.SeniorityMiss
			reasons = append(reasons, fmt.Sprintf("Seniority differs from your %s level", profile.ExperienceLevel))
		}
	} else {
		score += w.SeniorityNeutral
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	level := "low"
	switch {
	case score >= 70:
		level = "high"
	case score >= 40:
		level = "medium"
	}

	return Result{Score: score, Level: level, Reasons: reasons}
}
