package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Experience levels accepted in a CandidateProfile.
const (
	LevelJunior = "junior"
	LevelMid    = "mid"
	LevelSenior = "senior"
	LevelLead   = "lead"
)

// CandidateProfile is the user-declared profile snapshots are scored
// against. It is persisted as a single blob under a fixed storage key;
// there is no per-field versioning.
type CandidateProfile struct {
	TargetRoles      []string `json:"targetRoles"`
	Skills           []string `json:"skills"`
	Domains          []string `json:"domains"`
	PreferredRegions []string `json:"preferredRegions"` // region keys, e.g. "london"
	ExperienceLevel  string   `json:"experienceLevel" validate:"required,oneof=junior mid senior lead"`
}

// ProfilePatch is a partial-merge update: nil slices leave the stored value
// untouched, non-nil slices (including empty ones) replace it wholesale.
type ProfilePatch struct {
	TargetRoles      *[]string `json:"targetRoles,omitempty"`
	Skills           *[]string `json:"skills,omitempty"`
	Domains          *[]string `json:"domains,omitempty"`
	PreferredRegions *[]string `json:"preferredRegions,omitempty"`
	ExperienceLevel  *string   `json:"experienceLevel,omitempty"`
	Summary          string    `json:"summary,omitempty"` // informational only, not persisted
}

var validate = validator.New()

// DefaultProfile returns the profile used before the user has saved one:
// all list fields empty, experience level "mid".
func DefaultProfile() CandidateProfile {
	return CandidateProfile{
		TargetRoles:      []string{},
		Skills:           []string{},
		Domains:          []string{},
		PreferredRegions: []string{},
		ExperienceLevel:  LevelMid,
	}
}

// Merge applies a partial update and returns the resulting profile.
func (p CandidateProfile) Merge(patch ProfilePatch) CandidateProfile {
	out := p
	if patch.TargetRoles != nil {
		out.TargetRoles = *patch.TargetRoles
	}
	if patch.Skills != nil {
		out.Skills = *patch.Skills
	}
	if patch.Domains != nil {
		out.Domains = *patch.Domains
	}
	if patch.PreferredRegions != nil {
		out.PreferredRegions = *patch.PreferredRegions
	}
	if patch.ExperienceLevel != nil && *patch.ExperienceLevel != "" {
		out.ExperienceLevel = *patch.ExperienceLevel
	}
	return out.Normalized()
}

// Normalized replaces nil list fields with empty slices and defaults the
// experience level so downstream scoring never sees missing collections.
func (p CandidateProfile) Normalized() CandidateProfile {
	out := p
	if out.TargetRoles == nil {
		out.TargetRoles = []string{}
	}
	if out.Skills == nil {
		out.Skills = []string{}
	}
	if out.Domains == nil {
		out.Domains = []string{}
	}
	if out.PreferredRegions == nil {
		out.PreferredRegions = []string{}
	}
	if out.ExperienceLevel == "" {
		out.ExperienceLevel = LevelMid
	}
	return out
}

// Validate checks field-level constraints (currently the experience level).
func (p CandidateProfile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	return nil
}
