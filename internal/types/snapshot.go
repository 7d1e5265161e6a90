// Package types defines the domain shapes shared across the service.
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one stored job-search or job-posting record for a given
// date/role/region/platform. Generated search-link rows carry only the
// identity fields plus SearchURL; collector-ingested rows carry the
// enrichment and signal fields as well.
type Snapshot struct {
	ID       uuid.UUID `json:"id"`
	Date     string    `json:"date"` // ISO calendar day, e.g. "2026-08-31"
	Role     string    `json:"role"`
	Region   string    `json:"region"`
	Platform string    `json:"platform"`

	// Enrichment (optional)
	JobTitle       string   `json:"job_title,omitempty"`
	CompanyName    string   `json:"company_name,omitempty"`
	LocationDetail string   `json:"location_detail,omitempty"`
	SalaryRange    string   `json:"salary_range,omitempty"`
	Description    string   `json:"description,omitempty"`
	Skills         []string `json:"skills"`
	PreviewSnippet string   `json:"preview_snippet,omitempty"`
	SearchURL      string   `json:"search_url,omitempty"`
	SourceURL      string   `json:"source_url,omitempty"`

	// Derived at ingest
	KeywordHits   []string `json:"keyword_hits"`
	KeywordScore  int      `json:"keyword_score"`
	SeniorityHint bool     `json:"seniority_hint"`

	// Geocoding (nil until a geocoding pass runs)
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// IsEnriched reports whether the row represents a concrete posting rather
// than a generated search link.
func (s *Snapshot) IsEnriched() bool {
	return s.JobTitle != "" && s.CompanyName != ""
}

// DedupKey is the natural uniqueness key used for upserts: enriched postings
// dedupe on (date, job_title, company_name, platform), generated search-link
// rows on (date, role, region, platform).
func (s *Snapshot) DedupKey() string {
	if s.IsEnriched() {
		return strings.Join([]string{s.Date, s.JobTitle, s.CompanyName, s.Platform}, "|")
	}
	return strings.Join([]string{s.Date, s.Role, s.Region, s.Platform}, "|")
}
