// Package regions is the static catalog behind the dashboard: canonical role
// labels, the tracked search regions with their platform identifiers, the
// unified region-key vocabulary, and the per-platform search URL builders.
package regions

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/minji/jobradar/internal/geo"
)

// CanonicalRoles are the only role categories stored and displayed.
var CanonicalRoles = []string{
	"Business Analyst",
	"Business Operations",
	"Product Analyst",
	"IT Operations",
	"Business Process Analyst",
	"System Analyst",
	"Others",
}

// SearchQueries are the raw queries sent to job platforms when generating
// snapshot links; results are mapped back to a canonical role.
var SearchQueries = []string{
	"Business Analyst",
	"Product Analyst",
	"Product Operations",
	"Systems Analyst",
	"Business Operations",
	"IT Operations",
	"Business Process Analyst",
}

// NormalizeRole maps a search query or raw job title to a canonical role.
// Rule order matters: more specific compounds are checked first.
func NormalizeRole(raw string) string {
	t := strings.ToLower(raw)

	switch {
	case strings.Contains(t, "business process"):
		return "Business Process Analyst"
	case strings.Contains(t, "system") && strings.Contains(t, "analyst"):
		return "System Analyst"
	case strings.Contains(t, "it") && strings.Contains(t, "operat"):
		return "IT Operations"
	case strings.Contains(t, "product") && strings.Contains(t, "operat"):
		return "Business Operations"
	case strings.Contains(t, "business") && strings.Contains(t, "operat"):
		return "Business Operations"
	case strings.Contains(t, "product") && strings.Contains(t, "analyst"):
		return "Product Analyst"
	case strings.Contains(t, "business") && strings.Contains(t, "analyst"):
		return "Business Analyst"
	}
	return "Others"
}

// Region is one tracked search region with its platform-specific identifiers.
type Region struct {
	Name           string `json:"name"`
	Key            string `json:"key"`
	GeoID          string `json:"-"` // LinkedIn geo id
	IndeedDomain   string `json:"-"`
	IndeedLocation string `json:"-"`
	GlassdoorLocID string `json:"-"`
}

// Regions are the search regions snapshot links are generated for.
var Regions = []Region{
	{Name: "Seoul, South Korea", Key: "seoul", GeoID: "105149562", IndeedDomain: "kr.indeed.com", IndeedLocation: "Seoul", GlassdoorLocID: "3080052"},
	{Name: "London, United Kingdom", Key: "london", GeoID: "102257491", IndeedDomain: "uk.indeed.com", IndeedLocation: "London", GlassdoorLocID: "2671300"},
	{Name: "Singapore", Key: "singapore", GeoID: "102454443", IndeedDomain: "sg.indeed.com", IndeedLocation: "Singapore", GlassdoorLocID: "3235921"},
}

// Platforms snapshot links are generated for.
var Platforms = []string{"LinkedIn", "Indeed", "Glassdoor"}

// regionKeys unifies the three historical region vocabularies (static search
// regions, classifier labels, collector location inputs) into one key space.
var regionKeys = map[string]string{
	"Seoul, South Korea":      "seoul",
	"London, United Kingdom":  "london",
	"Singapore":               "singapore",
	geo.LabelInnerLondon:      "london-inner",
	geo.LabelOuterLondon:      "london-outer",
	geo.LabelCommuterBelt:     "london-commuter",
	geo.LabelRemoteOrHybrid:   "uk-remote",
	geo.LabelRemote:           "uk-remote",
	geo.LabelHybrid:           "uk-hybrid",
	geo.LabelManchester:       "manchester",
	geo.LabelRegional:         "uk-regional",
}

// RegionKeyFor maps any region representation (catalog name, classifier
// label, or collector free text) into the unified key vocabulary. Unknown
// names are slugified so filtering still works on ad-hoc regions.
func RegionKeyFor(name string) string {
	if key, ok := regionKeys[name]; ok {
		return key
	}
	return slugify(name)
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress leading dashes
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Descriptions shown next to region filter options.
var Descriptions = map[string]string{
	"Seoul, South Korea":     "Major tech hub in Asia. Growing demand in fintech, e-commerce, and enterprise SaaS. Korean language proficiency often preferred.",
	"London, United Kingdom": "Europe's largest financial and tech center. Strong demand across banking, consulting, and scale-ups. Global talent market.",
	"Singapore":              "Asia-Pacific financial hub with strong demand in banking, fintech, and tech. English-speaking, multicultural work environment with competitive compensation.",
}

// BuildLinkedInSearchURL builds a last-24h LinkedIn job search link.
func BuildLinkedInSearchURL(role, geoID string) string {
	return fmt.Sprintf("https://www.linkedin.com/jobs/search/?keywords=%s&location=&geoId=%s&f_TPR=r86400",
		url.QueryEscape(role), geoID)
}

// BuildIndeedSearchURL builds a last-24h Indeed job search link.
func BuildIndeedSearchURL(role, domain, location string) string {
	return fmt.Sprintf("https://%s/jobs?q=%s&l=%s&fromage=1",
		domain, url.QueryEscape(role), url.QueryEscape(location))
}

// BuildGlassdoorSearchURL builds a last-24h Glassdoor job search link.
func BuildGlassdoorSearchURL(role, locID string) string {
	return fmt.Sprintf("https://www.glassdoor.com/Job/jobs.htm?sc.keyword=%s&locId=%s&locT=C&fromAge=1",
		url.QueryEscape(role), locID)
}
