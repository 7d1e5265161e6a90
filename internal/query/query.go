// Package query turns the dashboard's filter/sort controls into a single
// immutable value object and computes the visible snapshot page as a pure
// function of (snapshots, filters, profile). Nothing here touches storage.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/minji/jobradar/internal/geo"
	"github.com/minji/jobradar/internal/match"
	"github.com/minji/jobradar/internal/regions"
	"github.com/minji/jobradar/internal/types"
)

// Sort modes.
const (
	SortNewest   = "newest"
	SortMatch    = "match"
	SortDistance = "distance"
	SortKeywords = "keywords"
)

// DefaultPageSize bounds a page when the caller does not choose one.
const DefaultPageSize = 24

// Filters is the immutable query state. The zero value means "everything,
// newest first, first page".
type Filters struct {
	Date      string // exact ISO day
	Role      string // canonical role label
	RegionKey string // unified region key (see regions.RegionKeyFor)
	Platform  string
	SinceDays int    // recency window; 0 = all time
	Search    string // free text over role/title/company
	Skill     string // must appear in keyword hits or skills
	Sort      string
	Page      int // 1-based; 0 = first page
	PageSize  int // 0 = DefaultPageSize; negative = no paging
}

// Item is one snapshot prepared for display: the stored row plus the
// recomputed region label, distance band, and (when a profile exists) the
// match result.
type Item struct {
	types.Snapshot
	RegionLabel  string        `json:"region_label"`
	DistanceBand string        `json:"distance_band,omitempty"`
	Match        *match.Result `json:"match,omitempty"`
}

// Result is one page of items plus the pre-paging total.
type Result struct {
	Items    []Item `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// Apply filters, decorates, sorts, and pages snapshots. A nil profile skips
// match scoring. now anchors the recency window.
func Apply(snapshots []types.Snapshot, f Filters, profile *types.CandidateProfile, now time.Time) Result {
	items := make([]Item, 0, len(snapshots))
	for _, s := range snapshots {
		if !matches(s, f, now) {
			continue
		}
		item := Item{
			Snapshot:     s,
			RegionLabel:  regionLabel(s),
			DistanceBand: geo.BandLabel(s.DistanceKm),
		}
		if profile != nil {
			m := match.Compute(s, *profile)
			item.Match = &m
		}
		items = append(items, item)
	}

	sortItems(items, f.Sort)

	total := len(items)
	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if size > 0 {
		start := (page - 1) * size
		if start > total {
			start = total
		}
		end := start + size
		if end > total {
			end = total
		}
		items = items[start:end]
	} else {
		size = total
	}

	return Result{Items: items, Total: total, Page: page, PageSize: size}
}

// regionLabel recomputes the display region: UK rows go through the
// classifier so rule changes reclassify old data; everything else keeps its
// stored display name.
func regionLabel(s types.Snapshot) string {
	if isUK(s.Region) {
		return geo.ClassifyUKRegion(s.DistanceKm, s.LocationDetail)
	}
	return s.Region
}

func isUK(region string) bool {
	r := strings.ToLower(region)
	if strings.Contains(r, "united kingdom") {
		return true
	}
	switch r {
	case "london", "manchester", "remote", "uk":
		return true
	}
	return false
}

func matches(s types.Snapshot, f Filters, now time.Time) bool {
	if f.Date != "" && s.Date != f.Date {
		return false
	}
	if f.Role != "" && regions.NormalizeRole(s.Role) != f.Role {
		return false
	}
	if f.Platform != "" && !strings.EqualFold(s.Platform, f.Platform) {
		return false
	}
	if f.RegionKey != "" {
		stored := regions.RegionKeyFor(s.Region)
		classified := regions.RegionKeyFor(regionLabel(s))
		if stored != f.RegionKey && classified != f.RegionKey {
			return false
		}
	}
	if f.SinceDays > 0 {
		day, err := time.Parse("2006-01-02", s.Date)
		if err != nil || now.Sub(day) > time.Duration(f.SinceDays)*24*time.Hour {
			return false
		}
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		hay := strings.ToLower(s.Role + " " + s.JobTitle + " " + s.CompanyName)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	if f.Skill != "" && !hasSkill(s, f.Skill) {
		return false
	}
	return true
}

func hasSkill(s types.Snapshot, skill string) bool {
	q := strings.ToLower(skill)
	for _, h := range s.KeywordHits {
		if strings.Contains(strings.ToLower(h), q) {
			return true
		}
	}
	for _, sk := range s.Skills {
		if strings.Contains(strings.ToLower(sk), q) {
			return true
		}
	}
	return false
}

func sortItems(items []Item, mode string) {
	switch mode {
	case SortMatch:
		sort.SliceStable(items, func(i, j int) bool {
			a, b := 0, 0
			if items[i].Match != nil {
				a = items[i].Match.Score
			}
			if items[j].Match != nil {
				b = items[j].Match.Score
			}
			if a != b {
				return a > b
			}
			return items[i].Date > items[j].Date
		})
	case SortDistance:
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].DistanceKm, items[j].DistanceKm
			switch {
			case a == nil && b == nil:
				return items[i].Date > items[j].Date
			case a == nil:
				return false // unknown distances sort last
			case b == nil:
				return true
			default:
				return *a < *b
			}
		})
	case SortKeywords:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].KeywordScore != items[j].KeywordScore {
				return items[i].KeywordScore > items[j].KeywordScore
			}
			return items[i].Date > items[j].Date
		})
	default: // SortNewest
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Date != items[j].Date {
				return items[i].Date > items[j].Date
			}
			return items[i].KeywordScore > items[j].KeywordScore
		})
	}
}
