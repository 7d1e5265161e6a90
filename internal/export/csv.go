// Package export renders snapshots as the dashboard's CSV download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/minji/jobradar/internal/geo"
	"github.com/minji/jobradar/internal/types"
)

// HitSeparator joins keyword hits in the CSV cell. Splitting the cell on it
// reproduces the original list for any list not containing the literal.
const HitSeparator = "; "

// Columns is the fixed export column order.
var Columns = []string{
	"date", "role", "region", "platform", "job_title", "company_name",
	"location_detail", "salary_range", "keyword_hits", "keyword_score",
	"seniority_hint", "latitude", "longitude", "distance_km",
	"distance_band", "preview_snippet", "search_url", "source_url",
}

// Write streams snapshots as CSV, header first.
func Write(w io.Writer, snapshots []types.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range snapshots {
		if err := cw.Write(row(&snapshots[i])); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(s *types.Snapshot) []string {
	return []string{
		s.Date,
		s.Role,
		s.Region,
		s.Platform,
		s.JobTitle,
		s.CompanyName,
		s.LocationDetail,
		s.SalaryRange,
		strings.Join(s.KeywordHits, HitSeparator),
		strconv.Itoa(s.KeywordScore),
		yesNo(s.SeniorityHint),
		floatCell(s.Latitude),
		floatCell(s.Longitude),
		floatCell(s.DistanceKm),
		geo.BandLabel(s.DistanceKm),
		s.PreviewSnippet,
		s.SearchURL,
		s.SourceURL,
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
