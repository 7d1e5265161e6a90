// Package collector pulls live UK job postings from the Adzuna public API
// and maps them into snapshots ready for ingest.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/minji/jobradar/internal/regions"
	"github.com/minji/jobradar/internal/types"
)

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaCountry  = "gb"
	adzunaPageSize = 20
	httpTimeout    = 15 * time.Second

	// Concurrent (keyword × location) fetches.
	fetchConcurrency = 3

	previewLength = 200
)

// Search grid: "Operation" also matches "Operations" on Adzuna's side,
// and three locations keep the dashboard filters manageable.
var (
	Keywords  = []string{"Analyst", "Operation"}
	Locations = []string{"London", "Manchester", "Remote"}
)

// AdzunaCollector fetches job postings from the Adzuna public API.
// If AppID or AppKey is empty, Collect returns (nil, nil) gracefully —
// scheduled runs simply skip collection and log a warning.
type AdzunaCollector struct {
	AppID   string
	AppKey  string
	BaseURL string // overridable for tests
	client  *http.Client
}

// NewAdzunaCollector constructs a collector with a shared HTTP client.
func NewAdzunaCollector(appID, appKey string) *AdzunaCollector {
	return &AdzunaCollector{
		AppID:   appID,
		AppKey:  appKey,
		BaseURL: adzunaBaseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Company     adzunaCompany  `json:"company"`
	Location    adzunaLocation `json:"location"`
	SalaryMin   float64        `json:"salary_min"`
	SalaryMax   float64        `json:"salary_max"`
	RedirectURL string         `json:"redirect_url"`
	Created     string         `json:"created"`
	Latitude    *float64       `json:"latitude"`
	Longitude   *float64       `json:"longitude"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

// Collect fetches the full keyword × location grid and returns the mapped
// snapshots. A failed cell is logged and skipped; the other cells still
// contribute. Returns nil without error when credentials are missing.
func (c *AdzunaCollector) Collect(ctx context.Context) ([]types.Snapshot, error) {
	if c.AppID == "" || c.AppKey == "" {
		log.Println("[collector] ADZUNA_APP_ID / ADZUNA_APP_KEY not set — skipping collection")
		return nil, nil
	}

	type cell struct{ keyword, location string }
	cells := make([]cell, 0, len(Keywords)*len(Locations))
	for _, kw := range Keywords {
		for _, loc := range Locations {
			cells = append(cells, cell{kw, loc})
		}
	}

	batches := make([][]types.Snapshot, len(cells))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for i, cl := range cells {
		g.Go(func() error {
			results, err := c.fetchPage(ctx, cl.keyword, cl.location, 1)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("[collector] %s/%s: %v — skipping", cl.keyword, cl.location, err)
				return nil
			}
			batch := make([]types.Snapshot, 0, len(results))
			for _, r := range results {
				batch = append(batch, mapResult(r, cl.location))
			}
			batches[i] = batch
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var snapshots []types.Snapshot
	for _, batch := range batches {
		snapshots = append(snapshots, batch...)
	}
	return snapshots, nil
}

func (c *AdzunaCollector) fetchPage(ctx context.Context, keyword, location string, page int) ([]adzunaResult, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", c.BaseURL, adzunaCountry, page)

	params := url.Values{}
	params.Set("app_id", c.AppID)
	params.Set("app_key", c.AppKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("what", keyword)
	params.Set("where", location)
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return apiResp.Results, nil
}

// mapResult converts an Adzuna listing to a snapshot. Region is pinned to
// the search location (not the listing's own location string) so dashboard
// filters stay stable; the listing location lands in LocationDetail.
func mapResult(r adzunaResult, searchLocation string) types.Snapshot {
	description := StripHTML(r.Description)

	s := types.Snapshot{
		Date:           captureDate(r.Created),
		Role:           regions.NormalizeRole(r.Title),
		Region:         searchLocation,
		Platform:       "Adzuna",
		JobTitle:       r.Title,
		CompanyName:    r.Company.DisplayName,
		LocationDetail: r.Location.DisplayName,
		SalaryRange:    salaryRange(r.SalaryMin, r.SalaryMax),
		Description:    description,
		PreviewSnippet: truncate(description, previewLength),
		SourceURL:      r.RedirectURL,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
	}
	return s
}

// captureDate keeps only the calendar day of Adzuna's created timestamp so
// re-running collection on the same day dedupes instead of duplicating.
func captureDate(created string) string {
	if len(created) >= 10 {
		return created[:10]
	}
	return time.Now().UTC().Format("2006-01-02")
}

func salaryRange(min, max float64) string {
	switch {
	case min > 0 && max > 0 && min != max:
		return fmt.Sprintf("£%s – £%s", formatSalary(min), formatSalary(max))
	case max > 0:
		return "£" + formatSalary(max)
	case min > 0:
		return "£" + formatSalary(min)
	default:
		return ""
	}
}

func formatSalary(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// StripHTML flattens listing descriptions to plain text. Adzuna snippets
// occasionally carry <strong> highlighting around matched terms.
func StripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
