package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectSkipsWithoutCredentials(t *testing.T) {
	c := NewAdzunaCollector("", "")
	snapshots, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snapshots)
}

func TestCollectMapsListings(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "id", q.Get("app_id"))
		assert.Equal(t, "key", q.Get("app_key"))

		mu.Lock()
		seen[q.Get("what")+"/"+q.Get("where")] = true
		mu.Unlock()

		if q.Get("what") == "Analyst" && q.Get("where") == "London" {
			fmt.Fprint(w, `{"count":1,"results":[{
				"id":"4321",
				"title":"Senior Business Analyst",
				"description":"Work with <strong>SQL</strong> and Tableau dashboards.",
				"company":{"display_name":"Acme Bank"},
				"location":{"display_name":"Camden, London"},
				"salary_min":55000,
				"salary_max":65000,
				"redirect_url":"https://adzuna.example/4321",
				"created":"2026-08-31T06:15:02Z",
				"latitude":51.539,
				"longitude":-0.1426
			}]}`)
			return
		}
		fmt.Fprint(w, `{"count":0,"results":[]}`)
	}))
	defer srv.Close()

	c := NewAdzunaCollector("id", "key")
	c.BaseURL = srv.URL

	snapshots, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshots, 1)

	// Every keyword × location cell was queried.
	assert.Len(t, seen, len(Keywords)*len(Locations))

	s := snapshots[0]
	assert.Equal(t, "2026-08-31", s.Date)
	assert.Equal(t, "Business Analyst", s.Role)
	assert.Equal(t, "London", s.Region)
	assert.Equal(t, "Adzuna", s.Platform)
	assert.Equal(t, "Senior Business Analyst", s.JobTitle)
	assert.Equal(t, "Acme Bank", s.CompanyName)
	assert.Equal(t, "Camden, London", s.LocationDetail)
	assert.Equal(t, "£55000 – £65000", s.SalaryRange)
	assert.Equal(t, "Work with SQL and Tableau dashboards.", s.Description)
	assert.Equal(t, "https://adzuna.example/4321", s.SourceURL)
	require.NotNil(t, s.Latitude)
	assert.InDelta(t, 51.539, *s.Latitude, 1e-9)
}

func TestCollectSkipsFailedCells(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("where") == "Manchester" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"count":1,"results":[{
			"title":"Operations Coordinator",
			"description":"Keep things running.",
			"company":{"display_name":"Shoply"},
			"location":{"display_name":"Croydon"},
			"redirect_url":"https://adzuna.example/1",
			"created":"2026-08-31T00:00:00Z"
		}]}`)
	}))
	defer srv.Close()

	c := NewAdzunaCollector("id", "key")
	c.BaseURL = srv.URL

	snapshots, err := c.Collect(context.Background())
	require.NoError(t, err)
	// 2 keywords × 2 surviving locations.
	assert.Len(t, snapshots, 4)
	for _, s := range snapshots {
		assert.NotEqual(t, "Manchester", s.Region)
	}
}

func TestSalaryRange(t *testing.T) {
	assert.Equal(t, "£55000 – £65000", salaryRange(55000, 65000))
	assert.Equal(t, "£60000", salaryRange(60000, 60000))
	assert.Equal(t, "£45000", salaryRange(0, 45000))
	assert.Equal(t, "", salaryRange(0, 0))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain text", StripHTML("  plain text "))
	assert.Equal(t, "SQL and dashboards", StripHTML("<p><strong>SQL</strong> and dashboards</p>"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcde", truncate("abcdefgh", 5))
}
