// Package geocode resolves UK location strings to coordinates through the
// OpenStreetMap Nominatim API and backfills snapshot distances from the
// home base. Requests are paced to respect Nominatim's 1 req/s policy.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	userAgent      = "JobRadar/1.0 (personal-project)"
	httpTimeout    = 15 * time.Second

	// Slightly over Nominatim's 1 req/s limit to stay on the safe side.
	requestInterval = 1100 * time.Millisecond
)

// Coords is a geocoding result.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Cache stores resolved locations so repeat ingests skip the paced API call.
type Cache interface {
	Get(ctx context.Context, location string) (*Coords, bool)
	Set(ctx context.Context, location string, c Coords)
}

// Client is a paced Nominatim search client.
type Client struct {
	BaseURL string // overridable for tests
	client  *http.Client
	limiter *rate.Limiter
	cache   Cache
}

// NewClient constructs a Client. cache may be nil.
func NewClient(cache Cache) *Client {
	if cache == nil {
		cache = nopCache{}
	}
	return &Client{
		BaseURL: defaultBaseURL,
		client:  &http.Client{Timeout: httpTimeout},
		limiter: rate.NewLimiter(rate.Every(requestInterval), 1),
		cache:   cache,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a free-text UK location to coordinates. A location
// Nominatim does not know returns (nil, nil); callers treat that as
// "leave the snapshot ungeocoded", not as a failure.
func (c *Client) Geocode(ctx context.Context, location string) (*Coords, error) {
	if location == "" {
		return nil, nil
	}
	if coords, ok := c.cache.Get(ctx, location); ok {
		return coords, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", location)
	params.Set("limit", "1")
	params.Set("countrycodes", "gb")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("nominatim decode: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim longitude %q: %w", results[0].Lon, err)
	}

	coords := Coords{Lat: lat, Lng: lng}
	c.cache.Set(ctx, location, coords)
	return &coords, nil
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*Coords, bool) { return nil, false }
func (nopCache) Set(context.Context, string, Coords)         {}

// logCacheErr keeps cache failures out of the geocoding path.
func logCacheErr(op string, err error) {
	if err != nil {
		log.Printf("[geocode] cache %s error: %v", op, err)
	}
}
