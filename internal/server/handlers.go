package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/minji/jobradar/internal/cvparse"
	"github.com/minji/jobradar/internal/db"
	"github.com/minji/jobradar/internal/export"
	"github.com/minji/jobradar/internal/ingest"
	"github.com/minji/jobradar/internal/query"
	"github.com/minji/jobradar/internal/regions"
	"github.com/minji/jobradar/internal/types"
)

// GenerateRequest is the optional body for /snapshots/generate
type GenerateRequest struct {
	Date string `json:"date,omitempty"`
}

// IngestRequest is the body for /snapshots/ingest
type IngestRequest struct {
	Snapshots []types.Snapshot `json:"snapshots"`
}

// GeocodeRequest is the optional body for /snapshots/geocode
type GeocodeRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ParseCVRequest is the body for /profile/parse-cv
type ParseCVRequest struct {
	Text string `json:"text"`
}

// ParseCVResponse is the response for /profile/parse-cv
type ParseCVResponse struct {
	Patch   types.ProfilePatch `json:"patch"`
	Warning string             `json:"warning,omitempty"`
}

// RegionInfo is one entry of the /regions response
type RegionInfo struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListSnapshots returns the filtered, decorated, sorted snapshot page.
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Date and platform push down to SQL; everything else (canonical role,
	// region keys, recency, text search) needs the query layer.
	snapshots, err := s.store.ListSnapshots(r.Context(), db.SnapshotFilters{
		Date:     filters.Date,
		Platform: filters.Platform,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	profile, err := s.store.GetProfile(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	result := query.Apply(snapshots, filters, profile, time.Now().UTC())
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid snapshot ID format")
		return
	}

	snapshot, err := s.store.GetSnapshot(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if snapshot == nil {
		s.errorResponse(w, http.StatusNotFound, "Snapshot not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, snapshot)
}

// handleGenerate creates the daily grid of search-link snapshots.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	date := req.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	rows := ingest.SearchLinkSnapshots(date)
	n, err := s.ingestSvc.Ingest(r.Context(), rows)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Ingest error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"date":      date,
		"generated": len(rows),
		"upserted":  n,
	})
}

// handleIngest accepts a batch of snapshots from an external collector.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Snapshots) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "snapshots is required")
		return
	}

	n, err := s.ingestSvc.Ingest(r.Context(), req.Snapshots)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Ingest error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"received": len(req.Snapshots),
		"upserted": n,
	})
}

// handleCollect runs the Adzuna collector once and ingests the results.
func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	if s.collector == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Collector is not configured")
		return
	}

	snapshots, err := s.collector.Collect(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Collection error: "+err.Error())
		return
	}
	if len(snapshots) == 0 {
		s.jsonResponse(w, http.StatusOK, map[string]any{"collected": 0, "upserted": 0})
		return
	}

	n, err := s.ingestSvc.Ingest(r.Context(), snapshots)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Ingest error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"collected": len(snapshots),
		"upserted":  n,
	})
}

// handleGeocode runs one geocoding backfill pass.
func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	if s.geocoder == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Geocoder is not configured")
		return
	}

	var req GeocodeRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.batchLimit
	}

	n, err := s.geocoder.Run(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Geocode error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"updated": n})
}

// handleExportCSV streams the filtered snapshots as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	filters.PageSize = -1 // exports are never paged

	snapshots, err := s.store.ListSnapshots(r.Context(), db.SnapshotFilters{
		Date:     filters.Date,
		Platform: filters.Platform,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	result := query.Apply(snapshots, filters, nil, time.Now().UTC())
	rows := make([]types.Snapshot, 0, len(result.Items))
	for _, item := range result.Items {
		rows = append(rows, item.Snapshot)
	}

	filename := fmt.Sprintf("job_snapshots_%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.Write(w, rows); err != nil {
		// Headers are already written at this point; log only.
		log.Printf("CSV export error: %v", err)
	}
}

// handleRegions returns the tracked region catalog plus any ad-hoc regions
// present in stored data.
func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	infos := make([]RegionInfo, 0, len(regions.Regions))
	seen := map[string]bool{}
	for _, region := range regions.Regions {
		infos = append(infos, RegionInfo{
			Name:        region.Name,
			Key:         region.Key,
			Description: regions.Descriptions[region.Name],
		})
		seen[region.Key] = true
	}

	stored, err := s.store.DistinctRegions(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	for _, name := range stored {
		key := regions.RegionKeyFor(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		infos = append(infos, RegionInfo{Name: name, Key: key})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"regions": infos})
}

// handleGetProfile returns the stored profile, or the default one when the
// user has not saved anything yet.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.GetProfile(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if profile == nil {
		p := types.DefaultProfile()
		profile = &p
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handlePutProfile applies a partial update to the stored profile.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var patch types.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	current, err := s.store.GetProfile(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if current == nil {
		p := types.DefaultProfile()
		current = &p
	}

	merged := current.Merge(patch)
	if err := merged.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveProfile(r.Context(), merged); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, merged)
}

// handleParseCV extracts a profile patch from CV text. Model output that
// fails validation degrades to an empty patch with a warning so the UI can
// still open the review screen.
func (s *Server) handleParseCV(w http.ResponseWriter, r *http.Request) {
	if s.parser == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "CV parsing is not configured")
		return
	}

	var req ParseCVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	patch, err := s.parser.ParseResume(r.Context(), req.Text)
	if err != nil {
		var parseErr *cvparse.ParseError
		switch {
		case errors.Is(err, cvparse.ErrTextTooShort):
			s.errorResponse(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &parseErr):
			s.jsonResponse(w, http.StatusOK, ParseCVResponse{
				Warning: "Could not extract a profile from the text; fill the fields manually.",
			})
		default:
			s.errorResponse(w, http.StatusBadGateway, "CV parsing failed: "+err.Error())
		}
		return
	}

	s.jsonResponse(w, http.StatusOK, ParseCVResponse{Patch: *patch})
}

// parseFilters builds the query filters from URL parameters.
func parseFilters(r *http.Request) (query.Filters, error) {
	q := r.URL.Query()
	f := query.Filters{
		Date:      q.Get("date"),
		Role:      q.Get("role"),
		RegionKey: q.Get("region"),
		Platform:  q.Get("platform"),
		Search:    q.Get("search"),
		Skill:     q.Get("skill"),
		Sort:      q.Get("sort"),
	}

	for name, dst := range map[string]*int{
		"since_days": &f.SinceDays,
		"page":       &f.Page,
		"page_size":  &f.PageSize,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return query.Filters{}, fmt.Errorf("%s must be a non-negative integer", name)
		}
		*dst = v
	}

	return f, nil
}

// decodeOptionalBody decodes a JSON body if one was sent; an empty body
// leaves dst at its zero value.
func decodeOptionalBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
