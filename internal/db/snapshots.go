package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/minji/jobradar/internal/types"
)

const snapshotColumns = `id, date, role, region, platform, job_title, company_name,
	location_detail, salary_range, description, skills, preview_snippet,
	search_url, source_url, keyword_hits, keyword_score, seniority_hint,
	latitude, longitude, distance_km, created_at, updated_at`

// SnapshotFilters narrows ListSnapshots at the SQL level. Finer-grained
// filtering (classifier buckets, free-text search) happens in the query
// layer on the fetched rows.
type SnapshotFilters struct {
	Date     string
	Role     string
	Region   string
	Platform string
	Limit    int
}

// UpsertSnapshots inserts or replaces rows on their dedup key and returns
// the number of rows written. Replacement is wholesale: a conflicting row
// takes every value from the incoming record.
func (db *DB) UpsertSnapshots(ctx context.Context, snapshots []types.Snapshot) (int, error) {
	if len(snapshots) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for i := range snapshots {
		s := &snapshots[i]
		skillsJSON, err := json.Marshal(s.Skills)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal skills: %w", err)
		}
		hitsJSON, err := json.Marshal(s.KeywordHits)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal keyword hits: %w", err)
		}

		batch.Queue(
			`INSERT INTO snapshots (dedup_key, date, role, region, platform, job_title,
			                        company_name, location_detail, salary_range, description,
			                        skills, preview_snippet, search_url, source_url,
			                        keyword_hits, keyword_score, seniority_hint,
			                        latitude, longitude, distance_km)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
			 ON CONFLICT (dedup_key) DO UPDATE SET
			     date = $2, role = $3, region = $4, platform = $5, job_title = $6,
			     company_name = $7, location_detail = $8, salary_range = $9,
			     description = $10, skills = $11, preview_snippet = $12,
			     search_url = $13, source_url = $14, keyword_hits = $15,
			     keyword_score = $16, seniority_hint = $17, latitude = $18,
			     longitude = $19, distance_km = $20, updated_at = NOW()`,
			s.DedupKey(), s.Date, s.Role, s.Region, s.Platform, s.JobTitle,
			s.CompanyName, s.LocationDetail, s.SalaryRange, s.Description,
			skillsJSON, s.PreviewSnippet, s.SearchURL, s.SourceURL,
			hitsJSON, s.KeywordScore, s.SeniorityHint,
			s.Latitude, s.Longitude, s.DistanceKm,
		)
	}

	results := db.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range snapshots {
		if _, err := results.Exec(); err != nil {
			return 0, fmt.Errorf("failed to upsert snapshot: %w", err)
		}
	}
	return len(snapshots), nil
}

// ListSnapshots retrieves snapshots matching the filters, newest first.
func (db *DB) ListSnapshots(ctx context.Context, filters SnapshotFilters) ([]types.Snapshot, error) {
	if filters.Limit == 0 {
		filters.Limit = 1000
	}

	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Date != "" {
		query += fmt.Sprintf(" AND date = $%d", argNum)
		args = append(args, filters.Date)
		argNum++
	}
	if filters.Role != "" {
		query += fmt.Sprintf(" AND role ILIKE $%d", argNum)
		args = append(args, "%"+filters.Role+"%")
		argNum++
	}
	if filters.Region != "" {
		query += fmt.Sprintf(" AND region ILIKE $%d", argNum)
		args = append(args, "%"+filters.Region+"%")
		argNum++
	}
	if filters.Platform != "" {
		query += fmt.Sprintf(" AND platform = $%d", argNum)
		args = append(args, filters.Platform)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []types.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *s)
	}
	return snapshots, rows.Err()
}

// GetSnapshot retrieves a single snapshot by ID, or (nil, nil) when absent.
func (db *DB) GetSnapshot(ctx context.Context, id uuid.UUID) (*types.Snapshot, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE id = $1`, id)

	s, err := scanSnapshot(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// ListUngeocodedUK retrieves UK snapshots still missing coordinates, oldest
// first, bounded so a geocoding pass stays within external rate limits.
func (db *DB) ListUngeocodedUK(ctx context.Context, limit int) ([]types.Snapshot, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots
		 WHERE latitude IS NULL
		   AND (region ILIKE '%united kingdom%' OR region IN ('London', 'Manchester', 'Remote'))
		 ORDER BY created_at ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ungeocoded snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []types.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *s)
	}
	return snapshots, rows.Err()
}

// UpdateCoordinates stores a geocoding result on a snapshot.
func (db *DB) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lng, distanceKm float64) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE snapshots
		 SET latitude = $1, longitude = $2, distance_km = $3, updated_at = NOW()
		 WHERE id = $4`,
		lat, lng, distanceKm, id)
	if err != nil {
		return fmt.Errorf("failed to update coordinates: %w", err)
	}
	return nil
}

// DistinctRegions returns the distinct stored region names, sorted.
func (db *DB) DistinctRegions(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT region FROM snapshots ORDER BY region ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// scanSnapshot reads one row in snapshotColumns order.
func scanSnapshot(row pgx.Row) (*types.Snapshot, error) {
	var s types.Snapshot
	var skillsJSON, hitsJSON []byte

	err := row.Scan(&s.ID, &s.Date, &s.Role, &s.Region, &s.Platform, &s.JobTitle,
		&s.CompanyName, &s.LocationDetail, &s.SalaryRange, &s.Description,
		&skillsJSON, &s.PreviewSnippet, &s.SearchURL, &s.SourceURL,
		&hitsJSON, &s.KeywordScore, &s.SeniorityHint,
		&s.Latitude, &s.Longitude, &s.DistanceKm, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	if skillsJSON != nil {
		_ = json.Unmarshal(skillsJSON, &s.Skills)
	}
	if hitsJSON != nil {
		_ = json.Unmarshal(hitsJSON, &s.KeywordHits)
	}
	return &s, nil
}
