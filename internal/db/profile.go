package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/minji/jobradar/internal/types"
)

// profileKey is the fixed storage key the single candidate profile lives
// under. The profile is one serialized blob; no per-field versioning.
const profileKey = "candidate_profile"

// GetProfile retrieves the stored candidate profile, or (nil, nil) when the
// user has not saved one yet.
func (db *DB) GetProfile(ctx context.Context) (*types.CandidateProfile, error) {
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT data FROM profiles WHERE key = $1`, profileKey,
	).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var p types.CandidateProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	p = p.Normalized()
	return &p, nil
}

// SaveProfile replaces the stored profile wholesale.
func (db *DB) SaveProfile(ctx context.Context, p types.CandidateProfile) error {
	data, err := json.Marshal(p.Normalized())
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO profiles (key, data)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET data = $2, updated_at = NOW()`,
		profileKey, data)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
