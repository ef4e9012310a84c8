package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travel-assistant/models"
)

// PostgresLocationStore keeps resolved locations in the location_codes table
type PostgresLocationStore struct {
	db     *sql.DB
	maxAge time.Duration
}

// NewPostgresLocationStore creates a store; rows older than maxAge are ignored
// (maxAge <= 0 keeps rows forever)
func NewPostgresLocationStore(db *sql.DB, maxAge time.Duration) *PostgresLocationStore {
	return &PostgresLocationStore{db: db, maxAge: maxAge}
}

// Lookup returns the stored location for keyword, or nil when there is none
func (s *PostgresLocationStore) Lookup(ctx context.Context, keyword string) (*models.Location, error) {
	cutoff := time.Time{}
	if s.maxAge > 0 {
		cutoff = time.Now().Add(-s.maxAge)
	}

	var loc models.Location
	err := s.db.QueryRowContext(ctx, `
		SELECT keyword, iata_code, city_name, latitude, longitude
		FROM location_codes
		WHERE keyword = $1 AND updated_at > $2
	`, keyword, cutoff).Scan(&loc.Keyword, &loc.Code, &loc.CityName, &loc.Latitude, &loc.Longitude)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query location %q: %w", keyword, err)
	}
	return &loc, nil
}

// Save inserts or refreshes a location
func (s *PostgresLocationStore) Save(ctx context.Context, location models.Location) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO location_codes (keyword, iata_code, city_name, latitude, longitude, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (keyword) DO UPDATE SET
			iata_code = EXCLUDED.iata_code,
			city_name = EXCLUDED.city_name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = NOW()
	`, location.Keyword, location.Code, location.CityName, location.Latitude, location.Longitude)
	if err != nil {
		return fmt.Errorf("failed to save location %q: %w", location.Keyword, err)
	}
	return nil
}
