package database

import (
	"database/sql"
	"fmt"
	"log"
)

const locationCodesSchema = `
	CREATE TABLE IF NOT EXISTS location_codes (
		keyword    TEXT PRIMARY KEY,
		iata_code  TEXT NOT NULL,
		city_name  TEXT NOT NULL DEFAULT '',
		latitude   DOUBLE PRECISION NOT NULL DEFAULT 0,
		longitude  DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// RunMigrations ensures the location cache table exists
func RunMigrations(db *sql.DB) error {
	log.Println("Checking database schema...")

	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'location_codes'
		)
	`).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		log.Println("Database schema already exists, skipping migrations")
		return nil
	}

	if _, err := db.Exec(locationCodesSchema); err != nil {
		return fmt.Errorf("failed to create location_codes table: %w", err)
	}

	log.Println("Created location_codes table")
	return nil
}
