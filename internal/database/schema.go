package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// EnsureSchema creates the places table when it does not exist yet.
// DATETIME(6) keeps microsecond precision so updated_at strictly increases
// across back-to-back mutations of the same record.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("ensure schema: db is nil")
	}

	const createPlaces = `
	CREATE TABLE IF NOT EXISTS places (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		latitude    DOUBLE NOT NULL,
		longitude   DOUBLE NOT NULL,
		description TEXT NOT NULL,
		country     VARCHAR(100) NULL,
		city        VARCHAR(100) NULL,
		locality    VARCHAR(255) NOT NULL,
		created_at  DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at  DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	if _, err := db.ExecContext(ctx, createPlaces); err != nil {
		return fmt.Errorf("ensure schema: create places: %w", err)
	}
	return nil
}
