package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode is configured in db.go.
func InitSchema(db *sql.DB) error {
	return createDevicesTable(db)
}

func createDevicesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS devices (
		device_no TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		run_hours INTEGER NOT NULL DEFAULT 0,
		record_date TEXT NOT NULL,
		location TEXT NOT NULL,
		last_maintenance_date TEXT,
		last_maintenance_hours INTEGER NOT NULL DEFAULT 0,
		first_diesel_replaced INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_devices_status ON devices(status);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create devices table: %w", err)
	}

	return nil
}
