package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/equiptrack/linebot-go/internal/device"
	apperrors "github.com/equiptrack/linebot-go/internal/errors"
)

const deviceColumns = `device_no, status, run_hours, record_date, location,
	last_maintenance_date, last_maintenance_hours, first_diesel_replaced`

// FindByDeviceNo retrieves a device by its number.
// Returns ErrNotFound when no such device exists.
func (db *DB) FindByDeviceNo(ctx context.Context, deviceNo string) (*device.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE device_no = ?`

	dev, err := scanDevice(db.conn.QueryRowContext(ctx, query, deviceNo))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewWrapper("storage", "find_device").
			Wrapf(apperrors.ErrNotFound, "設備 %s 不存在", deviceNo)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query device",
			"device_no", deviceNo,
			"error", err)
		return nil, fmt.Errorf("query device: %w", err)
	}

	return dev, nil
}

// Upsert creates the device with defaults when missing, then applies the patch.
// The merged device is written back atomically and returned.
func (db *DB) Upsert(ctx context.Context, deviceNo string, patch device.Patch) (*device.Device, error) {
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT ` + deviceColumns + ` FROM devices WHERE device_no = ?`
	dev, err := scanDevice(tx.QueryRowContext(ctx, query, deviceNo))

	created := false
	switch {
	case err == sql.ErrNoRows:
		created = true
		dev = &device.Device{
			DeviceNo:   deviceNo,
			Status:     device.DefaultStatus,
			RunHours:   0,
			RecordDate: device.Today(),
			Location:   device.DefaultLocation,
		}
	case err != nil:
		slog.ErrorContext(ctx, "failed to query device for upsert",
			"device_no", deviceNo,
			"error", err)
		return nil, fmt.Errorf("query device: %w", err)
	}

	patch.Apply(dev)

	if created {
		err = insertDevice(ctx, tx, dev)
	} else {
		err = updateDevice(ctx, tx, dev)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert: %w", err)
	}

	// Warn on slow queries (>100ms)
	if duration := time.Since(start); duration > 100*time.Millisecond {
		slog.WarnContext(ctx, "slow database operation",
			"operation", "Upsert",
			"duration_ms", duration.Milliseconds(),
			"device_no", deviceNo)
	}

	return dev, nil
}

// Update applies the patch to an existing device.
// Returns ErrNotFound when the device does not exist.
func (db *DB) Update(ctx context.Context, deviceNo string, patch device.Patch) (*device.Device, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT ` + deviceColumns + ` FROM devices WHERE device_no = ?`
	dev, err := scanDevice(tx.QueryRowContext(ctx, query, deviceNo))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewWrapper("storage", "update_device").
			Wrapf(apperrors.ErrNotFound, "設備 %s 不存在", deviceNo)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query device for update",
			"device_no", deviceNo,
			"error", err)
		return nil, fmt.Errorf("query device: %w", err)
	}

	patch.Apply(dev)

	if err := updateDevice(ctx, tx, dev); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}

	return dev, nil
}

// Delete removes a device.
// Returns ErrNotFound when the device does not exist.
func (db *DB) Delete(ctx context.Context, deviceNo string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM devices WHERE device_no = ?`, deviceNo)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete device",
			"device_no", deviceNo,
			"error", err)
		return fmt.Errorf("delete device: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	if affected == 0 {
		return apperrors.NewWrapper("storage", "delete_device").
			Wrapf(apperrors.ErrNotFound, "設備 %s 不存在", deviceNo)
	}

	return nil
}

// List returns all devices in creation order.
func (db *DB) List(ctx context.Context) ([]*device.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices ORDER BY rowid`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list devices", "error", err)
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var devices []*device.Device
	for rows.Next() {
		dev, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, dev)
	}

	return devices, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (*device.Device, error) {
	var dev device.Device
	var maintDate sql.NullString
	err := row.Scan(
		&dev.DeviceNo,
		&dev.Status,
		&dev.RunHours,
		&dev.RecordDate,
		&dev.Location,
		&maintDate,
		&dev.LastMaintenanceHours,
		&dev.FirstDieselReplaced,
	)
	if err != nil {
		return nil, err
	}
	dev.LastMaintenanceDate = maintDate.String
	return &dev, nil
}

func insertDevice(ctx context.Context, tx *sql.Tx, dev *device.Device) error {
	query := `
		INSERT INTO devices (` + deviceColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().Unix()
	_, err := tx.ExecContext(ctx, query,
		dev.DeviceNo,
		string(dev.Status),
		dev.RunHours,
		dev.RecordDate,
		dev.Location,
		nullString(dev.LastMaintenanceDate),
		dev.LastMaintenanceHours,
		dev.FirstDieselReplaced,
		now,
		now,
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert device",
			"device_no", dev.DeviceNo,
			"error", err)
		return fmt.Errorf("insert device: %w", err)
	}
	return nil
}

func updateDevice(ctx context.Context, tx *sql.Tx, dev *device.Device) error {
	query := `
		UPDATE devices SET
			status = ?,
			run_hours = ?,
			record_date = ?,
			location = ?,
			last_maintenance_date = ?,
			last_maintenance_hours = ?,
			first_diesel_replaced = ?,
			updated_at = ?
		WHERE device_no = ?
	`
	_, err := tx.ExecContext(ctx, query,
		string(dev.Status),
		dev.RunHours,
		dev.RecordDate,
		dev.Location,
		nullString(dev.LastMaintenanceDate),
		dev.LastMaintenanceHours,
		dev.FirstDieselReplaced,
		time.Now().Unix(),
		dev.DeviceNo,
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update device",
			"device_no", dev.DeviceNo,
			"error", err)
		return fmt.Errorf("update device: %w", err)
	}
	return nil
}

// nullString converts an empty string to a NULL database value
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
