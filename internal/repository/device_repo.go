package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

// ErrDeviceNotFound represents missing device rows.
var ErrDeviceNotFound = errors.New("device not found")

// DeviceRepository handles CRUD for the devices table.
type DeviceRepository struct {
	db *sql.DB
}

// NewDeviceRepository returns repository instance.
func NewDeviceRepository(db *sql.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Create inserts a new device.
func (r *DeviceRepository) Create(ctx context.Context, device *models.Device) error {
	const query = `
		INSERT INTO devices (property_id, name, average_draw_kw, is_shiftable)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		device.PropertyID,
		device.Name,
		device.AverageDrawKW,
		device.IsShiftable,
	).Scan(&device.ID, &device.CreatedAt)
}

// GetByID fetches a device by primary key.
func (r *DeviceRepository) GetByID(ctx context.Context, id int64) (*models.Device, error) {
	const query = `
		SELECT id, property_id, name, average_draw_kw, is_shiftable, created_at
		FROM devices
		WHERE id = $1
		LIMIT 1
	`
	var device models.Device
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&device.ID,
		&device.PropertyID,
		&device.Name,
		&device.AverageDrawKW,
		&device.IsShiftable,
		&device.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return &device, nil
}

// ListByProperty fetches every device attached to a property.
func (r *DeviceRepository) ListByProperty(ctx context.Context, propertyID int64) ([]models.Device, error) {
	const query = `
		SELECT id, property_id, name, average_draw_kw, is_shiftable, created_at
		FROM devices
		WHERE property_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []models.Device
	for rows.Next() {
		var device models.Device
		if err := rows.Scan(
			&device.ID,
			&device.PropertyID,
			&device.Name,
			&device.AverageDrawKW,
			&device.IsShiftable,
			&device.CreatedAt,
		); err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}
	return devices, rows.Err()
}
