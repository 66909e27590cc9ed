package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

// ErrTariffNotFound represents missing tariff rows.
var ErrTariffNotFound = errors.New("tariff not found")

// TariffRepository handles CRUD for the tariffs table. Rate schedules are
// stored as jsonb keyed by band name.
type TariffRepository struct {
	db *sql.DB
}

// NewTariffRepository returns repository instance.
func NewTariffRepository(db *sql.DB) *TariffRepository {
	return &TariffRepository{db: db}
}

// Create inserts a new tariff plan.
func (r *TariffRepository) Create(ctx context.Context, tariff *models.Tariff) error {
	schedule, err := json.Marshal(tariff.RateSchedule)
	if err != nil {
		return fmt.Errorf("marshal rate schedule: %w", err)
	}
	const query = `
		INSERT INTO tariffs (provider_name, payment_type, region, standing_charge_pd, carbon_score, rate_schedule)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		tariff.ProviderName,
		tariff.PaymentType,
		tariff.Region,
		tariff.StandingChargePD,
		tariff.CarbonScore,
		schedule,
	).Scan(&tariff.ID, &tariff.CreatedAt)
}

// GetByID fetches a tariff by primary key.
func (r *TariffRepository) GetByID(ctx context.Context, id int64) (*models.Tariff, error) {
	const query = `
		SELECT id, provider_name, payment_type, region, standing_charge_pd, carbon_score, rate_schedule, created_at
		FROM tariffs
		WHERE id = $1
		LIMIT 1
	`
	var (
		tariff   models.Tariff
		schedule []byte
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tariff.ID,
		&tariff.ProviderName,
		&tariff.PaymentType,
		&tariff.Region,
		&tariff.StandingChargePD,
		&tariff.CarbonScore,
		&schedule,
		&tariff.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTariffNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(schedule, &tariff.RateSchedule); err != nil {
		return nil, fmt.Errorf("unmarshal rate schedule: %w", err)
	}
	return &tariff, nil
}

// List fetches every available tariff plan.
func (r *TariffRepository) List(ctx context.Context) ([]models.Tariff, error) {
	const query = `
		SELECT id, provider_name, payment_type, region, standing_charge_pd, carbon_score, rate_schedule, created_at
		FROM tariffs
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tariffs []models.Tariff
	for rows.Next() {
		var (
			tariff   models.Tariff
			schedule []byte
		)
		if err := rows.Scan(
			&tariff.ID,
			&tariff.ProviderName,
			&tariff.PaymentType,
			&tariff.Region,
			&tariff.StandingChargePD,
			&tariff.CarbonScore,
			&schedule,
			&tariff.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(schedule, &tariff.RateSchedule); err != nil {
			return nil, fmt.Errorf("unmarshal rate schedule: %w", err)
		}
		tariffs = append(tariffs, tariff)
	}
	return tariffs, rows.Err()
}
