package repository

import (
	"context"
	"database/sql"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

// ScenarioRepository persists optimisation runs so users can revisit what-if
// results after the fact.
type ScenarioRepository struct {
	db *sql.DB
}

// NewScenarioRepository returns repository instance.
func NewScenarioRepository(db *sql.DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

// Create inserts a completed run.
func (r *ScenarioRepository) Create(ctx context.Context, run *models.ScenarioRun) error {
	const query = `
		INSERT INTO scenario_runs (id, user_id, property_id, device_id, original_ts, new_ts, baseline_cost, scenario_cost, estimated_savings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		run.ID,
		run.UserID,
		run.PropertyID,
		run.DeviceID,
		run.OriginalTimestamp.UTC(),
		run.NewTimestamp.UTC(),
		run.BaselineCost,
		run.ScenarioCost,
		run.EstimatedSavings,
	).Scan(&run.CreatedAt)
}

// ListByUser fetches a user's runs, newest first.
func (r *ScenarioRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.ScenarioRun, error) {
	const query = `
		SELECT id, user_id, property_id, device_id, original_ts, new_ts, baseline_cost, scenario_cost, estimated_savings, created_at
		FROM scenario_runs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var limitArg interface{}
	if limit > 0 {
		limitArg = limit
	}
	rows, err := r.db.QueryContext(ctx, query, userID, limitArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.ScenarioRun
	for rows.Next() {
		var run models.ScenarioRun
		if err := rows.Scan(
			&run.ID,
			&run.UserID,
			&run.PropertyID,
			&run.DeviceID,
			&run.OriginalTimestamp,
			&run.NewTimestamp,
			&run.BaselineCost,
			&run.ScenarioCost,
			&run.EstimatedSavings,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
