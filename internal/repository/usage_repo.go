package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

// UsageRepository handles the usage_logs table. Rows are keyed by meter and
// half-hour timestamp, so replayed readings are dropped rather than doubled.
type UsageRepository struct {
	db *sql.DB
}

// NewUsageRepository returns repository instance.
func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

const insertUsageQuery = `
	INSERT INTO usage_logs (mpan_id, ts, kwh_consumption, kwh_cost, reading_type)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (mpan_id, ts) DO NOTHING
`

// Insert stores a single reading. It reports false when a reading for the
// same meter and timestamp already exists.
func (r *UsageRepository) Insert(ctx context.Context, log *models.UsageLog) (bool, error) {
	result, err := r.db.ExecContext(ctx, insertUsageQuery,
		log.MPANID,
		log.Timestamp.UTC(),
		log.KWhConsumption,
		log.KWhCost,
		log.ReadingType,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// BulkInsert stores a batch of readings in one transaction and returns how
// many rows were actually written.
func (r *UsageRepository) BulkInsert(ctx context.Context, logs []models.UsageLog) (int64, error) {
	if len(logs) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertUsageQuery)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var inserted int64
	for i := range logs {
		log := &logs[i]
		result, err := stmt.ExecContext(ctx,
			log.MPANID,
			log.Timestamp.UTC(),
			log.KWhConsumption,
			log.KWhCost,
			log.ReadingType,
		)
		if err != nil {
			return 0, fmt.Errorf("insert reading %s/%s: %w", log.MPANID, log.Timestamp.Format(time.RFC3339), err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += affected
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// ListByMPAN fetches readings for a meter within [from, to), oldest first.
// A non-positive limit returns every matching row.
func (r *UsageRepository) ListByMPAN(ctx context.Context, mpanID string, from, to time.Time, limit int) ([]models.UsageLog, error) {
	const query = `
		SELECT id, mpan_id, ts, kwh_consumption, kwh_cost, reading_type, created_at
		FROM usage_logs
		WHERE mpan_id = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts
		LIMIT $4
	`
	var limitArg interface{}
	if limit > 0 {
		limitArg = limit
	}
	rows, err := r.db.QueryContext(ctx, query, mpanID, from.UTC(), to.UTC(), limitArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.UsageLog
	for rows.Next() {
		var log models.UsageLog
		if err := rows.Scan(
			&log.ID,
			&log.MPANID,
			&log.Timestamp,
			&log.KWhConsumption,
			&log.KWhCost,
			&log.ReadingType,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// Totals sums consumption and cost for a meter within [from, to).
func (r *UsageRepository) Totals(ctx context.Context, mpanID string, from, to time.Time) (kwh, cost float64, err error) {
	const query = `
		SELECT COALESCE(SUM(kwh_consumption), 0), COALESCE(SUM(kwh_cost), 0)
		FROM usage_logs
		WHERE mpan_id = $1 AND ts >= $2 AND ts < $3
	`
	err = r.db.QueryRowContext(ctx, query, mpanID, from.UTC(), to.UTC()).Scan(&kwh, &cost)
	return kwh, cost, err
}

// CountByMPAN reports how many readings a meter has within [from, to).
func (r *UsageRepository) CountByMPAN(ctx context.Context, mpanID string, from, to time.Time) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM usage_logs
		WHERE mpan_id = $1 AND ts >= $2 AND ts < $3
	`
	var count int64
	err := r.db.QueryRowContext(ctx, query, mpanID, from.UTC(), to.UTC()).Scan(&count)
	return count, err
}

// ListMPANs fetches the distinct meters that have at least one reading.
func (r *UsageRepository) ListMPANs(ctx context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT mpan_id
		FROM usage_logs
		ORDER BY mpan_id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mpans []string
	for rows.Next() {
		var mpan string
		if err := rows.Scan(&mpan); err != nil {
			return nil, err
		}
		mpans = append(mpans, mpan)
	}
	return mpans, rows.Err()
}
