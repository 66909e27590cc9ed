package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

// ErrPropertyNotFound represents missing property rows.
var ErrPropertyNotFound = errors.New("property not found")

// PropertyRepository handles CRUD for the properties table.
type PropertyRepository struct {
	db *sql.DB
}

// NewPropertyRepository returns repository instance.
func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

const propertyColumns = `
	id, address, location, sq_footage, mpan_id, tariff_id, portfolio_id,
	owner_user_id, created_at, updated_at
`

// Create inserts a new property.
func (r *PropertyRepository) Create(ctx context.Context, property *models.Property) error {
	const query = `
		INSERT INTO properties (address, location, sq_footage, mpan_id, tariff_id, portfolio_id, owner_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		property.Address,
		property.Location,
		property.SqFootage,
		property.MPANID,
		property.TariffID,
		property.PortfolioID,
		property.OwnerUserID,
	).Scan(&property.ID, &property.CreatedAt, &property.UpdatedAt)
}

// GetByID fetches a property by primary key.
func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	const query = `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE id = $1
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanProperty(row)
}

// GetByMPAN fetches a property by its meter point number.
func (r *PropertyRepository) GetByMPAN(ctx context.Context, mpanID string) (*models.Property, error) {
	const query = `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE mpan_id = $1
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, mpanID)
	return scanProperty(row)
}

// ListByOwner fetches every property owned by the given user.
func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerUserID int64) ([]models.Property, error) {
	const query = `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE owner_user_id = $1
		ORDER BY id
	`
	return r.list(ctx, query, ownerUserID)
}

// ListByPortfolio fetches every property in the given portfolio.
func (r *PropertyRepository) ListByPortfolio(ctx context.Context, portfolioID int64) ([]models.Property, error) {
	const query = `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE portfolio_id = $1
		ORDER BY id
	`
	return r.list(ctx, query, portfolioID)
}

// Update replaces the caller-editable fields of a property.
func (r *PropertyRepository) Update(ctx context.Context, property *models.Property) error {
	const query = `
		UPDATE properties
		SET address = $2,
		    location = $3,
		    sq_footage = $4,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		property.ID,
		property.Address,
		property.Location,
		property.SqFootage,
	).Scan(&property.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPropertyNotFound
	}
	return err
}

// Patch applies the non-nil fields of the update to a property.
func (r *PropertyRepository) Patch(ctx context.Context, id int64, update models.PropertyUpdate) error {
	const query = `
		UPDATE properties
		SET address = COALESCE($2, address),
		    location = COALESCE($3, location),
		    sq_footage = COALESCE($4, sq_footage),
		    mpan_id = COALESCE($5, mpan_id),
		    tariff_id = COALESCE($6, tariff_id),
		    portfolio_id = COALESCE($7, portfolio_id),
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id,
		update.Address,
		update.Location,
		update.SqFootage,
		update.MPANID,
		update.TariffID,
		update.PortfolioID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// AssignTariff points a property at a tariff plan.
func (r *PropertyRepository) AssignTariff(ctx context.Context, id, tariffID int64) error {
	const query = `
		UPDATE properties
		SET tariff_id = $2,
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, tariffID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepository) list(ctx context.Context, query string, arg int64) ([]models.Property, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var property models.Property
		if err := rows.Scan(
			&property.ID,
			&property.Address,
			&property.Location,
			&property.SqFootage,
			&property.MPANID,
			&property.TariffID,
			&property.PortfolioID,
			&property.OwnerUserID,
			&property.CreatedAt,
			&property.UpdatedAt,
		); err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	return properties, rows.Err()
}

func scanProperty(row *sql.Row) (*models.Property, error) {
	var property models.Property
	if err := row.Scan(
		&property.ID,
		&property.Address,
		&property.Location,
		&property.SqFootage,
		&property.MPANID,
		&property.TariffID,
		&property.PortfolioID,
		&property.OwnerUserID,
		&property.CreatedAt,
		&property.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}
