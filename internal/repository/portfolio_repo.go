package repository

import (
	"context"
	"database/sql"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

// PortfolioRepository handles CRUD for the portfolios table.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository returns repository instance.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// Create inserts a new portfolio.
func (r *PortfolioRepository) Create(ctx context.Context, portfolio *models.Portfolio) error {
	const query = `
		INSERT INTO portfolios (manager_user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		portfolio.ManagerUserID,
		portfolio.Name,
	).Scan(&portfolio.ID, &portfolio.CreatedAt)
}
