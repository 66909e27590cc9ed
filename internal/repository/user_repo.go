package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

// ErrUserNotFound represents missing user rows.
var ErrUserNotFound = errors.New("user not found")

// UserRepository handles CRUD for the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns repository instance.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	const query = `
		INSERT INTO users (email, password_hash, role, property_id, portfolio_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.PropertyID,
		user.PortfolioID,
	).Scan(&user.ID, &user.CreatedAt)
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `
		SELECT id, email, password_hash, role, property_id, portfolio_id, created_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

// GetByID fetches a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `
		SELECT id, email, password_hash, role, property_id, portfolio_id, created_at
		FROM users
		WHERE id = $1
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanUser(row)
}

// UpdateRole changes a user's role. A non-nil portfolioID is written at the
// same time; nil leaves the existing portfolio untouched.
func (r *UserRepository) UpdateRole(ctx context.Context, userID int64, role string, portfolioID *int64) error {
	const query = `
		UPDATE users
		SET role = $2,
		    portfolio_id = COALESCE($3, portfolio_id)
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, userID, role, portfolioID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetPrimaryProperty records the homeowner's main property.
func (r *UserRepository) SetPrimaryProperty(ctx context.Context, userID, propertyID int64) error {
	const query = `
		UPDATE users
		SET property_id = $2
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, userID, propertyID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.PropertyID,
		&user.PortfolioID,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
