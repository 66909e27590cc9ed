package models

import "time"

// Roles understood by the platform. The strings are part of the API
// contract and are stored verbatim in tokens and the users table.
const (
	RoleHomeowner       = "Homeowner"
	RolePropertyManager = "PropertyManager"
)

// ValidRole reports whether role is one of the supported role labels.
func ValidRole(role string) bool {
	return role == RoleHomeowner || role == RolePropertyManager
}

// User represents an account row. PropertyID is the homeowner's primary
// property, PortfolioID the manager's portfolio; either may be unset.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	PropertyID   *int64    `db:"property_id" json:"property_id"`
	PortfolioID  *int64    `db:"portfolio_id" json:"portfolio_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Portfolio groups the properties managed by a single PropertyManager.
type Portfolio struct {
	ID            int64     `db:"id" json:"id"`
	ManagerUserID int64     `db:"manager_user_id" json:"manager_user_id"`
	Name          string    `db:"name" json:"name"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
