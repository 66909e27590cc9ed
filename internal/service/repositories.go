package service

import (
	"context"
	"time"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

// Storage contracts used by the services. The concrete implementations live
// in internal/repository; tests swap in fakes.

// UserRepository defines user storage.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateRole(ctx context.Context, userID int64, role string, portfolioID *int64) error
	SetPrimaryProperty(ctx context.Context, userID, propertyID int64) error
}

// PortfolioRepository defines portfolio storage.
type PortfolioRepository interface {
	Create(ctx context.Context, portfolio *models.Portfolio) error
}

// PropertyRepository defines property storage.
type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id int64) (*models.Property, error)
	GetByMPAN(ctx context.Context, mpanID string) (*models.Property, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]models.Property, error)
	ListByPortfolio(ctx context.Context, portfolioID int64) ([]models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	Patch(ctx context.Context, id int64, update models.PropertyUpdate) error
	AssignTariff(ctx context.Context, id, tariffID int64) error
}

// DeviceRepository defines device storage.
type DeviceRepository interface {
	Create(ctx context.Context, device *models.Device) error
	GetByID(ctx context.Context, id int64) (*models.Device, error)
	ListByProperty(ctx context.Context, propertyID int64) ([]models.Device, error)
}

// TariffRepository defines tariff storage.
type TariffRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Tariff, error)
	List(ctx context.Context) ([]models.Tariff, error)
}

// UsageRepository defines meter reading storage.
type UsageRepository interface {
	Insert(ctx context.Context, log *models.UsageLog) (bool, error)
	ListByMPAN(ctx context.Context, mpanID string, from, to time.Time, limit int) ([]models.UsageLog, error)
	Totals(ctx context.Context, mpanID string, from, to time.Time) (kwh, cost float64, err error)
}

// ScenarioRepository defines optimisation run storage.
type ScenarioRepository interface {
	Create(ctx context.Context, run *models.ScenarioRun) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.ScenarioRun, error)
}
