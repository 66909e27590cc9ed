package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

// TariffService lists tariff plans and assigns them to properties.
type TariffService struct {
	users      UserRepository
	properties PropertyRepository
	tariffs    TariffRepository
	logger     *zap.Logger
}

// NewTariffService builds TariffService.
func NewTariffService(users UserRepository, properties PropertyRepository, tariffs TariffRepository, logger *zap.Logger) *TariffService {
	return &TariffService{
		users:      users,
		properties: properties,
		tariffs:    tariffs,
		logger:     logger,
	}
}

// List returns every available tariff plan.
func (s *TariffService) List(ctx context.Context) ([]models.Tariff, error) {
	return s.tariffs.List(ctx)
}

// Assign points a property at a tariff. Homeowners may omit the property id
// to mean their primary property; managers always name one.
func (s *TariffService) Assign(ctx context.Context, userID int64, propertyID *int64, tariffID int64) (*models.Property, error) {
	tariff, err := s.tariffs.GetByID(ctx, tariffID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if propertyID == nil {
		if user.Role != models.RoleHomeowner || user.PropertyID == nil {
			return nil, ErrPropertyRequired
		}
		propertyID = user.PropertyID
	}

	property, err := s.properties.GetByID(ctx, *propertyID)
	if err != nil {
		return nil, err
	}
	if !canAccessProperty(user, property) {
		return nil, fmt.Errorf("%w: property %d", ErrForbidden, property.ID)
	}

	if err := s.properties.AssignTariff(ctx, property.ID, tariff.ID); err != nil {
		return nil, err
	}
	property.TariffID = &tariff.ID

	s.logger.Info("tariff assigned",
		zap.Int64("property_id", property.ID),
		zap.Int64("tariff_id", tariff.ID),
		zap.Int64("user_id", userID),
	)
	return property, nil
}
