package service

import (
	"context"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

// canAccessProperty reports whether a user may see a property. Homeowners
// match on ownership, property managers on portfolio membership.
func canAccessProperty(user *models.User, property *models.Property) bool {
	switch user.Role {
	case models.RoleHomeowner:
		return property.OwnerUserID != nil && *property.OwnerUserID == user.ID
	case models.RolePropertyManager:
		return user.PortfolioID != nil && property.PortfolioID != nil &&
			*property.PortfolioID == *user.PortfolioID
	}
	return false
}

// loadScopedProperties returns the properties visible to a user, with
// devices attached.
func loadScopedProperties(ctx context.Context, user *models.User, properties PropertyRepository, devices DeviceRepository) ([]models.Property, error) {
	var (
		scoped []models.Property
		err    error
	)
	switch user.Role {
	case models.RoleHomeowner:
		scoped, err = properties.ListByOwner(ctx, user.ID)
	case models.RolePropertyManager:
		if user.PortfolioID == nil {
			return nil, nil
		}
		scoped, err = properties.ListByPortfolio(ctx, *user.PortfolioID)
	default:
		return nil, ErrInvalidRole
	}
	if err != nil {
		return nil, err
	}
	for i := range scoped {
		scoped[i].Devices, err = devices.ListByProperty(ctx, scoped[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return scoped, nil
}
