package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

// PropertyInput carries the caller-supplied fields for creating or
// replacing a property. The MPAN is fixed at creation; readings hang off it.
type PropertyInput struct {
	Address   string `json:"address"`
	Location  string `json:"location"`
	SqFootage int    `json:"sq_footage"`
	MPANID    string `json:"mpan_id"`
}

// PropertyService implements property CRUD with per-role visibility.
type PropertyService struct {
	users      UserRepository
	properties PropertyRepository
	devices    DeviceRepository
	tariffs    TariffRepository
	logger     *zap.Logger
}

// NewPropertyService builds PropertyService.
func NewPropertyService(users UserRepository, properties PropertyRepository, devices DeviceRepository, tariffs TariffRepository, logger *zap.Logger) *PropertyService {
	return &PropertyService{
		users:      users,
		properties: properties,
		devices:    devices,
		tariffs:    tariffs,
		logger:     logger,
	}
}

// List returns every property the user may see, devices included.
func (s *PropertyService) List(ctx context.Context, userID int64) ([]models.Property, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return loadScopedProperties(ctx, user, s.properties, s.devices)
}

// Get returns a single property after an access check.
func (s *PropertyService) Get(ctx context.Context, userID, propertyID int64) (*models.Property, error) {
	_, property, err := s.authorise(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}
	property.Devices, err = s.devices.ListByProperty(ctx, property.ID)
	if err != nil {
		return nil, err
	}
	return property, nil
}

// Create registers a property under the caller: homeowners own it directly,
// managers place it in their portfolio. A homeowner's first property becomes
// their primary one.
func (s *PropertyService) Create(ctx context.Context, userID int64, input PropertyInput) (*models.Property, error) {
	if strings.TrimSpace(input.MPANID) == "" {
		return nil, fmt.Errorf("%w: mpan_id required", ErrValidation)
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, fmt.Errorf("%w: address required", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	property := &models.Property{
		Address:   input.Address,
		Location:  input.Location,
		SqFootage: input.SqFootage,
		MPANID:    strings.TrimSpace(input.MPANID),
	}
	switch user.Role {
	case models.RoleHomeowner:
		property.OwnerUserID = &user.ID
	case models.RolePropertyManager:
		if user.PortfolioID == nil {
			return nil, fmt.Errorf("manager %d has no portfolio", user.ID)
		}
		property.PortfolioID = user.PortfolioID
	default:
		return nil, ErrInvalidRole
	}

	if err := s.properties.Create(ctx, property); err != nil {
		return nil, err
	}

	if user.Role == models.RoleHomeowner && user.PropertyID == nil {
		if err := s.users.SetPrimaryProperty(ctx, user.ID, property.ID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("property created",
		zap.Int64("property_id", property.ID),
		zap.String("mpan_id", property.MPANID),
		zap.Int64("user_id", userID),
	)
	property.Devices = []models.Device{}
	return property, nil
}

// Update replaces the editable fields of a property. The MPAN is not
// editable; readings are keyed by it.
func (s *PropertyService) Update(ctx context.Context, userID, propertyID int64, input PropertyInput) (*models.Property, error) {
	_, property, err := s.authorise(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}

	property.Address = input.Address
	property.Location = input.Location
	property.SqFootage = input.SqFootage
	if err := s.properties.Update(ctx, property); err != nil {
		return nil, err
	}

	property.Devices, err = s.devices.ListByProperty(ctx, property.ID)
	if err != nil {
		return nil, err
	}
	return property, nil
}

// Patch applies a partial update, leaving unset fields alone.
func (s *PropertyService) Patch(ctx context.Context, userID, propertyID int64, update models.PropertyUpdate) (*models.Property, error) {
	_, property, err := s.authorise(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}

	if !update.Empty() {
		if err := s.properties.Patch(ctx, property.ID, update); err != nil {
			return nil, err
		}
		property, err = s.properties.GetByID(ctx, property.ID)
		if err != nil {
			return nil, err
		}
	}

	property.Devices, err = s.devices.ListByProperty(ctx, property.ID)
	if err != nil {
		return nil, err
	}
	return property, nil
}

// AddDevice attaches a device to a property.
func (s *PropertyService) AddDevice(ctx context.Context, userID, propertyID int64, device *models.Device) (*models.Device, error) {
	if strings.TrimSpace(device.Name) == "" {
		return nil, fmt.Errorf("%w: device name required", ErrValidation)
	}
	if device.AverageDrawKW < 0 {
		return nil, fmt.Errorf("%w: device average draw must not be negative", ErrValidation)
	}

	_, property, err := s.authorise(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}

	device.PropertyID = property.ID
	if err := s.devices.Create(ctx, device); err != nil {
		return nil, err
	}

	s.logger.Info("device added",
		zap.Int64("device_id", device.ID),
		zap.Int64("property_id", property.ID),
		zap.String("name", device.Name),
	)
	return device, nil
}

// Context assembles the full dashboard context: the user's properties with
// devices, plus every tariff those properties reference keyed by id.
func (s *PropertyService) Context(ctx context.Context, userID int64) (*models.UserContext, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	properties, err := loadScopedProperties(ctx, user, s.properties, s.devices)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, ErrNoProperties
	}

	tariffs := make(map[string]models.Tariff)
	for _, property := range properties {
		if property.TariffID == nil {
			continue
		}
		key := strconv.FormatInt(*property.TariffID, 10)
		if _, ok := tariffs[key]; ok {
			continue
		}
		tariff, err := s.tariffs.GetByID(ctx, *property.TariffID)
		if err != nil {
			return nil, err
		}
		tariffs[key] = *tariff
	}

	return &models.UserContext{
		UserID:     user.Email,
		Properties: properties,
		Tariffs:    tariffs,
	}, nil
}

// authorise loads a property and checks the user may touch it. Unknown
// properties surface as not-found, known-but-foreign ones as forbidden.
func (s *PropertyService) authorise(ctx context.Context, userID, propertyID int64) (*models.User, *models.Property, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	if !canAccessProperty(user, property) {
		return nil, nil, fmt.Errorf("%w: property %d", ErrForbidden, propertyID)
	}
	return user, property, nil
}
