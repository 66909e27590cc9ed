package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/engine"
	"github.com/arez-sajeel/Project-Green/internal/models"
	"github.com/arez-sajeel/Project-Green/internal/repository"
)

const defaultRunListLimit = 50

// ScenarioService assembles the context for optimisation runs, executes
// them and keeps their results.
type ScenarioService struct {
	users      UserRepository
	properties PropertyRepository
	devices    DeviceRepository
	tariffs    TariffRepository
	usage      UsageRepository
	runs       ScenarioRepository
	logger     *zap.Logger
}

// NewScenarioService builds ScenarioService.
func NewScenarioService(users UserRepository, properties PropertyRepository, devices DeviceRepository, tariffs TariffRepository, usage UsageRepository, runs ScenarioRepository, logger *zap.Logger) *ScenarioService {
	return &ScenarioService{
		users:      users,
		properties: properties,
		devices:    devices,
		tariffs:    tariffs,
		usage:      usage,
		runs:       runs,
		logger:     logger,
	}
}

// Run executes a load-shift scenario for the device's property. The usage
// window is the calendar month of the original timestamp, so the shift is
// priced against the readings around it.
func (s *ScenarioService) Run(ctx context.Context, userID int64, req models.ShiftRequest) (*models.OptimisationReport, error) {
	if req.OriginalTimestamp.IsZero() || req.NewTimestamp.IsZero() {
		return nil, fmt.Errorf("%w: original and new timestamps required", ErrValidation)
	}

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

	property := propertyOwningDevice(properties, req.DeviceID)
	if property == nil {
		return nil, fmt.Errorf("%w: device %d not in your properties", engine.ErrDeviceNotFound, req.DeviceID)
	}
	if property.TariffID == nil {
		return nil, fmt.Errorf("%w: property %d has no tariff assigned", repository.ErrTariffNotFound, property.ID)
	}
	tariff, err := s.tariffs.GetByID(ctx, *property.TariffID)
	if err != nil {
		return nil, err
	}

	from, to := monthWindow(req.OriginalTimestamp)
	logs, err := s.usage.ListByMPAN(ctx, property.MPANID, from, to, 0)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, fmt.Errorf("%w: mpan %s between %s and %s", ErrNoUsageData,
			property.MPANID, from.Format(time.RFC3339), to.Format(time.RFC3339))
	}

	report, err := engine.New(property, tariff, logs, s.logger).RunScenario(req)
	if err != nil {
		return nil, err
	}

	run := &models.ScenarioRun{
		ID:                uuid.NewString(),
		UserID:            userID,
		PropertyID:        property.ID,
		DeviceID:          req.DeviceID,
		OriginalTimestamp: req.OriginalTimestamp.UTC(),
		NewTimestamp:      req.NewTimestamp.UTC(),
		BaselineCost:      report.BaselineCost,
		ScenarioCost:      report.ScenarioCost,
		EstimatedSavings:  report.EstimatedSavings,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	report.RunID = run.ID

	s.logger.Info("scenario run saved",
		zap.String("run_id", run.ID),
		zap.Int64("user_id", userID),
		zap.Int64("device_id", req.DeviceID),
		zap.Float64("estimated_savings", report.EstimatedSavings),
	)
	return report, nil
}

// ListRuns returns a user's past runs, newest first.
func (s *ScenarioService) ListRuns(ctx context.Context, userID int64, limit int) ([]models.ScenarioRun, error) {
	if limit <= 0 {
		limit = defaultRunListLimit
	}
	return s.runs.ListByUser(ctx, userID, limit)
}

func propertyOwningDevice(properties []models.Property, deviceID int64) *models.Property {
	for i := range properties {
		for _, device := range properties[i].Devices {
			if device.ID == deviceID {
				return &properties[i]
			}
		}
	}
	return nil
}

// monthWindow returns the calendar month containing ts, in UTC.
func monthWindow(ts time.Time) (time.Time, time.Time) {
	ts = ts.UTC()
	from := time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
