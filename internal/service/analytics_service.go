package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/engine"
	"github.com/arez-sajeel/Project-Green/internal/models"
	redisstore "github.com/arez-sajeel/Project-Green/internal/redis"
)

// AnalyticsService aggregates usage into dashboard figures. Whole-property
// totals come straight from usage_logs; per-device figures are apportioned
// by each device's share of the property's average draw, since meters only
// measure the property as a whole.
type AnalyticsService struct {
	users      UserRepository
	properties PropertyRepository
	devices    DeviceRepository
	usage      UsageRepository
	cache      *redisstore.AnalyticsCache
	logger     *zap.Logger
}

// NewAnalyticsService builds AnalyticsService. The cache may be nil when
// redis is disabled.
func NewAnalyticsService(users UserRepository, properties PropertyRepository, devices DeviceRepository, usage UsageRepository, cache *redisstore.AnalyticsCache, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		users:      users,
		properties: properties,
		devices:    devices,
		usage:      usage,
		cache:      cache,
		logger:     logger,
	}
}

// PropertyAnalytics returns totals and a per-device breakdown for a window.
// The window defaults to the last 30 days.
func (s *AnalyticsService) PropertyAnalytics(ctx context.Context, userID, propertyID int64, from, to time.Time) (*models.PropertyAnalytics, error) {
	property, err := s.authorisedProperty(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}

	from, to, err = normaliseWindow(from, to, 30*24*time.Hour)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, property.ID, from, to)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("analytics cache lookup failed", zap.Int64("property_id", property.ID), zap.Error(err))
		}
	}

	totalKWh, totalCost, err := s.usage.Totals(ctx, property.MPANID, from, to)
	if err != nil {
		return nil, err
	}

	deviceList, err := s.devices.ListByProperty(ctx, property.ID)
	if err != nil {
		return nil, err
	}
	breakdown := apportion(deviceList, totalKWh)

	analytics := &models.PropertyAnalytics{
		PropertyID: property.ID,
		From:       from,
		To:         to,
		TotalKWh:   round2(totalKWh),
		TotalCost:  engine.RoundPence(totalCost),
		Devices:    breakdown,
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, *analytics); err != nil {
			s.logger.Warn("analytics cache save failed", zap.Int64("property_id", property.ID), zap.Error(err))
		}
	}
	return analytics, nil
}

// DeviceUsage returns one device's apportioned share of its property's
// usage over a window.
func (s *AnalyticsService) DeviceUsage(ctx context.Context, userID, deviceID int64, from, to time.Time) (*models.DeviceUsage, error) {
	device, err := s.devices.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	property, err := s.authorisedProperty(ctx, userID, device.PropertyID)
	if err != nil {
		return nil, err
	}

	from, to, err = normaliseWindow(from, to, 30*24*time.Hour)
	if err != nil {
		return nil, err
	}

	totalKWh, totalCost, err := s.usage.Totals(ctx, property.MPANID, from, to)
	if err != nil {
		return nil, err
	}

	siblings, err := s.devices.ListByProperty(ctx, property.ID)
	if err != nil {
		return nil, err
	}
	share := drawShare(siblings, device.ID)

	return &models.DeviceUsage{
		DeviceID:  device.ID,
		Name:      device.Name,
		TotalKWh:  round2(totalKWh * share),
		TotalCost: engine.RoundPence(totalCost * share),
	}, nil
}

func (s *AnalyticsService) authorisedProperty(ctx context.Context, userID, propertyID int64) (*models.Property, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !canAccessProperty(user, property) {
		return nil, fmt.Errorf("%w: property %d", ErrForbidden, propertyID)
	}
	return property, nil
}

// apportion splits a property total across devices by average draw.
func apportion(devices []models.Device, totalKWh float64) []models.DeviceBreakdown {
	breakdown := make([]models.DeviceBreakdown, 0, len(devices))
	var totalDraw float64
	for _, device := range devices {
		totalDraw += device.AverageDrawKW
	}
	for _, device := range devices {
		var kwh float64
		if totalDraw > 0 {
			kwh = totalKWh * device.AverageDrawKW / totalDraw
		}
		breakdown = append(breakdown, models.DeviceBreakdown{
			DeviceID: device.ID,
			Name:     device.Name,
			KWh:      round2(kwh),
		})
	}
	return breakdown
}

func drawShare(devices []models.Device, deviceID int64) float64 {
	var totalDraw, deviceDraw float64
	for _, device := range devices {
		totalDraw += device.AverageDrawKW
		if device.ID == deviceID {
			deviceDraw = device.AverageDrawKW
		}
	}
	if totalDraw <= 0 {
		return 0
	}
	return deviceDraw / totalDraw
}

func normaliseWindow(from, to time.Time, span time.Duration) (time.Time, time.Time, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.Add(-span)
	}
	from, to = from.UTC(), to.UTC()
	if !from.Before(to) {
		return from, to, fmt.Errorf("%w: from %s is not before to %s", ErrInvalidWindow,
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return from, to, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
