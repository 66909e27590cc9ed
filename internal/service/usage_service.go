package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/engine"
	"github.com/arez-sajeel/Project-Green/internal/models"
	redisstore "github.com/arez-sajeel/Project-Green/internal/redis"
	"github.com/arez-sajeel/Project-Green/internal/repository"
)

// MeterReading is a raw half-hourly reading before it is costed and stored.
type MeterReading struct {
	MPANID         string    `json:"mpan_id"`
	Timestamp      time.Time `json:"timestamp"`
	KWhConsumption float64   `json:"kwh_consumption"`
	ReadingType    string    `json:"reading_type"`
}

// UsageEvent is the message fanned out to live usage streams.
type UsageEvent struct {
	MPANID         string    `json:"mpan_id"`
	Timestamp      time.Time `json:"timestamp"`
	KWhConsumption float64   `json:"kwh_consumption"`
	KWhCost        float64   `json:"kwh_cost"`
	ReadingType    string    `json:"reading_type"`
}

// Publisher pushes usage events to live subscribers.
type Publisher interface {
	Publish(mpanID string, payload []byte)
}

// UsageService ingests meter readings and serves usage history.
type UsageService struct {
	users      UserRepository
	properties PropertyRepository
	tariffs    TariffRepository
	usage      UsageRepository
	publisher  Publisher
	lastStore  *redisstore.LastReadingStore
	logger     *zap.Logger
}

// NewUsageService builds UsageService. Publisher and lastStore may be nil
// when streaming or redis are disabled.
func NewUsageService(users UserRepository, properties PropertyRepository, tariffs TariffRepository, usage UsageRepository, publisher Publisher, lastStore *redisstore.LastReadingStore, logger *zap.Logger) *UsageService {
	return &UsageService{
		users:      users,
		properties: properties,
		tariffs:    tariffs,
		usage:      usage,
		publisher:  publisher,
		lastStore:  lastStore,
		logger:     logger,
	}
}

// Record costs a reading against the property's tariff, stores it and fans
// it out to live subscribers. Duplicate readings for a slot are dropped.
func (s *UsageService) Record(ctx context.Context, reading MeterReading) (*models.UsageLog, bool, error) {
	mpanID := strings.TrimSpace(reading.MPANID)
	if mpanID == "" {
		return nil, false, fmt.Errorf("%w: mpan_id required", ErrValidation)
	}
	if reading.Timestamp.IsZero() {
		return nil, false, fmt.Errorf("%w: timestamp required", ErrValidation)
	}
	if reading.KWhConsumption < 0 {
		return nil, false, fmt.Errorf("%w: consumption must not be negative", ErrValidation)
	}
	readingType := reading.ReadingType
	if readingType == "" {
		readingType = models.ReadingTypeActual
	}
	if readingType != models.ReadingTypeActual && readingType != models.ReadingTypeSimulated {
		return nil, false, fmt.Errorf("%w: unknown reading type %q", ErrValidation, readingType)
	}

	property, err := s.properties.GetByMPAN(ctx, mpanID)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return nil, false, fmt.Errorf("%w: %s", ErrUnknownMeter, mpanID)
		}
		return nil, false, err
	}

	var cost float64
	if property.TariffID != nil {
		tariff, err := s.tariffs.GetByID(ctx, *property.TariffID)
		if err != nil {
			return nil, false, err
		}
		cost, err = engine.PointCost(tariff, reading.KWhConsumption, reading.Timestamp)
		if err != nil {
			return nil, false, err
		}
		cost = engine.RoundPence(cost)
	} else {
		s.logger.Warn("property has no tariff, storing zero cost",
			zap.Int64("property_id", property.ID),
			zap.String("mpan_id", mpanID),
		)
	}

	log := &models.UsageLog{
		MPANID:         mpanID,
		Timestamp:      reading.Timestamp.UTC(),
		KWhConsumption: reading.KWhConsumption,
		KWhCost:        cost,
		ReadingType:    readingType,
	}
	inserted, err := s.usage.Insert(ctx, log)
	if err != nil {
		return nil, false, err
	}
	if !inserted {
		s.logger.Debug("duplicate reading dropped",
			zap.String("mpan_id", mpanID),
			zap.Time("ts", log.Timestamp),
		)
		return log, false, nil
	}

	s.broadcast(ctx, log)
	return log, true, nil
}

// ListForProperty returns a property's readings within a window, oldest
// first. The window defaults to the last 24 hours.
func (s *UsageService) ListForProperty(ctx context.Context, userID, propertyID int64, from, to time.Time, limit int) ([]models.UsageLog, error) {
	property, err := s.authorisedProperty(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}

	from, to, err = normaliseWindow(from, to, 24*time.Hour)
	if err != nil {
		return nil, err
	}

	return s.usage.ListByMPAN(ctx, property.MPANID, from, to, limit)
}

// Snapshot returns the latest cached reading for a meter as a stream
// payload, or nil when nothing is cached.
func (s *UsageService) Snapshot(ctx context.Context, mpanID string) []byte {
	if s.lastStore == nil {
		return nil
	}
	last, err := s.lastStore.Get(ctx, mpanID)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("last reading lookup failed", zap.String("mpan_id", mpanID), zap.Error(err))
		}
		return nil
	}
	payload, err := json.Marshal(UsageEvent{
		MPANID:         last.MPANID,
		Timestamp:      last.Timestamp,
		KWhConsumption: last.KWhConsumption,
		KWhCost:        last.KWhCost,
		ReadingType:    last.ReadingType,
	})
	if err != nil {
		return nil
	}
	return payload
}

func (s *UsageService) broadcast(ctx context.Context, log *models.UsageLog) {
	event := UsageEvent{
		MPANID:         log.MPANID,
		Timestamp:      log.Timestamp,
		KWhConsumption: log.KWhConsumption,
		KWhCost:        log.KWhCost,
		ReadingType:    log.ReadingType,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal usage event", zap.Error(err))
		return
	}

	if s.publisher != nil {
		s.publisher.Publish(log.MPANID, payload)
	}
	if s.lastStore != nil {
		err := s.lastStore.Save(ctx, redisstore.LastReading{
			MPANID:         log.MPANID,
			Timestamp:      log.Timestamp,
			KWhConsumption: log.KWhConsumption,
			KWhCost:        log.KWhCost,
			ReadingType:    log.ReadingType,
		})
		if err != nil {
			s.logger.Warn("cache last reading", zap.String("mpan_id", log.MPANID), zap.Error(err))
		}
	}
}

func (s *UsageService) authorisedProperty(ctx context.Context, userID, propertyID int64) (*models.Property, error) {
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
