// Package engine implements the load-shifting optimiser. An Engine is built
// per request from a property, its tariff and a window of half-hourly usage
// readings, and prices what-if scenarios against that data.
package engine

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

var (
	// ErrDeviceNotFound indicates the requested device is not attached to
	// the engine's property.
	ErrDeviceNotFound = errors.New("device not found in property")
	// ErrDeviceNotShiftable indicates the device cannot be moved to another
	// time slot.
	ErrDeviceNotShiftable = errors.New("device is not shiftable")
)

// Readings are half-hourly, so a device running for one slot consumes
// average draw times half an hour.
const slotHours = 0.5

// Engine prices load-shifting scenarios for a single property.
type Engine struct {
	property *models.Property
	tariff   *models.Tariff
	logs     []models.UsageLog
	logger   *zap.Logger
}

// New returns an engine over the given context and usage window.
func New(property *models.Property, tariff *models.Tariff, logs []models.UsageLog, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		property: property,
		tariff:   tariff,
		logs:     logs,
		logger:   logger,
	}
}

// RunScenario simulates moving a device's load from one half-hour slot to
// another and reports the cost difference. Slots outside the usage window are
// skipped with a warning rather than failing the run, matching how sparse
// meter data behaves in practice.
func (e *Engine) RunScenario(req models.ShiftRequest) (*models.OptimisationReport, error) {
	device, err := e.validateShift(req.DeviceID)
	if err != nil {
		return nil, err
	}

	baseline, err := e.buildCurve()
	if err != nil {
		return nil, err
	}
	baselineCost := baseline.totalCost()

	scenario := baseline.clone()
	energyKWh := device.AverageDrawKW * slotHours
	if err := e.subtractLoad(scenario, energyKWh, req.OriginalTimestamp); err != nil {
		return nil, err
	}
	if err := e.addLoad(scenario, energyKWh, req.NewTimestamp); err != nil {
		return nil, err
	}
	scenarioCost := scenario.totalCost()

	savings := RoundPence(baselineCost - scenarioCost)
	e.logger.Info("scenario priced",
		zap.Int64("device_id", device.ID),
		zap.Float64("baseline_cost", baselineCost),
		zap.Float64("scenario_cost", scenarioCost),
		zap.Float64("estimated_savings", savings),
	)

	return &models.OptimisationReport{
		EstimatedSavings:    savings,
		BaselineCost:        baselineCost,
		ScenarioCost:        scenarioCost,
		PredictedUsageCurve: scenario.points,
	}, nil
}

func (e *Engine) validateShift(deviceID int64) (*models.Device, error) {
	for i := range e.property.Devices {
		device := &e.property.Devices[i]
		if device.ID != deviceID {
			continue
		}
		if !device.IsShiftable {
			return nil, fmt.Errorf("%w: %s", ErrDeviceNotShiftable, device.Name)
		}
		return device, nil
	}
	return nil, fmt.Errorf("%w: device %d", ErrDeviceNotFound, deviceID)
}

// curve is a usage series indexed by slot timestamp. Points keep the order
// the readings arrived in.
type curve struct {
	points []models.UsagePoint
	index  map[int64]int
}

// buildCurve prices every reading in the window with the engine's tariff.
// Stored costs are ignored so stale tariff assignments cannot skew a run.
func (e *Engine) buildCurve() (*curve, error) {
	c := &curve{
		points: make([]models.UsagePoint, 0, len(e.logs)),
		index:  make(map[int64]int, len(e.logs)),
	}
	if len(e.logs) == 0 {
		e.logger.Warn("no usage readings in scenario window", zap.String("mpan_id", e.property.MPANID))
		return c, nil
	}
	for _, log := range e.logs {
		ts := log.Timestamp.UTC()
		cost, err := PointCost(e.tariff, log.KWhConsumption, ts)
		if err != nil {
			return nil, err
		}
		c.index[ts.Unix()] = len(c.points)
		c.points = append(c.points, models.UsagePoint{
			Timestamp:      ts,
			KWhConsumption: log.KWhConsumption,
			KWhCost:        cost,
		})
	}
	return c, nil
}

func (e *Engine) subtractLoad(c *curve, energyKWh float64, ts time.Time) error {
	point, ok := c.at(ts)
	if !ok {
		e.logger.Warn("timestamp not in usage curve, skipping subtraction", zap.Time("ts", ts))
		return nil
	}
	kwh := point.KWhConsumption - energyKWh
	if kwh < 0 {
		kwh = 0
	}
	return e.reprice(point, kwh)
}

func (e *Engine) addLoad(c *curve, energyKWh float64, ts time.Time) error {
	point, ok := c.at(ts)
	if !ok {
		e.logger.Warn("timestamp not in usage curve, skipping addition", zap.Time("ts", ts))
		return nil
	}
	return e.reprice(point, point.KWhConsumption+energyKWh)
}

func (e *Engine) reprice(point *models.UsagePoint, kwh float64) error {
	cost, err := PointCost(e.tariff, kwh, point.Timestamp)
	if err != nil {
		return err
	}
	point.KWhConsumption = kwh
	point.KWhCost = cost
	return nil
}

func (c *curve) at(ts time.Time) (*models.UsagePoint, bool) {
	i, ok := c.index[ts.UTC().Unix()]
	if !ok {
		return nil, false
	}
	return &c.points[i], true
}

func (c *curve) totalCost() float64 {
	var total float64
	for _, point := range c.points {
		total += point.KWhCost
	}
	return total
}

func (c *curve) clone() *curve {
	clone := &curve{
		points: make([]models.UsagePoint, len(c.points)),
		index:  make(map[int64]int, len(c.index)),
	}
	copy(clone.points, c.points)
	for k, v := range c.index {
		clone.index[k] = v
	}
	return clone
}
