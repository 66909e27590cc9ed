package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

// ErrNoRate indicates a tariff whose schedule has no usable rate for the
// requested time.
var ErrNoRate = errors.New("no rate for time band")

const (
	offPeakStartHour = 23
	offPeakEndHour   = 7
)

// BandFor maps a timestamp to the tariff band it falls in. Half-hourly
// readings between 23:00 and 07:00 UTC are off-peak, the rest peak.
func BandFor(ts time.Time) string {
	hour := ts.UTC().Hour()
	if hour >= offPeakStartHour || hour < offPeakEndHour {
		return models.BandOffPeak
	}
	return models.BandPeak
}

// RateAt resolves the pence-per-kWh rate a tariff charges at the given time.
// Schedules missing the computed band fall back to a "standard" entry, then
// to a single flat rate if that is all the schedule holds.
func RateAt(tariff *models.Tariff, ts time.Time) (float64, error) {
	band := BandFor(ts)
	if rate, ok := tariff.RateSchedule[band]; ok {
		return rate, nil
	}
	if rate, ok := tariff.RateSchedule[models.BandStandard]; ok {
		return rate, nil
	}
	if len(tariff.RateSchedule) == 1 {
		for _, rate := range tariff.RateSchedule {
			return rate, nil
		}
	}
	return 0, fmt.Errorf("%w: tariff %d band %q", ErrNoRate, tariff.ID, band)
}

// PointCost prices a single reading in pence.
func PointCost(tariff *models.Tariff, kwh float64, ts time.Time) (float64, error) {
	rate, err := RateAt(tariff, ts)
	if err != nil {
		return 0, err
	}
	return kwh * rate, nil
}

// RoundPence rounds a pence amount to two decimal places.
func RoundPence(v float64) float64 {
	return math.Round(v*100) / 100
}
