package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

const (
	washingMachineID = 1
	ovenID           = 2
	heatPumpID       = 3
)

func testProperty() *models.Property {
	tariffID := int64(201)
	return &models.Property{
		ID:        101,
		Address:   "123 Test Street",
		Location:  "London",
		SqFootage: 1000,
		MPANID:    "12345",
		TariffID:  &tariffID,
		Devices: []models.Device{
			{ID: washingMachineID, PropertyID: 101, Name: "Washing Machine", AverageDrawKW: 1.5, IsShiftable: true},
			{ID: ovenID, PropertyID: 101, Name: "Oven", AverageDrawKW: 3.0, IsShiftable: false},
			{ID: heatPumpID, PropertyID: 101, Name: "Heat Pump", AverageDrawKW: 6.0, IsShiftable: true},
		},
	}
}

func testTariff() *models.Tariff {
	return &models.Tariff{
		ID:               201,
		ProviderName:     "Test Energy",
		PaymentType:      "Direct Debit",
		Region:           "London",
		StandingChargePD: 50.0,
		CarbonScore:      80,
		RateSchedule: map[string]float64{
			models.BandPeak:    30.0,
			models.BandOffPeak: 10.0,
		},
	}
}

func slot(hour int) time.Time {
	return time.Date(2025, 1, 1, hour, 0, 0, 0, time.UTC)
}

func testLogs() []models.UsageLog {
	return []models.UsageLog{
		{MPANID: "12345", Timestamp: slot(18), KWhConsumption: 2.0, KWhCost: 60.0, ReadingType: models.ReadingTypeActual},
		{MPANID: "12345", Timestamp: slot(3), KWhConsumption: 0.5, KWhCost: 5.0, ReadingType: models.ReadingTypeActual},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBandFor(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{0, models.BandOffPeak},
		{3, models.BandOffPeak},
		{6, models.BandOffPeak},
		{7, models.BandPeak},
		{12, models.BandPeak},
		{18, models.BandPeak},
		{22, models.BandPeak},
		{23, models.BandOffPeak},
	}
	for _, tc := range cases {
		if got := BandFor(slot(tc.hour)); got != tc.want {
			t.Errorf("BandFor(hour=%d) = %q, want %q", tc.hour, got, tc.want)
		}
	}
}

func TestBandForNormalisesZone(t *testing.T) {
	// 18:00 in UTC+5 is 13:00 UTC, still peak.
	zone := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2025, 1, 1, 18, 0, 0, 0, zone)
	if got := BandFor(ts); got != models.BandPeak {
		t.Fatalf("BandFor(18:00+05:00) = %q, want %q", got, models.BandPeak)
	}
	// 03:00 in UTC-5 is 08:00 UTC, peak.
	zone = time.FixedZone("UTC-5", -5*3600)
	ts = time.Date(2025, 1, 1, 3, 0, 0, 0, zone)
	if got := BandFor(ts); got != models.BandPeak {
		t.Fatalf("BandFor(03:00-05:00) = %q, want %q", got, models.BandPeak)
	}
}

func TestRateAt(t *testing.T) {
	tariff := testTariff()

	rate, err := RateAt(tariff, slot(18))
	if err != nil {
		t.Fatalf("RateAt peak: %v", err)
	}
	if rate != 30.0 {
		t.Fatalf("peak rate = %v, want 30.0", rate)
	}

	rate, err = RateAt(tariff, slot(3))
	if err != nil {
		t.Fatalf("RateAt off-peak: %v", err)
	}
	if rate != 10.0 {
		t.Fatalf("off-peak rate = %v, want 10.0", rate)
	}
}

func TestRateAtStandardFallback(t *testing.T) {
	tariff := testTariff()
	tariff.RateSchedule = map[string]float64{models.BandStandard: 24.5}

	for _, hour := range []int{3, 18} {
		rate, err := RateAt(tariff, slot(hour))
		if err != nil {
			t.Fatalf("RateAt(hour=%d): %v", hour, err)
		}
		if rate != 24.5 {
			t.Fatalf("RateAt(hour=%d) = %v, want 24.5", hour, rate)
		}
	}
}

func TestRateAtFlatFallback(t *testing.T) {
	tariff := testTariff()
	tariff.RateSchedule = map[string]float64{"fixed": 15.0}

	rate, err := RateAt(tariff, slot(18))
	if err != nil {
		t.Fatalf("RateAt flat: %v", err)
	}
	if rate != 15.0 {
		t.Fatalf("flat rate = %v, want 15.0", rate)
	}
}

func TestRateAtNoUsableRate(t *testing.T) {
	tariff := testTariff()
	tariff.RateSchedule = map[string]float64{"weekend": 5.0, "holiday": 2.0}

	if _, err := RateAt(tariff, slot(18)); !errors.Is(err, ErrNoRate) {
		t.Fatalf("expected ErrNoRate, got %v", err)
	}
}

func TestRunScenarioShiftsLoadToOffPeak(t *testing.T) {
	eng := New(testProperty(), testTariff(), testLogs(), nil)

	report, err := eng.RunScenario(models.ShiftRequest{
		DeviceID:          washingMachineID,
		OriginalTimestamp: slot(18),
		NewTimestamp:      slot(3),
	})
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}

	// Baseline: 2.0 kWh at 30p + 0.5 kWh at 10p = 65p.
	if !almostEqual(report.BaselineCost, 65.0) {
		t.Fatalf("baseline cost = %v, want 65.0", report.BaselineCost)
	}
	// Shifting 0.75 kWh (1.5 kW for half an hour) from peak to off-peak:
	// 1.25*30 + 1.25*10 = 50p.
	if !almostEqual(report.ScenarioCost, 50.0) {
		t.Fatalf("scenario cost = %v, want 50.0", report.ScenarioCost)
	}
	if !almostEqual(report.EstimatedSavings, 15.0) {
		t.Fatalf("estimated savings = %v, want 15.0", report.EstimatedSavings)
	}

	if len(report.PredictedUsageCurve) != 2 {
		t.Fatalf("expected 2 curve points, got %d", len(report.PredictedUsageCurve))
	}
	peak := report.PredictedUsageCurve[0]
	if !peak.Timestamp.Equal(slot(18)) || !almostEqual(peak.KWhConsumption, 1.25) || !almostEqual(peak.KWhCost, 37.5) {
		t.Fatalf("unexpected peak point: %+v", peak)
	}
	offPeak := report.PredictedUsageCurve[1]
	if !offPeak.Timestamp.Equal(slot(3)) || !almostEqual(offPeak.KWhConsumption, 1.25) || !almostEqual(offPeak.KWhCost, 12.5) {
		t.Fatalf("unexpected off-peak point: %+v", offPeak)
	}
}

func TestRunScenarioClampsConsumptionAtZero(t *testing.T) {
	// The heat pump draws 3.0 kWh per slot, more than the 2.0 kWh recorded
	// at 18:00.
	eng := New(testProperty(), testTariff(), testLogs(), nil)

	report, err := eng.RunScenario(models.ShiftRequest{
		DeviceID:          heatPumpID,
		OriginalTimestamp: slot(18),
		NewTimestamp:      slot(3),
	})
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}

	peak := report.PredictedUsageCurve[0]
	if peak.KWhConsumption != 0 || peak.KWhCost != 0 {
		t.Fatalf("expected clamped peak point, got %+v", peak)
	}
	// 0*30 + 3.5*10 = 35p against a 65p baseline.
	if !almostEqual(report.ScenarioCost, 35.0) {
		t.Fatalf("scenario cost = %v, want 35.0", report.ScenarioCost)
	}
	if !almostEqual(report.EstimatedSavings, 30.0) {
		t.Fatalf("estimated savings = %v, want 30.0", report.EstimatedSavings)
	}
}

func TestRunScenarioUnknownDevice(t *testing.T) {
	eng := New(testProperty(), testTariff(), testLogs(), nil)

	_, err := eng.RunScenario(models.ShiftRequest{
		DeviceID:          999,
		OriginalTimestamp: slot(18),
		NewTimestamp:      slot(3),
	})
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
}

func TestRunScenarioNonShiftableDevice(t *testing.T) {
	eng := New(testProperty(), testTariff(), testLogs(), nil)

	_, err := eng.RunScenario(models.ShiftRequest{
		DeviceID:          ovenID,
		OriginalTimestamp: slot(18),
		NewTimestamp:      slot(3),
	})
	if !errors.Is(err, ErrDeviceNotShiftable) {
		t.Fatalf("expected ErrDeviceNotShiftable, got %v", err)
	}
}

func TestRunScenarioSkipsSlotsOutsideWindow(t *testing.T) {
	eng := New(testProperty(), testTariff(), testLogs(), nil)

	// Neither timestamp has a reading, so the curve is left untouched.
	report, err := eng.RunScenario(models.ShiftRequest{
		DeviceID:          washingMachineID,
		OriginalTimestamp: slot(9),
		NewTimestamp:      slot(11),
	})
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	if !almostEqual(report.ScenarioCost, report.BaselineCost) {
		t.Fatalf("scenario cost = %v, want baseline %v", report.ScenarioCost, report.BaselineCost)
	}
	if report.EstimatedSavings != 0 {
		t.Fatalf("estimated savings = %v, want 0", report.EstimatedSavings)
	}
}

func TestRunScenarioMatchesSlotAcrossZones(t *testing.T) {
	eng := New(testProperty(), testTariff(), testLogs(), nil)

	// 19:00 UTC+1 is the 18:00 UTC slot.
	zone := time.FixedZone("UTC+1", 3600)
	report, err := eng.RunScenario(models.ShiftRequest{
		DeviceID:          washingMachineID,
		OriginalTimestamp: time.Date(2025, 1, 1, 19, 0, 0, 0, zone),
		NewTimestamp:      slot(3),
	})
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	if !almostEqual(report.EstimatedSavings, 15.0) {
		t.Fatalf("estimated savings = %v, want 15.0", report.EstimatedSavings)
	}
}

func TestRunScenarioEmptyWindow(t *testing.T) {
	eng := New(testProperty(), testTariff(), nil, nil)

	report, err := eng.RunScenario(models.ShiftRequest{
		DeviceID:          washingMachineID,
		OriginalTimestamp: slot(18),
		NewTimestamp:      slot(3),
	})
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	if report.BaselineCost != 0 || report.ScenarioCost != 0 || report.EstimatedSavings != 0 {
		t.Fatalf("expected zero-cost report, got %+v", report)
	}
	if report.PredictedUsageCurve == nil || len(report.PredictedUsageCurve) != 0 {
		t.Fatalf("expected empty curve, got %v", report.PredictedUsageCurve)
	}
}

func TestRoundPence(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{40.5, 40.5},
		{40.506, 40.51},
		{40.504, 40.5},
		{-1.006, -1.01},
		{0, 0},
	}
	for _, tc := range cases {
		if got := RoundPence(tc.in); !almostEqual(got, tc.want) {
			t.Errorf("RoundPence(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
