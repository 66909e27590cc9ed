package models

import "time"

// ShiftRequest is a proposed load shift: move the device's half-hour draw
// from OriginalTimestamp to NewTimestamp.
type ShiftRequest struct {
	DeviceID          int64     `json:"device_id"`
	OriginalTimestamp time.Time `json:"original_timestamp"`
	NewTimestamp      time.Time `json:"new_timestamp"`
}

// UsagePoint is one entry of a (baseline or predicted) usage curve.
type UsagePoint struct {
	Timestamp      time.Time `json:"timestamp"`
	KWhConsumption float64   `json:"kwh_consumption"`
	KWhCost        float64   `json:"kwh_cost"`
}

// OptimisationReport is the outcome of a scenario run. Costs are pence;
// EstimatedSavings is rounded to two decimal places.
type OptimisationReport struct {
	RunID               string       `json:"run_id,omitempty"`
	EstimatedSavings    float64      `json:"estimated_savings"`
	BaselineCost        float64      `json:"baseline_cost"`
	ScenarioCost        float64      `json:"scenario_cost"`
	PredictedUsageCurve []UsagePoint `json:"predicted_usage_curve"`
}

// ScenarioRun is the persisted record of one optimisation run.
type ScenarioRun struct {
	ID                string    `db:"id" json:"run_id"`
	UserID            int64     `db:"user_id" json:"user_id"`
	PropertyID        int64     `db:"property_id" json:"property_id"`
	DeviceID          int64     `db:"device_id" json:"device_id"`
	OriginalTimestamp time.Time `db:"original_ts" json:"original_timestamp"`
	NewTimestamp      time.Time `db:"new_ts" json:"new_timestamp"`
	BaselineCost      float64   `db:"baseline_cost" json:"baseline_cost"`
	ScenarioCost      float64   `db:"scenario_cost" json:"scenario_cost"`
	EstimatedSavings  float64   `db:"estimated_savings" json:"estimated_savings"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
