package models

import "time"

// Reading provenance markers carried on every usage log.
const (
	ReadingTypeActual    = "A"
	ReadingTypeSimulated = "S"
)

// UsageLog is a single half-hourly meter reading. KWhCost is precalculated
// at ingest time (pence) from the owning property's tariff so dashboards
// never recost history. Timestamps are stored UTC.
type UsageLog struct {
	ID             int64     `db:"id" json:"id"`
	MPANID         string    `db:"mpan_id" json:"mpan_id"`
	Timestamp      time.Time `db:"ts" json:"timestamp"`
	KWhConsumption float64   `db:"kwh_consumption" json:"kwh_consumption"`
	KWhCost        float64   `db:"kwh_cost" json:"kwh_cost"`
	ReadingType    string    `db:"reading_type" json:"reading_type"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
