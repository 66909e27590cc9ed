package models

import "time"

// Rate schedule band names. Bands are resolved from the hour of day by the
// engine; a schedule may also carry a single BandStandard flat rate.
const (
	BandPeak     = "peak"
	BandOffPeak  = "off_peak"
	BandStandard = "standard"
)

// Tariff is an energy plan. RateSchedule maps band name to pence per kWh,
// e.g. {"peak": 28.50, "off_peak": 12.75}. StandingChargePD is pence per day.
type Tariff struct {
	ID               int64              `db:"id" json:"tariff_id"`
	ProviderName     string             `db:"provider_name" json:"provider_name"`
	PaymentType      string             `db:"payment_type" json:"payment_type"`
	Region           string             `db:"region" json:"region"`
	StandingChargePD float64            `db:"standing_charge_pd" json:"standing_charge_pd"`
	CarbonScore      int                `db:"carbon_score" json:"carbon_score"`
	RateSchedule     map[string]float64 `db:"rate_schedule" json:"rate_schedule"`
	CreatedAt        time.Time          `db:"created_at" json:"created_at"`
}
