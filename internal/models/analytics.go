package models

import "time"

// DeviceBreakdown is a device's estimated share of a property's usage.
// Logs are metered per property, not per device, so shares are pro-rata
// by average draw.
type DeviceBreakdown struct {
	DeviceID int64   `json:"id"`
	Name     string  `json:"name"`
	KWh      float64 `json:"kwh"`
}

// PropertyAnalytics aggregates a property's usage over a window.
type PropertyAnalytics struct {
	PropertyID int64             `json:"property_id"`
	From       time.Time         `json:"from"`
	To         time.Time         `json:"to"`
	TotalKWh   float64           `json:"total_kwh"`
	TotalCost  float64           `json:"total_cost"`
	Devices    []DeviceBreakdown `json:"devices"`
}

// DeviceUsage is the estimated usage of a single device over a window.
type DeviceUsage struct {
	DeviceID  int64   `json:"device_id"`
	Name      string  `json:"name"`
	TotalKWh  float64 `json:"total_kwh"`
	TotalCost float64 `json:"total_cost"`
}
