package models

import "time"

// Device is a high-draw appliance attached to a property. Only shiftable
// devices may be moved between tariff bands by the optimisation engine.
type Device struct {
	ID            int64     `db:"id" json:"device_id"`
	PropertyID    int64     `db:"property_id" json:"property_id"`
	Name          string    `db:"name" json:"device_name"`
	AverageDrawKW float64   `db:"average_draw_kw" json:"average_draw_kW"`
	IsShiftable   bool      `db:"is_shiftable" json:"is_shiftable"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Property is a metered building. MPANID identifies its electricity meter;
// every usage log is keyed by it. OwnerUserID is set for homeowner-created
// properties, PortfolioID for managed ones; a property may carry both.
type Property struct {
	ID          int64     `db:"id" json:"property_id"`
	Address     string    `db:"address" json:"address"`
	Location    string    `db:"location" json:"location"`
	SqFootage   int       `db:"sq_footage" json:"sq_footage"`
	MPANID      string    `db:"mpan_id" json:"mpan_id"`
	TariffID    *int64    `db:"tariff_id" json:"tariff_id"`
	PortfolioID *int64    `db:"portfolio_id" json:"portfolio_id"`
	OwnerUserID *int64    `db:"owner_user_id" json:"owner_user_id"`
	Devices     []Device  `db:"-" json:"devices"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PropertyUpdate carries a partial update; nil fields are left unchanged.
type PropertyUpdate struct {
	Address     *string `json:"address"`
	Location    *string `json:"location"`
	SqFootage   *int    `json:"sq_footage"`
	MPANID      *string `json:"mpan_id"`
	TariffID    *int64  `json:"tariff_id"`
	PortfolioID *int64  `json:"portfolio_id"`
}

// Empty reports whether the patch would change nothing.
func (u PropertyUpdate) Empty() bool {
	return u.Address == nil && u.Location == nil && u.SqFootage == nil &&
		u.MPANID == nil && u.TariffID == nil && u.PortfolioID == nil
}
