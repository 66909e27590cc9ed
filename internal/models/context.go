package models

// UserContext bundles everything a client needs to drive the optimisation
// screens: the caller's visible properties and the tariffs they reference,
// keyed by tariff id for O(1) lookup.
type UserContext struct {
	UserID     string            `json:"user_id"`
	Properties []Property        `json:"properties"`
	Tariffs    map[string]Tariff `json:"tariffs"`
}
