package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arez-sajeel/Project-Green/internal/http/handlers"
	"github.com/arez-sajeel/Project-Green/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers      *handlers.AuthHandlers
	PropertyHandlers  *handlers.PropertyHandlers
	TariffHandlers    *handlers.TariffHandlers
	UsageHandlers     *handlers.UsageHandlers
	AnalyticsHandlers *handlers.AnalyticsHandlers
	ScenarioHandlers  *handlers.ScenarioHandlers
	HealthHandler     http.HandlerFunc
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps, authMiddleware func(http.Handler) http.Handler) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", deps.HealthHandler).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", deps.AuthHandlers.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", deps.AuthHandlers.Login).Methods(http.MethodPost)

	r.HandleFunc("/api/tariffs", deps.TariffHandlers.List).Methods(http.MethodGet)

	// Meters push readings here. The endpoint is meant for the private
	// network and carries no user token.
	r.HandleFunc("/internal/meter-readings", deps.UsageHandlers.Ingest).Methods(http.MethodPost)

	authenticated := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, authMiddleware)
	}

	r.Handle("/auth/me", authenticated(deps.AuthHandlers.Me)).Methods(http.MethodGet)
	r.Handle("/auth/update-role", authenticated(deps.AuthHandlers.UpdateRole)).Methods(http.MethodPut)

	r.Handle("/context", authenticated(deps.PropertyHandlers.Context)).Methods(http.MethodGet)

	r.Handle("/properties", authenticated(deps.PropertyHandlers.List)).Methods(http.MethodGet)
	r.Handle("/properties", authenticated(deps.PropertyHandlers.Create)).Methods(http.MethodPost)
	r.Handle("/properties/{id}", authenticated(deps.PropertyHandlers.Get)).Methods(http.MethodGet)
	r.Handle("/properties/{id}", authenticated(deps.PropertyHandlers.Update)).Methods(http.MethodPut)
	r.Handle("/properties/{id}", authenticated(deps.PropertyHandlers.Patch)).Methods(http.MethodPatch)
	r.Handle("/properties/{id}/devices", authenticated(deps.PropertyHandlers.AddDevice)).Methods(http.MethodPost)
	r.Handle("/properties/{id}/usage", authenticated(deps.UsageHandlers.List)).Methods(http.MethodGet)
	r.Handle("/properties/{id}/usage/live", authenticated(deps.UsageHandlers.Live)).Methods(http.MethodGet)
	r.Handle("/properties/{id}/analytics", authenticated(deps.AnalyticsHandlers.Property)).Methods(http.MethodGet)

	r.Handle("/devices/{id}/usage", authenticated(deps.AnalyticsHandlers.Device)).Methods(http.MethodGet)

	r.Handle("/api/user/tariff", authenticated(deps.TariffHandlers.Assign)).Methods(http.MethodPost)

	r.Handle("/scenario/run", authenticated(deps.ScenarioHandlers.Run)).Methods(http.MethodPost)
	r.Handle("/scenario/runs", authenticated(deps.ScenarioHandlers.ListRuns)).Methods(http.MethodGet)

	return r
}
