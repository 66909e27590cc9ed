package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/service"
)

// AnalyticsHandlers serves usage aggregates.
type AnalyticsHandlers struct {
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

// NewAnalyticsHandlers returns handler struct.
func NewAnalyticsHandlers(analytics *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandlers {
	return &AnalyticsHandlers{analytics: analytics, logger: logger}
}

// Property handles GET /properties/{id}/analytics.
func (h *AnalyticsHandlers) Property(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	from, err := queryTime(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analytics, err := h.analytics.PropertyAnalytics(r.Context(), userID, propertyID, from, to)
	if err != nil {
		respondError(w, h.logger, err, "failed to build analytics")
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

// Device handles GET /devices/{id}/usage.
func (h *AnalyticsHandlers) Device(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	deviceID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	from, err := queryTime(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	usage, err := h.analytics.DeviceUsage(r.Context(), userID, deviceID, from, to)
	if err != nil {
		respondError(w, h.logger, err, "failed to build device usage")
		return
	}
	writeJSON(w, http.StatusOK, usage)
}
