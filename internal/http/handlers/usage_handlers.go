package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/service"
	"github.com/arez-sajeel/Project-Green/internal/ws"
)

// UsageHandlers serves usage history, the live meter stream and the
// internal reading ingest endpoint.
type UsageHandlers struct {
	usage      *service.UsageService
	properties *service.PropertyService
	stream     *ws.Stream
	logger     *zap.Logger
}

// NewUsageHandlers returns handler struct. stream may be nil when live
// streaming is disabled.
func NewUsageHandlers(usage *service.UsageService, properties *service.PropertyService, stream *ws.Stream, logger *zap.Logger) *UsageHandlers {
	return &UsageHandlers{usage: usage, properties: properties, stream: stream, logger: logger}
}

// List handles GET /properties/{id}/usage.
func (h *UsageHandlers) List(w http.ResponseWriter, r *http.Request) {
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
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logs, err := h.usage.ListForProperty(r.Context(), userID, propertyID, from, to, limit)
	if err != nil {
		respondError(w, h.logger, err, "failed to list usage")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// Live handles GET /properties/{id}/usage/live. Access is checked before
// the WebSocket upgrade; the latest cached reading is sent on connect.
func (h *UsageHandlers) Live(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.stream == nil {
		writeError(w, http.StatusServiceUnavailable, "live usage stream is disabled")
		return
	}

	property, err := h.properties.Get(r.Context(), userID, propertyID)
	if err != nil {
		respondError(w, h.logger, err, "failed to open usage stream")
		return
	}

	snapshot := h.usage.Snapshot(r.Context(), property.MPANID)
	h.stream.Serve(w, r, property.MPANID, snapshot)
}

// Ingest handles POST /internal/meter-readings. It is the HTTP twin of the
// MQTT subscriber, for meters that push over plain HTTP.
func (h *UsageHandlers) Ingest(w http.ResponseWriter, r *http.Request) {
	var reading service.MeterReading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	log, inserted, err := h.usage.Record(r.Context(), reading)
	if err != nil {
		respondError(w, h.logger, err, "failed to record reading")
		return
	}
	if !inserted {
		writeJSON(w, http.StatusOK, log)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}
