package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/service"
)

// TariffHandlers serves the tariff catalogue and assignment.
type TariffHandlers struct {
	tariffs *service.TariffService
	logger  *zap.Logger
}

// NewTariffHandlers returns handler struct.
func NewTariffHandlers(tariffs *service.TariffService, logger *zap.Logger) *TariffHandlers {
	return &TariffHandlers{tariffs: tariffs, logger: logger}
}

// List handles GET /api/tariffs.
func (h *TariffHandlers) List(w http.ResponseWriter, r *http.Request) {
	tariffs, err := h.tariffs.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "failed to list tariffs")
		return
	}
	writeJSON(w, http.StatusOK, tariffs)
}

// Assign handles POST /api/user/tariff. Homeowners may omit property_id to
// target their primary property; managers must name one.
func (h *TariffHandlers) Assign(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		TariffID   int64  `json:"tariff_id"`
		PropertyID *int64 `json:"property_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TariffID <= 0 {
		writeError(w, http.StatusBadRequest, "tariff_id is required")
		return
	}

	property, err := h.tariffs.Assign(r.Context(), userID, req.PropertyID, req.TariffID)
	if err != nil {
		respondError(w, h.logger, err, "failed to assign tariff")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Tariff assigned",
		"property_id": property.ID,
		"tariff_id":   req.TariffID,
	})
}
