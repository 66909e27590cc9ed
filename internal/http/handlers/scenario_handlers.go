package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/models"
	"github.com/arez-sajeel/Project-Green/internal/service"
)

// ScenarioHandlers serves load-shift what-if runs.
type ScenarioHandlers struct {
	scenarios *service.ScenarioService
	logger    *zap.Logger
}

// NewScenarioHandlers returns handler struct.
func NewScenarioHandlers(scenarios *service.ScenarioService, logger *zap.Logger) *ScenarioHandlers {
	return &ScenarioHandlers{scenarios: scenarios, logger: logger}
}

// Run handles POST /scenario/run.
func (h *ScenarioHandlers) Run(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req models.ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DeviceID <= 0 {
		writeError(w, http.StatusBadRequest, "device_id is required")
		return
	}

	report, err := h.scenarios.Run(r.Context(), userID, req)
	if err != nil {
		respondError(w, h.logger, err, "failed to run scenario")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ListRuns handles GET /scenario/runs.
func (h *ScenarioHandlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	runs, err := h.scenarios.ListRuns(r.Context(), userID, limit)
	if err != nil {
		respondError(w, h.logger, err, "failed to list scenario runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}
