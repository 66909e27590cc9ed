package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/models"
	"github.com/arez-sajeel/Project-Green/internal/service"
)

// PropertyHandlers serves property CRUD, devices and the session context.
type PropertyHandlers struct {
	properties *service.PropertyService
	logger     *zap.Logger
}

// NewPropertyHandlers returns handler struct.
func NewPropertyHandlers(properties *service.PropertyService, logger *zap.Logger) *PropertyHandlers {
	return &PropertyHandlers{properties: properties, logger: logger}
}

// List handles GET /properties.
func (h *PropertyHandlers) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	properties, err := h.properties.List(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err, "failed to list properties")
		return
	}
	writeJSON(w, http.StatusOK, properties)
}

// Create handles POST /properties.
func (h *PropertyHandlers) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input service.PropertyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	property, err := h.properties.Create(r.Context(), userID, input)
	if err != nil {
		respondError(w, h.logger, err, "failed to create property")
		return
	}
	writeJSON(w, http.StatusCreated, property)
}

// Get handles GET /properties/{id}.
func (h *PropertyHandlers) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	property, err := h.properties.Get(r.Context(), userID, propertyID)
	if err != nil {
		respondError(w, h.logger, err, "failed to load property")
		return
	}
	writeJSON(w, http.StatusOK, property)
}

// Update handles PUT /properties/{id}.
func (h *PropertyHandlers) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var input service.PropertyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	property, err := h.properties.Update(r.Context(), userID, propertyID, input)
	if err != nil {
		respondError(w, h.logger, err, "failed to update property")
		return
	}
	writeJSON(w, http.StatusOK, property)
}

// Patch handles PATCH /properties/{id}. Only fields present in the body are
// changed.
func (h *PropertyHandlers) Patch(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var update models.PropertyUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	property, err := h.properties.Patch(r.Context(), userID, propertyID, update)
	if err != nil {
		respondError(w, h.logger, err, "failed to update property")
		return
	}
	writeJSON(w, http.StatusOK, property)
}

// AddDevice handles POST /properties/{id}/devices.
func (h *PropertyHandlers) AddDevice(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var device models.Device
	if err := json.NewDecoder(r.Body).Decode(&device); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := h.properties.AddDevice(r.Context(), userID, propertyID, &device)
	if err != nil {
		respondError(w, h.logger, err, "failed to add device")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Context handles GET /context: everything the dashboard needs in one call.
func (h *PropertyHandlers) Context(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	userContext, err := h.properties.Context(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err, "failed to build user context")
		return
	}
	writeJSON(w, http.StatusOK, userContext)
}
