package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/engine"
	"github.com/arez-sajeel/Project-Green/internal/http/middleware"
	"github.com/arez-sajeel/Project-Green/internal/repository"
	"github.com/arez-sajeel/Project-Green/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps known service errors onto HTTP statuses.
func errorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrPropertyRequired),
		errors.Is(err, service.ErrInvalidWindow),
		errors.Is(err, engine.ErrDeviceNotShiftable):
		return http.StatusBadRequest, true
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, true
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, service.ErrEmailInUse):
		return http.StatusConflict, true
	case errors.Is(err, service.ErrNoProperties),
		errors.Is(err, service.ErrNoUsageData),
		errors.Is(err, service.ErrUnknownMeter),
		errors.Is(err, engine.ErrDeviceNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrPropertyNotFound),
		errors.Is(err, repository.ErrDeviceNotFound),
		errors.Is(err, repository.ErrTariffNotFound):
		return http.StatusNotFound, true
	default:
		return 0, false
	}
}

// respondError writes known service errors with their mapped status and
// masks everything else as a 500 carrying the fallback message.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	if status, ok := errorStatus(err); ok {
		writeError(w, status, err.Error())
		return
	}
	logger.Error(fallback, zap.Error(err))
	writeError(w, http.StatusInternalServerError, fallback)
}

// currentUserID pulls the authenticated user from the request context. A
// missing id means the route was not wrapped in the auth middleware.
func currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return 0, false
	}
	return userID, true
}

// pathID extracts a numeric path variable.
func pathID(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return id, nil
}

// queryTime parses an RFC 3339 query parameter, zero when absent.
func queryTime(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp", key)
	}
	return ts, nil
}

// queryInt parses an integer query parameter, zero when absent.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
