package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/arez-sajeel/Project-Green/internal/engine"
	"github.com/arez-sajeel/Project-Green/internal/repository"
	"github.com/arez-sajeel/Project-Green/internal/service"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: mpan_id required", service.ErrValidation), http.StatusBadRequest},
		{"invalid role", service.ErrInvalidRole, http.StatusBadRequest},
		{"invalid window", service.ErrInvalidWindow, http.StatusBadRequest},
		{"non shiftable", engine.ErrDeviceNotShiftable, http.StatusBadRequest},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("%w: property 5", service.ErrForbidden), http.StatusForbidden},
		{"email in use", service.ErrEmailInUse, http.StatusConflict},
		{"no properties", service.ErrNoProperties, http.StatusNotFound},
		{"no usage data", service.ErrNoUsageData, http.StatusNotFound},
		{"unknown meter", service.ErrUnknownMeter, http.StatusNotFound},
		{"missing property", repository.ErrPropertyNotFound, http.StatusNotFound},
		{"missing device", engine.ErrDeviceNotFound, http.StatusNotFound},
		{"missing tariff", repository.ErrTariffNotFound, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, ok := errorStatus(tc.err)
			if !ok {
				t.Fatalf("expected %v to be a known error", tc.err)
			}
			if status != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, status)
			}
		})
	}

	if _, ok := errorStatus(errors.New("boom")); ok {
		t.Fatal("expected unknown errors to stay unmapped")
	}
}

func TestPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/properties/12", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "12"})

	id, err := pathID(req, "id")
	if err != nil {
		t.Fatalf("pathID: %v", err)
	}
	if id != 12 {
		t.Fatalf("expected 12, got %d", id)
	}

	for _, raw := range []string{"abc", "-3", "0", ""} {
		req := httptest.NewRequest(http.MethodGet, "/properties/x", nil)
		req = mux.SetURLVars(req, map[string]string{"id": raw})
		if _, err := pathID(req, "id"); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestQueryTime(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/usage?from=2025-01-15T18:00:00Z", nil)

	from, err := queryTime(req, "from")
	if err != nil {
		t.Fatalf("queryTime: %v", err)
	}
	want := time.Date(2025, time.January, 15, 18, 0, 0, 0, time.UTC)
	if !from.Equal(want) {
		t.Fatalf("expected %v, got %v", want, from)
	}

	if absent, err := queryTime(req, "to"); err != nil || !absent.IsZero() {
		t.Fatalf("expected zero time for absent param, got %v err %v", absent, err)
	}

	bad := httptest.NewRequest(http.MethodGet, "/usage?from=yesterday", nil)
	if _, err := queryTime(bad, "from"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/runs?limit=25", nil)

	limit, err := queryInt(req, "limit")
	if err != nil {
		t.Fatalf("queryInt: %v", err)
	}
	if limit != 25 {
		t.Fatalf("expected 25, got %d", limit)
	}

	if absent, err := queryInt(req, "offset"); err != nil || absent != 0 {
		t.Fatalf("expected zero for absent param, got %d err %v", absent, err)
	}

	bad := httptest.NewRequest(http.MethodGet, "/runs?limit=lots", nil)
	if _, err := queryInt(bad, "limit"); err == nil {
		t.Fatal("expected parse error")
	}
}
