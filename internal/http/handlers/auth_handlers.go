package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/service"
)

// AuthHandlers serves registration, login and account endpoints.
type AuthHandlers struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(auth *service.AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{auth: auth, logger: logger}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles POST /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	_, token, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		respondError(w, h.logger, err, "failed to register")
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Login handles POST /auth/login. It accepts a JSON body or an OAuth2-style
// form with username/password fields.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	email, password, ok := loginCredentials(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid login body")
		return
	}
	if email == "" || password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, _, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "incorrect email or password")
			return
		}
		respondError(w, h.logger, err, "failed to login")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func loginCredentials(r *http.Request) (email, password string, ok bool) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		return strings.TrimSpace(r.PostFormValue("username")), r.PostFormValue("password"), true
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", "", false
	}
	return strings.TrimSpace(req.Email), req.Password, true
}

// Me handles GET /auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.auth.Me(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err, "failed to load account")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateRole handles PUT /auth/update-role.
func (h *AuthHandlers) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.auth.UpdateRole(r.Context(), userID, req.Role)
	if err != nil {
		respondError(w, h.logger, err, "failed to update role")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Role updated",
		"role":    user.Role,
	})
}
