// Package http provides the backend's HTTP handlers: the role login
// endpoints and the hospital directory API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medicnotes/medicnotes/internal/models"
	"github.com/medicnotes/medicnotes/internal/repository"
	"github.com/medicnotes/medicnotes/internal/service"
)

// LoginService verifies credentials and issues tokens. Implemented by
// service.AuthService.
type LoginService interface {
	Login(ctx context.Context, role models.Role, req service.LoginRequest) (service.LoginResult, error)
}

// AuthHandler handles HTTP requests for role logins.
type AuthHandler struct {
	// AuthService performs the underlying credential verification.
	AuthService LoginService
}

// loginResponse is the success body: the issued token plus a nested user
// object.
type loginResponse struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

// LoginFor returns the handler for one role's login endpoint. The payload
// carries exactly one identifier field (email, phone, or the role-scoped
// id) and a password.
func (h *AuthHandler) LoginFor(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		result, err := h.AuthService.Login(r.Context(), role, req)
		if err != nil {
			respondError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{Token: result.Token, User: result.User})
	}
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends a JSON error body of the form {"message": ...}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// respondError maps service and repository errors onto HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, models.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, models.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrAccountInactive):
		writeError(w, http.StatusForbidden, "account is inactive")
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
