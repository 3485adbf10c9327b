// Package server provides the HTTP REST API for the freight intake agent.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/freight-agent/internal/resource"
	"github.com/jonathan/freight-agent/internal/types"
)

// RemoteAuthenticator verifies credentials against the remote person
// directory and returns the operator's identity with a service token.
type RemoteAuthenticator interface {
	Login(ctx context.Context, username, password string) (*types.Identity, error)
}

// AuthHandler handles authentication-related HTTP requests. Credentials are
// verified remotely; on success the service token is handed to onLogin so
// collection clients can use it, and a local API token is issued for this
// server's protected routes.
type AuthHandler struct {
	auth       RemoteAuthenticator
	jwtService *JWTService
	validator  *validator.Validate
	onLogin    func(serviceToken string)
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// onLogin may be nil.
func NewAuthHandler(auth RemoteAuthenticator, jwtService *JWTService, onLogin func(serviceToken string)) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		jwtService: jwtService,
		validator:  validator.New(),
		onLogin:    onLogin,
	}
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		validationErrors := extractValidationErrors(err)
		http.Error(w, validationErrors, http.StatusBadRequest)
		return
	}

	identity, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		http.Error(w, loginError(err).Error(), loginStatus(err))
		return
	}

	if h.onLogin != nil && identity.Token != "" {
		h.onLogin(identity.Token)
	}

	token, err := h.jwtService.GenerateToken(identity.UserID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	response := types.LoginResponse{
		Identity: identity,
		Token:    token,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Log error but response already sent
		return
	}
}

// loginStatus distinguishes bad credentials from directory outages.
func loginStatus(err error) int {
	var status *resource.StatusError
	if errors.As(err, &status) && (status.StatusCode == http.StatusUnauthorized || status.StatusCode == http.StatusForbidden || status.StatusCode == http.StatusNotFound) {
		return http.StatusUnauthorized
	}
	var transport *resource.TransportError
	if errors.As(err, &transport) {
		return http.StatusBadGateway
	}
	return http.StatusUnauthorized
}

func loginError(err error) error {
	var transport *resource.TransportError
	if errors.As(err, &transport) {
		return fmt.Errorf("identity service unavailable")
	}
	return &ErrInvalidCredentials{}
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
