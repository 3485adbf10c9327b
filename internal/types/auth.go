package types

import "github.com/go-playground/validator/v10"

// LoginRequest represents the login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required"`
}

// Identity is the authenticated operator as reported by the remote
// person directory, plus the bearer token issued for the session.
type Identity struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
	Token     string `json:"token,omitempty"`
}

// LoginResponse represents the login response with identity data and a
// locally issued API token.
type LoginResponse struct {
	Identity *Identity `json:"identity"`
	Token    string    `json:"token"`
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
