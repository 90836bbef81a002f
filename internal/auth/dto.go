package auth

import (
	"github.com/quanmat/fasalmitra-backend/internal/users"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the tokens and user produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RegisterRequest contains the payload required for onboarding a new user.
type RegisterRequest struct {
	FirstName string         `json:"first_name" validate:"required"`
	LastName  string         `json:"last_name" validate:"required"`
	Email     string         `json:"email" validate:"required,email"`
	Password  string         `json:"password" validate:"required,min=8"`
	Phone     *string        `json:"phone,omitempty"`
	Role      enums.UserRole `json:"role" validate:"required"`
}

// RegisterResponse confirms the account pending email verification.
type RegisterResponse struct {
	User *users.UserDTO `json:"user"`
}

// VerifyEmailRequest carries the emailed token back to the API.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required,uuid"`
}

// RefreshRequest rotates a refresh token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse returns the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
