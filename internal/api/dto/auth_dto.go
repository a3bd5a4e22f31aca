package dto

import (
	"time"

	"github.com/deskflow/helpdesk/internal/domain"
)

// LoginRequest payload. Role is only used when the username is new.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Role     string `json:"role,omitempty"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}
