package domain

import "time"

// AccessToken is a signed session token handed to transport clients.
type AccessToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
