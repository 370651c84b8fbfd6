package auth

import (
	"time"

	"bookmory/internal/user"
)

const TokenType = "Bearer"

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        user.User `json:"user"`
}

// TokenStatus answers a token check. Only valid tokens reach the handler, so
// Valid is always true on the wire.
type TokenStatus struct {
	Message   string    `json:"message"`
	Valid     bool      `json:"valid"`
	ExpiresAt time.Time `json:"expires_at"`
}
