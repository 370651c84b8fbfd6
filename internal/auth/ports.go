package auth

import (
	"context"
	"time"

	"bookmory/internal/user"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=auth

// Accounts is the part of the user service that authentication relies on.
type Accounts interface {
	Register(ctx context.Context, in user.RegisterInput) (user.User, error)
	Authenticate(ctx context.Context, email, password string) (user.User, error)
}

// Blacklist stores revoked token ids until the token would have expired anyway.
type Blacklist interface {
	Add(ctx context.Context, jti, userID string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
