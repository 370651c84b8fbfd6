package auth

import (
	"context"
	"time"

	"bookmory/internal/apperr"
	"bookmory/internal/httpx"
	"bookmory/internal/platform/crypto"
	"bookmory/internal/user"

	"go.uber.org/zap"
)

type Service struct {
	accounts  Accounts
	blacklist Blacklist
	secret    string
	ttl       time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewService(accounts Accounts, blacklist Blacklist, secret string, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{
		accounts:  accounts,
		blacklist: blacklist,
		secret:    secret,
		ttl:       ttl,
		log:       log,
		now:       time.Now,
	}
}

// Register creates the account and signs the caller in straight away.
func (s *Service) Register(ctx context.Context, in user.RegisterInput) (TokenResponse, error) {
	u, err := s.accounts.Register(ctx, in)
	if err != nil {
		return TokenResponse{}, err
	}
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	u, err := s.accounts.Authenticate(ctx, email, password)
	if err != nil {
		return TokenResponse{}, err
	}
	s.log.Info("user logged in", zap.String("user_id", u.ID))
	return s.issue(u)
}

func (s *Service) issue(u user.User) (TokenResponse, error) {
	tok, err := crypto.GenerateToken(s.secret, crypto.Identity{
		UserID:   u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
	}, s.ttl, s.now())
	if err != nil {
		return TokenResponse{}, apperr.Internal(err)
	}
	return TokenResponse{
		AccessToken: tok.Token,
		TokenType:   TokenType,
		ExpiresIn:   int64(s.ttl.Seconds()),
		ExpiresAt:   tok.ExpiresAt.UTC(),
		User:        u,
	}, nil
}

// Logout revokes the caller's current token. Expired entries are purged on
// the way out; a failed purge does not fail the logout.
func (s *Service) Logout(ctx context.Context, id httpx.Identity) error {
	if id.TokenID == "" {
		return apperr.Unauthorized("Invalid token.")
	}
	expiresAt := id.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(s.ttl)
	}
	if err := s.blacklist.Add(ctx, id.TokenID, id.ID, expiresAt); err != nil {
		return apperr.Internal(err)
	}

	if n, err := s.blacklist.DeleteExpired(ctx); err != nil {
		s.log.Warn("purge expired tokens failed", zap.Error(err))
	} else if n > 0 {
		s.log.Debug("purged expired tokens", zap.Int64("count", n))
	}
	s.log.Info("user logged out", zap.String("user_id", id.ID))
	return nil
}
