package httpx

import (
	"context"
	"net/http"
	"strings"

	"bookmory/internal/platform/crypto"

	"go.uber.org/zap"
)

// TokenBlacklist reports whether a token id was revoked by logout.
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

func AuthMiddleware(secret string, blacklist TokenBlacklist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Access denied. No token provided.", nil)
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			claims, err := crypto.ParseToken(secret, token)
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token.", nil)
				return
			}

			if blacklist != nil {
				revoked, err := blacklist.IsBlacklisted(r.Context(), claims.ID)
				if err != nil {
					LoggerFrom(r.Context()).Error("token blacklist lookup failed", zap.Error(err))
					JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token.", nil)
					return
				}
				if revoked {
					JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Token has been revoked.", nil)
					return
				}
			}

			if h := identityHolderFrom(r.Context()); h != nil {
				h.userID = claims.Sub
			}

			ctx := ContextWithIdentity(r.Context(), Identity{
				ID:        claims.Sub,
				Email:     claims.Email,
				Username:  claims.Username,
				Role:      claims.Role,
				TokenID:   claims.ID,
				ExpiresAt: claims.ExpiresAt.Time,
			})
			ctx = ContextWithLogger(ctx, LoggerFrom(ctx).With(zap.String("user_id", claims.Sub)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity returns the caller or writes a 401 and reports false.
func RequireIdentity(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	id, ok := IdentityFrom(r)
	if !ok || id.ID == "" {
		JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Identity{}, false
	}
	return id, true
}

// RequireRole lets through callers whose token role is one of roles. It must
// run after AuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := RequireIdentity(w, r)
			if !ok {
				return
			}
			if _, ok := allowed[id.Role]; !ok {
				JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
