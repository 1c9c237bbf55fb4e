package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devconnect-app/devconnect-be/internal/apierr"
)

// TokenHeader is the request header carrying the bearer token.
const TokenHeader = "X-Auth-Token"

// ErrMissingSecret is returned when a TokenService is built without a secret.
var ErrMissingSecret = errors.New("auth: signing secret is empty")

type contextKey string

// userIDKey is the context key for the authenticated user's id.
const userIDKey = contextKey("userID")

// UserID returns the authenticated user id attached by Middleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// TokenService issues and verifies signed bearer tokens. Tokens are
// stateless: nothing is stored server-side and there is no revocation,
// a token stays valid until its expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. The secret must be non-empty.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock overrides the service clock. Used by tests to simulate expiry.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue creates a signed token for a user. The payload carries only the
// user id as subject, never the email or password hash.
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token string and returns its subject id.
// Bad signatures, wrong secrets and expired tokens all fail identically.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}

// Middleware creates a middleware for protecting routes. It is a pure
// gate: it only checks the token, it does not consult the user store or
// reissue anything. A request either gets the user id attached to its
// context and forwarded, or is rejected before the handler runs.
func (s *TokenService) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.Header.Get(TokenHeader)
			if tokenStr == "" {
				apierr.Write(w, apierr.Authorization("token missing"))
				return
			}

			userID, err := s.Verify(tokenStr)
			if err != nil {
				apierr.Write(w, apierr.Authorization("token invalid"))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
