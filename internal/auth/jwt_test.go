package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestIssueAndVerify(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestVerifyFailsAfterExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	svc.WithClock(func() time.Time { return now })

	token, err := svc.Issue("user-123")
	require.NoError(t, err)

	// Still inside the window
	svc.WithClock(func() time.Time { return now.Add(59 * time.Minute) })
	_, err = svc.Verify(token)
	require.NoError(t, err)

	// Advance the clock past the TTL
	svc.WithClock(func() time.Time { return now.Add(2 * time.Hour) })
	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestVerifyFailsWithDifferentSecret(t *testing.T) {
	issuer, err := NewTokenService("secret-one", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService("secret-two", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	for _, tokenStr := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(tokenStr)
		assert.Error(t, err, "token %q should not verify", tokenStr)
	}
}

func TestMiddlewareMissingToken(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	handlerRan := false
	handler := svc.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, handlerRan, "handler must not run when the token is missing")
	assert.Contains(t, rec.Body.String(), "token missing")
}

func TestMiddlewareInvalidToken(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	handlerRan := false
	handler := svc.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(TokenHeader, "not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, handlerRan, "handler must not run when the token is invalid")
	assert.Contains(t, rec.Body.String(), "token invalid")
}

func TestMiddlewareAttachesUserID(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue("user-123")
	require.NoError(t, err)

	var gotID string
	handler := svc.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		require.True(t, ok)
		gotID = id
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-123", gotID)
}
