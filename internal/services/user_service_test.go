package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	user, err := svc.Register("Jane Doe", "Jane@Example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "jane@example.com", user.Email, "email is lowercased")
	assert.Contains(t, user.AvatarURL, "gravatar.com/avatar/")
	assert.Empty(t, user.PasswordHash, "hash never leaves the service")

	got, err := svc.Authenticate("JANE@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Empty(t, got.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Register("First", "dup@example.com", "password1")
	require.NoError(t, err)

	_, err = svc.Register("Second", "Dup@Example.com", "password2")
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", "dup@example.com").Scan(&count))
	assert.Equal(t, 1, count, "conflicting registration must not create a record")
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.Register("Jane Doe", "jane@example.com", "hunter22")
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate("jane@example.com", "wrong")
	_, unknownEmail := svc.Authenticate("nobody@example.com", "hunter22")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestGetUserByID(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	user, err := svc.Register("Jane Doe", "jane@example.com", "hunter22")
	require.NoError(t, err)

	got, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = svc.GetUserByID("no-such-id")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
