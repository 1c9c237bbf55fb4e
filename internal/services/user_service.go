package services

import (
	"crypto/md5"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/devconnect-app/devconnect-be/internal/auth"
	"github.com/devconnect-app/devconnect-be/internal/models"
)

// ErrEmailTaken is returned when registering with an email that already
// has an account.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords so login errors do not reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserNotFound is returned when a user id has no record.
var ErrUserNotFound = errors.New("user not found")

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	Register(name, email, password string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
}

// UserService provides business logic for accounts and credentials.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, avatar_url, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.AvatarURL, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Register creates a new account, hashing the password. Uniqueness rides
// on the users.email UNIQUE constraint, so two concurrent registrations
// with the same email cannot both succeed.
func (s *UserService) Register(name, email, password string) (models.User, error) {
	email = NormalizeEmail(email)

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		AvatarURL:    gravatarURL(email),
	}

	_, err = s.db.Exec(
		"INSERT INTO users(id, name, email, password_hash, avatar_url) VALUES(?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.AvatarURL,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	email = NormalizeEmail(email)

	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, password_hash, avatar_url, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.AvatarURL, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// NormalizeEmail lowercases and trims an email so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// gravatarURL derives the avatar URL for an email, same parameters the
// original frontend expects (200px, rating pg, mystery-man fallback).
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(email))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", sum)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
