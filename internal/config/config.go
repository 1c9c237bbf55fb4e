package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	JWTSecret    string
	TokenTTL     time.Duration
	GithubToken  string // optional, raises the GitHub API rate limit
	ClientOrigin string
}

// ErrMissingSecret is returned when JWT_SECRET is not set. The server
// refuses to start without it rather than issue unverifiable tokens.
var ErrMissingSecret = errors.New("config: JWT_SECRET is required")

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingSecret
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "1000h"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:   port,
		DatabasePath: getEnv("DATABASE_PATH", "./devconnect.db"),
		JWTSecret:    secret,
		TokenTTL:     ttl,
		GithubToken:  os.Getenv("GITHUB_TOKEN"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:3000"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
