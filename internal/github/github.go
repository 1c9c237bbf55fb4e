// Package github fetches public repository listings for profile pages.
// Listings are cached in memory and refreshed in the background so hot
// profiles do not burn through the GitHub API rate limit.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/devconnect-app/devconnect-be/internal/models"
)

// ErrUnknownUser is returned when GitHub has no account for the username.
var ErrUnknownUser = errors.New("github user not found")

const defaultBaseURL = "https://api.github.com"

// Service fetches and caches public repo listings.
type Service struct {
	httpClient *http.Client
	baseURL    string
	token      string
	cacheTTL   time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	repos     []models.Repo
	fetchedAt time.Time
}

// NewService creates a Service. The token is optional and only raises the
// API rate limit.
func NewService(token string) *Service {
	return &Service{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
		cacheTTL:   30 * time.Minute,
		cache:      make(map[string]cacheEntry),
	}
}

// WithBaseURL points the service at a different API endpoint. Used by tests.
func (s *Service) WithBaseURL(baseURL string) *Service {
	s.baseURL = baseURL
	return s
}

// Repos returns the user's five most recent public repositories, serving
// from cache when the cached listing is still fresh.
func (s *Service) Repos(ctx context.Context, username string) ([]models.Repo, error) {
	s.mu.RLock()
	entry, ok := s.cache[username]
	s.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) < s.cacheTTL {
		return entry.repos, nil
	}
	return s.fetch(ctx, username)
}

// Refresh re-fetches a user's listing, bypassing the cache.
func (s *Service) Refresh(ctx context.Context, username string) error {
	_, err := s.fetch(ctx, username)
	return err
}

func (s *Service) fetch(ctx context.Context, username string) ([]models.Repo, error) {
	url := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created&direction=desc", s.baseURL, username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUnknownUser
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github responded with status %d", resp.StatusCode)
	}

	var repos []models.Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[username] = cacheEntry{repos: repos, fetchedAt: time.Now()}
	s.mu.Unlock()
	return repos, nil
}
