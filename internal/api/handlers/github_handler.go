package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/devconnect-app/devconnect-be/internal/apierr"
	"github.com/devconnect-app/devconnect-be/internal/github"
)

// GithubHandler serves public repo listings for profile pages.
type GithubHandler struct {
	service *github.Service
}

// NewGithubHandler creates a new GithubHandler.
func NewGithubHandler(service *github.Service) *GithubHandler {
	return &GithubHandler{service: service}
}

// Repos handles the request for a user's latest public repositories.
func (h *GithubHandler) Repos(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	repos, err := h.service.Repos(r.Context(), username)
	if err != nil {
		if errors.Is(err, github.ErrUnknownUser) {
			apierr.Write(w, apierr.NotFound("github profile not found"))
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to fetch github repos")
		apierr.Write(w, apierr.Internal())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(repos)
}
