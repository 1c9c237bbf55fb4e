package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/rs/zerolog/log"

	"github.com/devconnect-app/devconnect-be/internal/apierr"
	"github.com/devconnect-app/devconnect-be/internal/auth"
	"github.com/devconnect-app/devconnect-be/internal/services"
)

// UserHandler handles registration, login and session restore.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenService) *UserHandler {
	return &UserHandler{service: service, tokens: tokens}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(6, 100)),
	)
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// TokenResponse is the success body for registration and login.
type TokenResponse struct {
	Token string `json:"token"`
}

// Register handles new user registration and issues the first token.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apierr.Write(w, apierr.Validation(apierr.FieldError{Field: "body", Message: "invalid request body"}))
		return
	}

	if err := payload.Validate(); err != nil {
		apierr.Write(w, apierr.FromValidation(err))
		return
	}

	user, err := h.service.Register(payload.Name, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			apierr.Write(w, apierr.Conflict("email already registered"))
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		apierr.Write(w, apierr.Internal())
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to sign token")
		apierr.Write(w, apierr.Internal())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(TokenResponse{Token: token})
}

// Login handles user authentication and token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apierr.Write(w, apierr.Validation(apierr.FieldError{Field: "body", Message: "invalid request body"}))
		return
	}

	if err := payload.Validate(); err != nil {
		apierr.Write(w, apierr.FromValidation(err))
		return
	}

	user, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// Same response for unknown emails and wrong passwords.
			apierr.Write(w, apierr.Authentication())
			return
		}
		log.Error().Err(err).Msg("Failed to authenticate user")
		apierr.Write(w, apierr.Internal())
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to sign token")
		apierr.Write(w, apierr.Internal())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{Token: token})
}

// GetMe returns the identity behind the presented token. The middleware
// only proves the token, so this is where a deleted account surfaces.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user id from context")
		apierr.Write(w, apierr.Internal())
		return
	}

	user, err := h.service.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierr.Write(w, apierr.NotFound("user not found"))
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load user")
		apierr.Write(w, apierr.Internal())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
