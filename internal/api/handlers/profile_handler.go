package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/rs/zerolog/log"

	"github.com/devconnect-app/devconnect-be/internal/apierr"
	"github.com/devconnect-app/devconnect-be/internal/auth"
	"github.com/devconnect-app/devconnect-be/internal/models"
	"github.com/devconnect-app/devconnect-be/internal/services"
)

// ProfileHandler handles HTTP requests for developer profiles.
type ProfileHandler struct {
	service services.ProfileServiceProvider
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service services.ProfileServiceProvider) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// skillList accepts either a JSON array of skills or a single
// comma-separated string, which is what the original form submits.
type skillList []string

func (s *skillList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*s = trimAll(arr)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = trimAll(strings.Split(raw, ","))
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// dateValue accepts RFC3339 timestamps or plain yyyy-mm-dd dates.
type dateValue struct {
	time.Time
}

func (d *dateValue) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return err
		}
	}
	d.Time = t
	return nil
}

func requiredDate(value interface{}) error {
	d, ok := value.(dateValue)
	if !ok || d.IsZero() {
		return errors.New("is required")
	}
	return nil
}

// ProfilePayload defines the structure for create/update requests. The
// social links sit at the top level, matching the original form body.
type ProfilePayload struct {
	Status    string    `json:"status"`
	Skills    skillList `json:"skills"`
	Company   string    `json:"company"`
	Website   string    `json:"website"`
	Location  string    `json:"location"`
	Bio       string    `json:"bio"`
	Github    string    `json:"githubUsername"`
	Youtube   string    `json:"youtube"`
	Twitter   string    `json:"twitter"`
	Twitch    string    `json:"twitch"`
	Facebook  string    `json:"facebook"`
	Linkedin  string    `json:"linkedin"`
	Instagram string    `json:"instagram"`
}

func (p ProfilePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Status, validation.Required),
		validation.Field(&p.Skills, validation.Required),
	)
}

// ExperiencePayload defines the structure for adding work history.
type ExperiencePayload struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	From        dateValue  `json:"from"`
	To          *dateValue `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

func (p ExperiencePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Company, validation.Required),
		validation.Field(&p.From, validation.By(requiredDate)),
	)
}

// EducationPayload defines the structure for adding education history.
type EducationPayload struct {
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldOfStudy"`
	From         dateValue  `json:"from"`
	To           *dateValue `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

func (p EducationPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.School, validation.Required),
		validation.Field(&p.Degree, validation.Required),
		validation.Field(&p.FieldOfStudy, validation.Required),
		validation.Field(&p.From, validation.By(requiredDate)),
	)
}

// GetAll handles the public request to list every profile.
func (h *ProfileHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.GetAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list profiles")
		apierr.Write(w, apierr.Internal())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profiles)
}

// GetByUserID handles the public request for one user's profile.
func (h *ProfileHandler) GetByUserID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	profile, err := h.service.GetByUserID(id)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			apierr.Write(w, apierr.NotFound("profile not found"))
			return
		}
		log.Error().Err(err).Str("user_id", id).Msg("Failed to get profile")
		apierr.Write(w, apierr.Internal())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// GetMine handles the request for the authenticated user's own profile.
func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	profile, err := h.service.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			apierr.Write(w, apierr.NotFound("there is no profile for this user"))
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get own profile")
		apierr.Write(w, apierr.Internal())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// Upsert handles creating or replacing the authenticated user's profile.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var payload ProfilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apierr.Write(w, apierr.Validation(apierr.FieldError{Field: "body", Message: "invalid request body"}))
		return
	}
	if err := payload.Validate(); err != nil {
		apierr.Write(w, apierr.FromValidation(err))
		return
	}

	profile, err := h.service.Upsert(userID, services.ProfileUpdate{
		Status:     payload.Status,
		Company:    payload.Company,
		Website:    payload.Website,
		Location:   payload.Location,
		Bio:        payload.Bio,
		GithubUser: payload.Github,
		Skills:     payload.Skills,
		Social: models.SocialLinks{
			Youtube:   payload.Youtube,
			Twitter:   payload.Twitter,
			Twitch:    payload.Twitch,
			Facebook:  payload.Facebook,
			Linkedin:  payload.Linkedin,
			Instagram: payload.Instagram,
		},
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to upsert profile")
		apierr.Write(w, apierr.Internal())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// DeleteAccount handles removing the user's profile and account.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	if err := h.service.DeleteAccount(userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierr.Write(w, apierr.NotFound("user not found"))
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to delete account")
		apierr.Write(w, apierr.Internal())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "account deleted"})
}

// AddExperience handles appending a work history entry.
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var payload ExperiencePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apierr.Write(w, apierr.Validation(apierr.FieldError{Field: "body", Message: "invalid request body"}))
		return
	}
	if err := payload.Validate(); err != nil {
		apierr.Write(w, apierr.FromValidation(err))
		return
	}

	exp := models.Experience{
		Title:       payload.Title,
		Company:     payload.Company,
		Location:    payload.Location,
		From:        payload.From.Time,
		Current:     payload.Current,
		Description: payload.Description,
	}
	if payload.To != nil && !payload.To.IsZero() {
		exp.To = &payload.To.Time
	}

	profile, err := h.service.AddExperience(userID, exp)
	if err != nil {
		h.writeHistoryError(w, userID, err, "Failed to add experience")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// RemoveExperience handles deleting one work history entry.
func (h *ProfileHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	profile, err := h.service.RemoveExperience(userID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeHistoryError(w, userID, err, "Failed to remove experience")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// AddEducation handles appending an education entry.
func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var payload EducationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apierr.Write(w, apierr.Validation(apierr.FieldError{Field: "body", Message: "invalid request body"}))
		return
	}
	if err := payload.Validate(); err != nil {
		apierr.Write(w, apierr.FromValidation(err))
		return
	}

	edu := models.Education{
		School:       payload.School,
		Degree:       payload.Degree,
		FieldOfStudy: payload.FieldOfStudy,
		From:         payload.From.Time,
		Current:      payload.Current,
		Description:  payload.Description,
	}
	if payload.To != nil && !payload.To.IsZero() {
		edu.To = &payload.To.Time
	}

	profile, err := h.service.AddEducation(userID, edu)
	if err != nil {
		h.writeHistoryError(w, userID, err, "Failed to add education")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// RemoveEducation handles deleting one education entry.
func (h *ProfileHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	profile, err := h.service.RemoveEducation(userID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeHistoryError(w, userID, err, "Failed to remove education")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

func (h *ProfileHandler) writeHistoryError(w http.ResponseWriter, userID string, err error, msg string) {
	if errors.Is(err, services.ErrProfileNotFound) {
		apierr.Write(w, apierr.NotFound("there is no profile for this user"))
		return
	}
	log.Error().Err(err).Str("user_id", userID).Msg(msg)
	apierr.Write(w, apierr.Internal())
}
