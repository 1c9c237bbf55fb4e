package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devconnect-app/devconnect-be/internal/models"
)

// ErrProfileNotFound is returned when a user has no profile yet.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileUpdate carries the writable profile fields for an upsert.
type ProfileUpdate struct {
	Status     string
	Company    string
	Website    string
	Location   string
	Bio        string
	GithubUser string
	Skills     []string
	Social     models.SocialLinks
}

// ProfileServiceProvider defines the interface for profile services.
type ProfileServiceProvider interface {
	GetByUserID(userID string) (models.Profile, error)
	GetAll() ([]models.Profile, error)
	Upsert(userID string, upd ProfileUpdate) (models.Profile, error)
	DeleteAccount(userID string) error
	AddExperience(userID string, exp models.Experience) (models.Profile, error)
	RemoveExperience(userID, expID string) (models.Profile, error)
	AddEducation(userID string, edu models.Education) (models.Profile, error)
	RemoveEducation(userID, eduID string) (models.Profile, error)
}

// ProfileService provides business logic for developer profiles.
type ProfileService struct {
	db *sql.DB
}

// NewProfileService creates a new ProfileService.
func NewProfileService(db *sql.DB) *ProfileService {
	return &ProfileService{db: db}
}

const profileColumns = `p.user_id, u.name, u.avatar_url, p.status, p.company, p.website,
	p.location, p.bio, p.github_username, p.skills_json, p.social_json, p.updated_at`

// GetByUserID retrieves a single profile with its owner's name and avatar.
func (s *ProfileService) GetByUserID(userID string) (models.Profile, error) {
	row := s.db.QueryRow(
		"SELECT "+profileColumns+" FROM profiles p JOIN users u ON u.id = p.user_id WHERE p.user_id = ?",
		userID,
	)
	profile, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Profile{}, ErrProfileNotFound
		}
		return models.Profile{}, err
	}

	if err := s.loadHistory(&profile); err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// GetAll retrieves every profile in the directory.
func (s *ProfileService) GetAll() ([]models.Profile, error) {
	rows, err := s.db.Query(
		"SELECT " + profileColumns + " FROM profiles p JOIN users u ON u.id = p.user_id ORDER BY p.updated_at DESC",
	)
	if err != nil {
		return nil, err
	}

	profiles := []models.Profile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// The history queries need a connection of their own, so the listing
	// cursor must be closed before they run.
	if err := rows.Close(); err != nil {
		return nil, err
	}

	for i := range profiles {
		if err := s.loadHistory(&profiles[i]); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// Upsert creates the user's profile or overwrites it if one exists.
// Website and social URLs are normalized to https.
func (s *ProfileService) Upsert(userID string, upd ProfileUpdate) (models.Profile, error) {
	if upd.Skills == nil {
		upd.Skills = []string{}
	}
	skillsJSON, err := json.Marshal(upd.Skills)
	if err != nil {
		return models.Profile{}, err
	}

	social := models.SocialLinks{
		Youtube:   NormalizeURL(upd.Social.Youtube),
		Twitter:   NormalizeURL(upd.Social.Twitter),
		Twitch:    NormalizeURL(upd.Social.Twitch),
		Facebook:  NormalizeURL(upd.Social.Facebook),
		Linkedin:  NormalizeURL(upd.Social.Linkedin),
		Instagram: NormalizeURL(upd.Social.Instagram),
	}
	socialJSON, err := json.Marshal(social)
	if err != nil {
		return models.Profile{}, err
	}

	_, err = s.db.Exec(`
		INSERT INTO profiles(user_id, status, company, website, location, bio, github_username, skills_json, social_json)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			status = excluded.status,
			company = excluded.company,
			website = excluded.website,
			location = excluded.location,
			bio = excluded.bio,
			github_username = excluded.github_username,
			skills_json = excluded.skills_json,
			social_json = excluded.social_json,
			updated_at = CURRENT_TIMESTAMP`,
		userID, upd.Status, upd.Company, NormalizeURL(upd.Website), upd.Location,
		upd.Bio, upd.GithubUser, string(skillsJSON), string(socialJSON),
	)
	if err != nil {
		return models.Profile{}, err
	}
	return s.GetByUserID(userID)
}

// DeleteAccount removes a user's profile and the account itself. The
// profile, experience and education rows go with the user via cascade.
func (s *ProfileService) DeleteAccount(userID string) error {
	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddExperience appends a work history entry to the user's profile.
func (s *ProfileService) AddExperience(userID string, exp models.Experience) (models.Profile, error) {
	if err := s.ensureProfile(userID); err != nil {
		return models.Profile{}, err
	}

	exp.ID = uuid.New().String()
	_, err := s.db.Exec(`
		INSERT INTO experiences(id, user_id, title, company, location, from_date, to_date, is_current, description)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, userID, exp.Title, exp.Company, exp.Location, exp.From, nullableTime(exp.To), exp.Current, exp.Description,
	)
	if err != nil {
		return models.Profile{}, err
	}
	return s.GetByUserID(userID)
}

// RemoveExperience deletes one work history entry by id.
func (s *ProfileService) RemoveExperience(userID, expID string) (models.Profile, error) {
	if _, err := s.db.Exec("DELETE FROM experiences WHERE id = ? AND user_id = ?", expID, userID); err != nil {
		return models.Profile{}, err
	}
	return s.GetByUserID(userID)
}

// AddEducation appends an education entry to the user's profile.
func (s *ProfileService) AddEducation(userID string, edu models.Education) (models.Profile, error) {
	if err := s.ensureProfile(userID); err != nil {
		return models.Profile{}, err
	}

	edu.ID = uuid.New().String()
	_, err := s.db.Exec(`
		INSERT INTO educations(id, user_id, school, degree, field_of_study, from_date, to_date, is_current, description)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		edu.ID, userID, edu.School, edu.Degree, edu.FieldOfStudy, edu.From, nullableTime(edu.To), edu.Current, edu.Description,
	)
	if err != nil {
		return models.Profile{}, err
	}
	return s.GetByUserID(userID)
}

// RemoveEducation deletes one education entry by id.
func (s *ProfileService) RemoveEducation(userID, eduID string) (models.Profile, error) {
	if _, err := s.db.Exec("DELETE FROM educations WHERE id = ? AND user_id = ?", eduID, userID); err != nil {
		return models.Profile{}, err
	}
	return s.GetByUserID(userID)
}

// GithubUsernames lists distinct github usernames referenced by profiles.
// Used by the background repo cache refresher.
func (s *ProfileService) GithubUsernames() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT github_username FROM profiles WHERE github_username != ''")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *ProfileService) ensureProfile(userID string) error {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM profiles WHERE user_id = ?", userID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrProfileNotFound
	}
	return err
}

func (s *ProfileService) loadHistory(p *models.Profile) error {
	rows, err := s.db.Query(`
		SELECT id, title, company, location, from_date, to_date, is_current, description
		FROM experiences WHERE user_id = ? ORDER BY from_date DESC`, p.UserID)
	if err != nil {
		return err
	}
	defer rows.Close()

	p.Experience = []models.Experience{}
	for rows.Next() {
		var exp models.Experience
		var to sql.NullTime
		if err := rows.Scan(&exp.ID, &exp.Title, &exp.Company, &exp.Location, &exp.From, &to, &exp.Current, &exp.Description); err != nil {
			return err
		}
		if to.Valid {
			exp.To = &to.Time
		}
		p.Experience = append(p.Experience, exp)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	eduRows, err := s.db.Query(`
		SELECT id, school, degree, field_of_study, from_date, to_date, is_current, description
		FROM educations WHERE user_id = ? ORDER BY from_date DESC`, p.UserID)
	if err != nil {
		return err
	}
	defer eduRows.Close()

	p.Education = []models.Education{}
	for eduRows.Next() {
		var edu models.Education
		var to sql.NullTime
		if err := eduRows.Scan(&edu.ID, &edu.School, &edu.Degree, &edu.FieldOfStudy, &edu.From, &to, &edu.Current, &edu.Description); err != nil {
			return err
		}
		if to.Valid {
			edu.To = &to.Time
		}
		p.Education = append(p.Education, edu)
	}
	return eduRows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (models.Profile, error) {
	var p models.Profile
	var skillsJSON, socialJSON string
	err := row.Scan(&p.UserID, &p.Name, &p.AvatarURL, &p.Status, &p.Company, &p.Website,
		&p.Location, &p.Bio, &p.GithubUser, &skillsJSON, &socialJSON, &p.UpdatedAt)
	if err != nil {
		return models.Profile{}, err
	}

	if err := json.Unmarshal([]byte(skillsJSON), &p.Skills); err != nil {
		return models.Profile{}, err
	}
	if socialJSON != "" {
		var social models.SocialLinks
		if err := json.Unmarshal([]byte(socialJSON), &social); err != nil {
			return models.Profile{}, err
		}
		if social != (models.SocialLinks{}) {
			p.Social = &social
		}
	}
	return p, nil
}

// NormalizeURL forces an https scheme on a link, mirroring how the
// original client expects stored links to look. Empty stays empty.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if after, ok := strings.CutPrefix(raw, "http://"); ok {
		return "https://" + after
	}
	if strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
