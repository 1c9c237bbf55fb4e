package models

import "time"

// Profile is a user's public developer profile.
type Profile struct {
	UserID     string       `json:"userId"`
	Name       string       `json:"name"`
	AvatarURL  string       `json:"avatarUrl"`
	Status     string       `json:"status"` // e.g. "Senior Developer", "Student"
	Company    string       `json:"company,omitempty"`
	Website    string       `json:"website,omitempty"`
	Location   string       `json:"location,omitempty"`
	Bio        string       `json:"bio,omitempty"`
	GithubUser string       `json:"githubUsername,omitempty"`
	Skills     []string     `json:"skills"`
	Social     *SocialLinks `json:"social,omitempty"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// SocialLinks holds optional links to social accounts.
type SocialLinks struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Twitch    string `json:"twitch,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is a single work history entry.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is a single education history entry.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldOfStudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}
