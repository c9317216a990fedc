package model

import "time"

// User is an account on the platform
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Profile   Profile   `json:"user_metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the metadata captured by the registration form
type Profile struct {
	Name         string `json:"name,omitempty"`
	CollegeName  string `json:"college_name,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Country      string `json:"country,omitempty"`
	GithubURL    string `json:"github_url,omitempty"`
	PortfolioURL string `json:"portfolio_url,omitempty"`
	Skills       string `json:"skills,omitempty"`
	Bio          string `json:"bio,omitempty"`
	YearOfStudy  string `json:"year_of_study,omitempty"`
}

// Session represents an authenticated identity and its tokens
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// UserID returns the id of the session owner
func (s *Session) UserID() string {
	return s.User.ID
}

// IsExpired returns true if the session has expired
func (s *Session) IsExpired() bool {
	return s.ExpiredAt(time.Now())
}

// ExpiredAt reports whether the session is expired at now. A zero expiry never expires.
func (s *Session) ExpiredAt(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}
