// Package forms validates the sign-in, registration, password reset and
// project submission forms before anything is sent to the backend.
package forms

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// rule maps a failed Field.tag to the message shown for it. Rules are listed
// in the order the checks are reported, so only the first failure is shown.
type rule struct {
	key     string
	message string
}

func check(form interface{}, rules []rule) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("The form could not be checked")
	}

	failed := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		failed[fe.StructField()+"."+fe.Tag()] = true
	}
	for _, r := range rules {
		if failed[r.key] {
			return apperr.Validation(r.message)
		}
	}

	fe := verrs[0]
	return apperr.Validation(fmt.Sprintf("%s is invalid", fe.Field()))
}

// SignIn is the email and password sign-in form
type SignIn struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

var signInRules = []rule{
	{"Email.required", "Please enter your email and password."},
	{"Password.required", "Please enter your email and password."},
	{"Email.email", "Please enter a valid email address."},
}

func (f *SignIn) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return check(f, signInRules)
}

// Registration is the account registration form
type Registration struct {
	Name            string `json:"name" form:"name" validate:"required,max=100"`
	CollegeName     string `json:"college_name" form:"college_name" validate:"max=200"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	PhoneNumber     string `json:"phone_number" form:"phone_number" validate:"max=30"`
	City            string `json:"city" form:"city" validate:"max=100"`
	State           string `json:"state" form:"state" validate:"max=100"`
	Country         string `json:"country" form:"country" validate:"max=100"`
	GithubURL       string `json:"github_url" form:"github_url" validate:"omitempty,url,max=200"`
	PortfolioURL    string `json:"portfolio_url" form:"portfolio_url" validate:"omitempty,url,max=200"`
	Skills          string `json:"skills" form:"skills" validate:"max=500"`
	Bio             string `json:"bio" form:"bio" validate:"max=1000"`
	YearOfStudy     string `json:"year_of_study" form:"year_of_study" validate:"max=20"`
	Password        string `json:"password" form:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"eqfield=Password"`
	AcceptTerms     bool   `json:"accept_terms" form:"accept_terms" validate:"required"`
}

var registrationRules = []rule{
	{"ConfirmPassword.eqfield", "Passwords don't match!"},
	{"Name.required", "Please fill in all required fields"},
	{"Email.required", "Please fill in all required fields"},
	{"Password.required", "Please fill in all required fields"},
	{"AcceptTerms.required", "You must accept the Terms of Service and Privacy Policy"},
	{"Password.min", "Password must be at least 8 characters long"},
	{"Email.email", "Please enter a valid email address."},
	{"GithubURL.url", "Please enter a valid GitHub profile URL"},
	{"PortfolioURL.url", "Please enter a valid portfolio URL"},
	{"Bio.max", "Bio must be at most 1000 characters"},
	{"Skills.max", "Skills must be at most 500 characters"},
	{"Name.max", "Please keep profile fields short"},
	{"CollegeName.max", "Please keep profile fields short"},
	{"PhoneNumber.max", "Please keep profile fields short"},
	{"City.max", "Please keep profile fields short"},
	{"State.max", "Please keep profile fields short"},
	{"Country.max", "Please keep profile fields short"},
	{"GithubURL.max", "Please keep profile fields short"},
	{"PortfolioURL.max", "Please keep profile fields short"},
	{"YearOfStudy.max", "Please keep profile fields short"},
}

// Validate checks password confirmation first, then required fields, terms
// acceptance and password length
func (f *Registration) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	return check(f, registrationRules)
}

// Profile returns the metadata stored with the account
func (f *Registration) Profile() model.Profile {
	return model.Profile{
		Name:         f.Name,
		CollegeName:  strings.TrimSpace(f.CollegeName),
		PhoneNumber:  strings.TrimSpace(f.PhoneNumber),
		City:         strings.TrimSpace(f.City),
		State:        strings.TrimSpace(f.State),
		Country:      strings.TrimSpace(f.Country),
		GithubURL:    strings.TrimSpace(f.GithubURL),
		PortfolioURL: strings.TrimSpace(f.PortfolioURL),
		Skills:       strings.TrimSpace(f.Skills),
		Bio:          strings.TrimSpace(f.Bio),
		YearOfStudy:  strings.TrimSpace(f.YearOfStudy),
	}
}

// PasswordReset requests reset instructions for an email address
type PasswordReset struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

var passwordResetRules = []rule{
	{"Email.required", "Please enter your email address."},
	{"Email.email", "Please enter a valid email address."},
}

func (f *PasswordReset) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return check(f, passwordResetRules)
}

// NewPassword completes a reset with the emailed token
type NewPassword struct {
	Token           string `json:"token" form:"token" validate:"required"`
	Password        string `json:"password" form:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"eqfield=Password"`
}

var newPasswordRules = []rule{
	{"Token.required", "The reset link is missing its token"},
	{"ConfirmPassword.eqfield", "Passwords don't match!"},
	{"Password.required", "Please enter a new password"},
	{"Password.min", "Password must be at least 8 characters long"},
}

func (f *NewPassword) Validate() error {
	f.Token = strings.TrimSpace(f.Token)
	return check(f, newPasswordRules)
}

// ProjectSubmission is the project submission form
type ProjectSubmission struct {
	Title       string `json:"title" form:"title" validate:"min=3"`
	Description string `json:"description" form:"description" validate:"min=10"`
	RepoURL     string `json:"repo_url" form:"repo_url" validate:"required,url"`
	DemoURL     string `json:"demo_url" form:"demo_url" validate:"omitempty,url"`
	TechStack   string `json:"tech_stack" form:"tech_stack" validate:"min=3"`
}

var projectRules = []rule{
	{"Title.min", "Project title must be at least 3 characters"},
	{"Description.min", "Description must be at least 10 characters"},
	{"RepoURL.required", "Please enter a valid GitHub repository URL"},
	{"RepoURL.url", "Please enter a valid GitHub repository URL"},
	{"DemoURL.url", "Please enter a valid demo URL"},
	{"TechStack.min", "Please list the technologies used"},
}

func (f *ProjectSubmission) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.RepoURL = strings.TrimSpace(f.RepoURL)
	f.DemoURL = strings.TrimSpace(f.DemoURL)
	f.TechStack = strings.TrimSpace(f.TechStack)
	return check(f, projectRules)
}

// Project builds the row to insert for userID
func (f *ProjectSubmission) Project(userID string, now time.Time) model.Project {
	p := model.Project{
		Title:       f.Title,
		Description: f.Description,
		RepoURL:     f.RepoURL,
		TechStack:   f.TechStack,
		UserID:      userID,
		CreatedAt:   model.NewTimestamp(now.UTC()),
	}
	if f.DemoURL != "" {
		demo := f.DemoURL
		p.DemoURL = &demo
	}
	return p
}

// EventRegistration carries optional team details for an event registration
type EventRegistration struct {
	TeamName string   `json:"team_name" form:"team_name" validate:"max=100"`
	Members  []string `json:"members" form:"members" validate:"max=10,dive,required,max=100"`
}

var eventRegistrationRules = []rule{
	{"TeamName.max", "Team name must be at most 100 characters"},
	{"Members.max", "A team can have at most 10 members"},
}

func (f *EventRegistration) Validate() error {
	f.TeamName = strings.TrimSpace(f.TeamName)
	members := f.Members[:0]
	for _, m := range f.Members {
		if m = strings.TrimSpace(m); m != "" {
			members = append(members, m)
		}
	}
	f.Members = members
	return check(f, eventRegistrationRules)
}

// TeamInfo returns nil when no team details were given
func (f *EventRegistration) TeamInfo() *model.TeamInfo {
	if f.TeamName == "" && len(f.Members) == 0 {
		return nil
	}
	return &model.TeamInfo{TeamName: f.TeamName, Members: f.Members}
}
