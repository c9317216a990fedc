package forms

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() Registration {
	return Registration{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		City:            " Delhi ",
		GithubURL:       "https://github.com/ada",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		AcceptTerms:     true,
	}
}

func assertValidation(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Equal(t, msg, apperr.Message(err, ""))
}

func TestRegistration_Valid(t *testing.T) {
	f := validRegistration()
	require.NoError(t, f.Validate())

	p := f.Profile()
	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.Equal(t, "Delhi", p.City)
	assert.Equal(t, "https://github.com/ada", p.GithubURL)
}

func TestRegistration_ShortPassword(t *testing.T) {
	f := validRegistration()
	f.Password, f.ConfirmPassword = "short1", "short1"
	assertValidation(t, f.Validate(), "Password must be at least 8 characters long")
}

func TestRegistration_FreeTextLimits(t *testing.T) {
	f := validRegistration()
	f.Bio = strings.Repeat("a", 1000)
	require.NoError(t, f.Validate())

	f.Bio = strings.Repeat("a", 4000)
	assertValidation(t, f.Validate(), "Bio must be at most 1000 characters")

	f = validRegistration()
	f.City = strings.Repeat("x", 101)
	assertValidation(t, f.Validate(), "Please keep profile fields short")
}

func TestRegistration_CheckOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Registration)
		want   string
	}{
		{"mismatch wins over everything", func(f *Registration) {
			f.Name, f.AcceptTerms = "", false
			f.Password, f.ConfirmPassword = "short1", "short2"
		}, "Passwords don't match!"},
		{"missing name", func(f *Registration) { f.Name = "  " }, "Please fill in all required fields"},
		{"missing password", func(f *Registration) { f.Password, f.ConfirmPassword = "", "" }, "Please fill in all required fields"},
		{"required before terms", func(f *Registration) { f.Email, f.AcceptTerms = "", false }, "Please fill in all required fields"},
		{"terms before length", func(f *Registration) {
			f.AcceptTerms = false
			f.Password, f.ConfirmPassword = "short1", "short1"
		}, "You must accept the Terms of Service and Privacy Policy"},
		{"bad email", func(f *Registration) { f.Email = "ada-at-example" }, "Please enter a valid email address."},
		{"bad github url", func(f *Registration) { f.GithubURL = "not a url" }, "Please enter a valid GitHub profile URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validRegistration()
			tt.mutate(&f)
			assertValidation(t, f.Validate(), tt.want)
		})
	}
}

func TestSignIn(t *testing.T) {
	f := SignIn{Email: " ada@example.com ", Password: "x"}
	require.NoError(t, f.Validate())
	assert.Equal(t, "ada@example.com", f.Email)

	assertValidation(t, (&SignIn{Email: "ada@example.com"}).Validate(), "Please enter your email and password.")
	assertValidation(t, (&SignIn{Password: "x"}).Validate(), "Please enter your email and password.")
	assertValidation(t, (&SignIn{Email: "ada", Password: "x"}).Validate(), "Please enter a valid email address.")
}

func TestPasswordReset(t *testing.T) {
	require.NoError(t, (&PasswordReset{Email: "ada@example.com"}).Validate())
	assertValidation(t, (&PasswordReset{}).Validate(), "Please enter your email address.")
}

func TestNewPassword(t *testing.T) {
	require.NoError(t, (&NewPassword{Token: "abc", Password: "longenough", ConfirmPassword: "longenough"}).Validate())
	assertValidation(t, (&NewPassword{Password: "longenough", ConfirmPassword: "longenough"}).Validate(), "The reset link is missing its token")
	assertValidation(t, (&NewPassword{Token: "abc", Password: "longenough", ConfirmPassword: "other"}).Validate(), "Passwords don't match!")
	assertValidation(t, (&NewPassword{Token: "abc", Password: "short", ConfirmPassword: "short"}).Validate(), "Password must be at least 8 characters long")
}

func TestProjectSubmission(t *testing.T) {
	valid := func() ProjectSubmission {
		return ProjectSubmission{
			Title:       "Green Grid",
			Description: "Energy dashboard for campuses",
			RepoURL:     "https://github.com/ada/green-grid",
			TechStack:   "Go, Postgres",
		}
	}

	f := valid()
	require.NoError(t, f.Validate())
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	p := f.Project("user-1", now)
	assert.Equal(t, "user-1", p.UserID)
	assert.Nil(t, p.DemoURL)
	assert.True(t, p.CreatedAt.Equal(now))

	f.DemoURL = "https://green-grid.example.com"
	require.NoError(t, f.Validate())
	p = f.Project("user-1", now)
	require.NotNil(t, p.DemoURL)
	assert.Equal(t, "https://green-grid.example.com", *p.DemoURL)

	tests := []struct {
		mutate func(*ProjectSubmission)
		want   string
	}{
		{func(f *ProjectSubmission) { f.Title = "GG" }, "Project title must be at least 3 characters"},
		{func(f *ProjectSubmission) { f.Description = "short" }, "Description must be at least 10 characters"},
		{func(f *ProjectSubmission) { f.RepoURL = "" }, "Please enter a valid GitHub repository URL"},
		{func(f *ProjectSubmission) { f.RepoURL = "github" }, "Please enter a valid GitHub repository URL"},
		{func(f *ProjectSubmission) { f.DemoURL = "demo" }, "Please enter a valid demo URL"},
		{func(f *ProjectSubmission) { f.TechStack = "Go" }, "Please list the technologies used"},
	}
	for _, tt := range tests {
		f := valid()
		tt.mutate(&f)
		assertValidation(t, f.Validate(), tt.want)
	}
}

func TestEventRegistration(t *testing.T) {
	f := EventRegistration{}
	require.NoError(t, f.Validate())
	assert.Nil(t, f.TeamInfo())

	f = EventRegistration{TeamName: " Engines ", Members: []string{"ada", " ", "charles"}}
	require.NoError(t, f.Validate())
	team := f.TeamInfo()
	require.NotNil(t, team)
	assert.Equal(t, "Engines", team.TeamName)
	assert.Equal(t, []string{"ada", "charles"}, team.Members)

	f = EventRegistration{Members: make([]string, 11)}
	for i := range f.Members {
		f.Members[i] = "member"
	}
	assertValidation(t, f.Validate(), "A team can have at most 10 members")
}
