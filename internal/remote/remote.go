// Package remote defines the Remote Data Client: the typed auth and table
// operations every page relies on, independent of which backend serves them.
package remote

import (
	"context"

	"github.com/existflow/hackersunity/internal/model"
)

// Auth covers account and session operations
type Auth interface {
	// SignUp creates an account. A nil session with a nil error means the
	// backend is waiting for the user to confirm their email.
	SignUp(ctx context.Context, email, password string, profile model.Profile) (*model.Session, error)
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	ResetPassword(ctx context.Context, email string) error
	Refresh(ctx context.Context, refreshToken string) (*model.Session, error)
}

// Data covers row-level access to the platform tables
type Data interface {
	SubmitProject(ctx context.Context, project model.Project) (*model.Project, error)
	ProjectsByUser(ctx context.Context, userID string) ([]model.Project, error)
	ProjectByID(ctx context.Context, id string) (*model.Project, error)

	// Events returns the catalog ordered by start date, earliest first
	Events(ctx context.Context) ([]model.Event, error)
	EventByID(ctx context.Context, id string) (*model.Event, error)

	RegisterForEvent(ctx context.Context, userID, eventID string, team *model.TeamInfo) error
	RegisteredEvents(ctx context.Context, userID string) ([]model.Registration, error)

	AddToCalendar(ctx context.Context, userID, eventID string) error
	RemoveFromCalendar(ctx context.Context, userID, eventID string) error
	CalendarEntries(ctx context.Context, userID string) ([]model.CalendarEntry, error)
}

// Backend is a complete Remote Data Client
type Backend interface {
	Auth
	Data
	Close() error
}

// PasswordResetter is implemented by backends that complete password resets
// themselves instead of through an emailed link to a hosted page
type PasswordResetter interface {
	CompletePasswordReset(ctx context.Context, token, password string) error
}

type accessTokenKey struct{}

// WithAccessToken attaches the caller's access token so backends enforcing
// row-level security act on behalf of that user
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessToken returns the token attached by WithAccessToken, if any
func AccessToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey{}).(string)
	return token, ok && token != ""
}
