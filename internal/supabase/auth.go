package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// userResponse is the GoTrue user object
type userResponse struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	UserMetadata model.Profile   `json:"user_metadata"`
	CreatedAt    time.Time       `json:"created_at"`
	Identities   []identityEntry `json:"identities"`
}

type identityEntry struct {
	ID string `json:"id"`
}

// tokenResponse covers both token grants and sign-up. When sign-up needs email
// confirmation GoTrue returns the bare user object, so the user fields are
// embedded at the top level too.
type tokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	ExpiresAt    int64         `json:"expires_at"`
	User         *userResponse `json:"user"`
	userResponse
}

func (u userResponse) toModel() model.User {
	return model.User{
		ID:        u.ID,
		Email:     u.Email,
		Profile:   u.UserMetadata,
		CreatedAt: u.CreatedAt,
	}
}

// session converts a token response, or returns nil when no session was issued
func (c *Client) session(resp *tokenResponse) *model.Session {
	if resp.AccessToken == "" {
		return nil
	}

	s := &model.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if resp.User != nil {
		s.User = resp.User.toModel()
	}

	// The backend verifies the signature; the claims are only read here
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(resp.AccessToken, &claims); err == nil {
		if claims.ExpiresAt != nil {
			s.ExpiresAt = claims.ExpiresAt.Time
		}
		if s.User.ID == "" {
			s.User.ID = claims.Subject
		}
	} else {
		logger.Debug("Access token is not a readable JWT", logger.F("error", err))
	}

	switch {
	case resp.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(resp.ExpiresAt, 0)
	case s.ExpiresAt.IsZero() && resp.ExpiresIn > 0:
		s.ExpiresAt = c.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	return s
}

func (c *Client) token(ctx context.Context, grant string, body interface{}) (*model.Session, error) {
	var resp tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {grant}},
		body:   body,
	}, &resp)
	if err != nil {
		return nil, err
	}

	s := c.session(&resp)
	if s == nil {
		return nil, apperr.Remote("The server did not return a session.", http.StatusOK, errors.New("empty access token"))
	}
	return s, nil
}

// SignUp creates an account with profile metadata
func (c *Client) SignUp(ctx context.Context, email, password string, profile model.Profile) (*model.Session, error) {
	var resp tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body: map[string]interface{}{
			"email":    email,
			"password": password,
			"data":     profile,
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	s := c.session(&resp)
	if s == nil {
		logger.Info("Sign-up awaiting email confirmation", logger.F("user_id", resp.ID))
	}
	return s, nil
}

// SignIn exchanges email and password for a session
func (c *Client) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	return c.token(ctx, "password", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Refresh exchanges a refresh token for a new session
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*model.Session, error) {
	return c.token(ctx, "refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
}

// SignOut revokes the session behind accessToken
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		bearer: accessToken,
	}, nil)
}

// ResetPassword asks the backend to email password reset instructions
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/recover",
		body:   map[string]string{"email": email},
	}, nil)
}
