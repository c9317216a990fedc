// Package session holds the per-request Session Context: who the caller is,
// how their session is stored between requests, and the route guard that
// keeps unauthenticated callers out of protected pages.
package session

import (
	"context"
	"time"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/internal/model"
	"github.com/existflow/hackersunity/internal/remote"
	"github.com/labstack/echo/v4"
)

// State is the authentication state of a request
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

const echoKey = "session"

// Context is the session of one request. It is created by Load and read by
// handlers through FromEcho.
type Context struct {
	auth    remote.Auth
	store   Store
	c       echo.Context
	now     func() time.Time
	current *model.Session
}

// New creates an unauthenticated Context for c
func New(auth remote.Auth, store Store, c echo.Context) *Context {
	return &Context{
		auth:  auth,
		store: store,
		c:     c,
		now:   time.Now,
	}
}

// State reports whether the request carries a session
func (s *Context) State() State {
	if s == nil || s.current == nil {
		return Unauthenticated
	}
	return Authenticated
}

// Current returns the session, or nil when unauthenticated
func (s *Context) Current() *model.Session {
	if s == nil {
		return nil
	}
	return s.current
}

// Require returns the session or an AuthRequired error carrying message
func (s *Context) Require(message string) (*model.Session, error) {
	if cur := s.Current(); cur != nil {
		return cur, nil
	}
	return nil, apperr.NewAuthRequired(message)
}

// RemoteContext attaches the session's access token to ctx for backend calls
func (s *Context) RemoteContext(ctx context.Context) context.Context {
	if cur := s.Current(); cur != nil {
		return remote.WithAccessToken(ctx, cur.AccessToken)
	}
	return ctx
}

// resolve reads the stored session and refreshes it when expired
func (s *Context) resolve(ctx context.Context) error {
	stored, err := s.store.Load(s.c)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}

	s.current = stored
	if stored.ExpiredAt(s.now()) {
		return s.Refresh(ctx)
	}
	return nil
}

// SignIn authenticates with the backend and stores the new session
func (s *Context) SignIn(ctx context.Context, email, password string) error {
	sess, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	return s.set(sess)
}

// Register creates an account. It returns pending=true when the backend issued
// no session because the email address must be confirmed first.
func (s *Context) Register(ctx context.Context, email, password string, profile model.Profile) (pending bool, err error) {
	sess, err := s.auth.SignUp(ctx, email, password, profile)
	if err != nil {
		return false, err
	}
	if sess == nil {
		return true, nil
	}
	return false, s.set(sess)
}

// SignOut ends the session. Local state is always cleared; a failure to revoke
// the token upstream is returned after that.
func (s *Context) SignOut(ctx context.Context) error {
	cur := s.current
	s.current = nil
	if err := s.store.Clear(s.c); err != nil {
		logger.Warn("Failed to clear stored session", logger.F("error", err))
	}

	if cur == nil {
		return nil
	}
	return s.auth.SignOut(ctx, cur.AccessToken)
}

// Refresh exchanges the refresh token for a new session. On failure the
// session is dropped and the request continues unauthenticated.
func (s *Context) Refresh(ctx context.Context) error {
	cur := s.current
	if cur == nil || cur.RefreshToken == "" {
		s.drop()
		return apperr.NewAuthRequired("Your session has expired. Please sign in again.")
	}

	sess, err := s.auth.Refresh(ctx, cur.RefreshToken)
	if err != nil {
		s.drop()
		return err
	}

	logger.Debug("Session refreshed", logger.F("user_id", sess.UserID()))
	return s.set(sess)
}

func (s *Context) set(sess *model.Session) error {
	if err := s.store.Save(s.c, sess); err != nil {
		return err
	}
	s.current = sess
	return nil
}

func (s *Context) drop() {
	s.current = nil
	if err := s.store.Clear(s.c); err != nil {
		logger.Warn("Failed to clear stored session", logger.F("error", err))
	}
}

// Load resolves the caller's session before the handler runs
func Load(auth remote.Auth, store Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := New(auth, store, c)
			if err := sess.resolve(c.Request().Context()); err != nil {
				logger.Warn("Session could not be restored",
					logger.F("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
					logger.F("error", err),
				)
			}
			c.Set(echoKey, sess)
			return next(c)
		}
	}
}

// FromEcho returns the Context set by Load. Without Load it returns nil, which
// reads as unauthenticated.
func FromEcho(c echo.Context) *Context {
	sess, _ := c.Get(echoKey).(*Context)
	return sess
}

// Guard rejects unauthenticated requests with an AuthRequired error before the
// protected handler runs
func Guard(message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if FromEcho(c).State() != Authenticated {
				return apperr.NewAuthRequired(message)
			}
			return next(c)
		}
	}
}
