package server

import (
	"errors"
	"net/http"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/forms"
	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/internal/model"
	"github.com/existflow/hackersunity/internal/session"
	"github.com/labstack/echo/v4"
)

type formPage struct {
	Page          string   `json:"page"`
	Fields        []string `json:"fields"`
	Authenticated bool     `json:"authenticated"`
}

type userResponse struct {
	ID      string        `json:"id"`
	Email   string        `json:"email"`
	Profile model.Profile `json:"profile"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Profile: u.Profile}
}

func badRequest() error {
	return apperr.Validation("The form could not be read")
}

// handleSignInPage describes the sign-in form
func (s *Server) handleSignInPage(c echo.Context) error {
	if session.FromEcho(c).State() == session.Authenticated {
		return redirect(c, localPath(c.QueryParam("next"), "/dashboard"), nil)
	}
	return c.JSON(http.StatusOK, formPage{
		Page:   "signin",
		Fields: []string{"email", "password"},
	})
}

// handleSignIn handles email and password sign-in
func (s *Server) handleSignIn(c echo.Context) error {
	var req forms.SignIn
	if err := c.Bind(&req); err != nil {
		return badRequest()
	}
	if err := req.Validate(); err != nil {
		return err
	}

	sess := session.FromEcho(c)
	if err := sess.SignIn(c.Request().Context(), req.Email, req.Password); err != nil {
		// Rejected credentials are an authentication failure, not a bad request
		var e *apperr.Error
		if errors.As(err, &e) && e.Kind == apperr.RemoteFailure && e.Status == http.StatusBadRequest {
			return apperr.Remote(e.Message, http.StatusUnauthorized, e.Err)
		}
		return err
	}

	logger.Info("User signed in", logger.F("user_id", sess.Current().UserID()))
	return redirect(c, localPath(c.QueryParam("next"), "/dashboard"), success("Successfully signed in!"))
}

// handleRegisterPage describes the registration form
func (s *Server) handleRegisterPage(c echo.Context) error {
	return c.JSON(http.StatusOK, formPage{
		Page: "register",
		Fields: []string{
			"name", "college_name", "email", "phone_number", "city", "state", "country",
			"github_url", "portfolio_url", "skills", "bio", "year_of_study",
			"password", "confirm_password", "accept_terms",
		},
		Authenticated: session.FromEcho(c).State() == session.Authenticated,
	})
}

// handleRegister handles account registration
func (s *Server) handleRegister(c echo.Context) error {
	var req forms.Registration
	if err := c.Bind(&req); err != nil {
		return badRequest()
	}
	if err := req.Validate(); err != nil {
		return err
	}

	sess := session.FromEcho(c)
	pending, err := sess.Register(c.Request().Context(), req.Email, req.Password, req.Profile())
	if err != nil {
		return err
	}

	if pending {
		logger.Info("Registration awaiting email confirmation")
		return c.JSON(http.StatusOK, messageResponse{
			Notice: success("Please check your email to confirm your account"),
		})
	}

	logger.Info("User registered", logger.F("user_id", sess.Current().UserID()))
	return redirect(c, "/dashboard", success("Account created successfully!"))
}

// handleSignOut ends the session
func (s *Server) handleSignOut(c echo.Context) error {
	sess := session.FromEcho(c)
	if err := sess.SignOut(c.Request().Context()); err != nil {
		// The local session is gone either way
		logger.Warn("Failed to revoke session", logger.F("error", err))
	}
	return redirect(c, "/", success("You have been signed out"))
}
