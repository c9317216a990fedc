package server

import (
	"net/http"

	"github.com/existflow/hackersunity/internal/forms"
	"github.com/existflow/hackersunity/internal/remote"
	"github.com/labstack/echo/v4"
)

// handleResetPage describes the password reset form
func (s *Server) handleResetPage(c echo.Context) error {
	fields := []string{"email"}
	if _, ok := s.backend.(remote.PasswordResetter); ok {
		fields = append(fields, "token", "password", "confirm_password")
	}
	return c.JSON(http.StatusOK, formPage{
		Page:   "reset-password",
		Fields: fields,
	})
}

// handleResetRequest asks the backend to send reset instructions
func (s *Server) handleResetRequest(c echo.Context) error {
	var req forms.PasswordReset
	if err := c.Bind(&req); err != nil {
		return badRequest()
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.backend.ResetPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return redirect(c, "/signin", success("Password reset instructions sent to your email!"))
}

// handleResetConfirm sets a new password with a reset token. Only backends
// that issue their own tokens support it; hosted auth finishes the reset on
// its own page.
func (s *Server) handleResetConfirm(c echo.Context) error {
	resetter, ok := s.backend.(remote.PasswordResetter)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Password reset is completed through the emailed link",
		})
	}

	var req forms.NewPassword
	if err := c.Bind(&req); err != nil {
		return badRequest()
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := resetter.CompletePasswordReset(c.Request().Context(), req.Token, req.Password); err != nil {
		return err
	}

	return redirect(c, "/signin", success("Your password has been updated. Please sign in."))
}
