package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/logger"
	"github.com/labstack/echo/v4"
)

// Notice is a transient message for the user
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func success(msg string) *Notice {
	return &Notice{Level: "success", Message: msg}
}

func failure(msg string) *Notice {
	return &Notice{Level: "error", Message: msg}
}

type redirectResponse struct {
	Redirect string  `json:"redirect"`
	Notice   *Notice `json:"notice,omitempty"`
}

type errorResponse struct {
	Error  string  `json:"error"`
	Kind   string  `json:"kind,omitempty"`
	Notice *Notice `json:"notice,omitempty"`
}

type messageResponse struct {
	Notice *Notice `json:"notice"`
}

// redirect answers with 303 See Other to a page, carrying the notice in the body
func redirect(c echo.Context, to string, n *Notice) error {
	c.Response().Header().Set(echo.HeaderLocation, to)
	return c.JSON(http.StatusSeeOther, redirectResponse{Redirect: to, Notice: n})
}

// signInURL returns the sign-in page that returns to the current page afterwards
func signInURL(c echo.Context) string {
	if c.Request().Method != http.MethodGet {
		return "/signin"
	}
	return "/signin?next=" + url.QueryEscape(c.Request().URL.RequestURI())
}

// localPath returns next when it is a path on this site, otherwise fallback
func localPath(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}

// remoteStatus maps a backend status to the status sent to the browser
func remoteStatus(upstream int) int {
	switch upstream {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity,
		http.StatusTooManyRequests:
		return upstream
	default:
		return http.StatusBadGateway
	}
}

// handleError converts handler errors into responses
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprint(he.Message)
		if he.Code == http.StatusNotFound {
			msg = "Page not found"
		}
		_ = c.JSON(he.Code, errorResponse{Error: msg})
		return
	}

	var ae *apperr.Error
	if !errors.As(err, &ae) {
		logger.Error("Unhandled error",
			logger.F("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			logger.F("uri", c.Request().RequestURI),
			logger.F("error", err))
		_ = c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	switch ae.Kind {
	case apperr.AuthRequired:
		_ = redirect(c, signInURL(c), failure(ae.Message))
	case apperr.ValidationFailure:
		_ = c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error:  ae.Message,
			Kind:   ae.Kind.String(),
			Notice: failure(ae.Message),
		})
	default:
		logger.Warn("Backend call failed",
			logger.F("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			logger.F("uri", c.Request().RequestURI),
			logger.F("status", ae.Status),
			logger.F("error", err))
		msg := apperr.Message(err, "Something went wrong. Please try again.")
		_ = c.JSON(remoteStatus(ae.Status), errorResponse{
			Error:  msg,
			Kind:   ae.Kind.String(),
			Notice: failure(msg),
		})
	}
}

func (s *Server) handleNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]string{
		"error": "Page not found",
		"path":  c.Request().URL.Path,
	})
}
