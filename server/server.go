package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/hackersunity/internal/calendar"
	"github.com/existflow/hackersunity/internal/catalog"
	"github.com/existflow/hackersunity/internal/remote"
	"github.com/existflow/hackersunity/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server is the platform web server
type Server struct {
	backend  remote.Backend
	store    session.Store
	catalog  *catalog.Loader
	calendar *calendar.Service
	baseURL  string
	origins  []string
	now      func() time.Time
	echo     *echo.Echo
}

// Options configures a Server
type Options struct {
	Backend remote.Backend
	Store   session.Store
	// BaseURL is the public origin used in share links
	BaseURL string
	// AllowedOrigins may send credentialed cross-origin requests; defaults to BaseURL
	AllowedOrigins []string
}

// New creates a new server
func New(opts Options) *Server {
	s := &Server{
		backend:  opts.Backend,
		store:    opts.Store,
		catalog:  catalog.NewLoader(opts.Backend),
		calendar: calendar.NewService(opts.Backend),
		baseURL:  opts.BaseURL,
		origins:  opts.AllowedOrigins,
		now:      time.Now,
	}
	if len(s.origins) == 0 && s.baseURL != "" {
		s.origins = []string{strings.TrimRight(s.baseURL, "/")}
	}
	if s.store == nil {
		s.store = session.NewMemoryStore(7*24*time.Hour, false)
	}

	// Setup Echo
	s.setupEcho()

	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestID())
	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.origins,
		AllowCredentials: true,
	}))
	e.Use(session.Load(s.backend, s.store))

	// Health check
	e.GET("/health", s.handleHealth)

	// Public pages
	e.GET("/", s.handleLanding)
	e.GET("/events", s.handleEvents)
	e.GET("/events/:id", s.handleEventDetails)
	e.GET("/leaderboard", s.handleLeaderboard)
	e.GET("/community", s.handleCommunity)
	e.GET("/resources", s.handleResources)

	// Auth forms
	e.GET("/signin", s.handleSignInPage)
	e.POST("/signin", s.handleSignIn)
	e.GET("/register", s.handleRegisterPage)
	e.POST("/register", s.handleRegister)
	e.GET("/reset-password", s.handleResetPage)
	e.POST("/reset-password", s.handleResetRequest)
	e.POST("/reset-password/confirm", s.handleResetConfirm)
	e.POST("/signout", s.handleSignOut)

	// Protected endpoints
	e.POST("/events/:id/register", s.handleEventRegister,
		session.Guard("Please sign in first to register for events"))
	e.POST("/events/:id/calendar", s.handleCalendarAdd,
		session.Guard(calendar.MsgSignInToAdd))

	e.GET("/submit-project", s.handleSubmitPage,
		session.Guard("You must be signed in to submit a project"))
	e.POST("/submit-project", s.handleSubmitProject,
		session.Guard("You must be signed in to submit a project"))
	e.GET("/dashboard", s.handleDashboard,
		session.Guard("You must be signed in to view your dashboard"))

	calendarGuard := session.Guard(calendar.MsgSignInToView)
	e.GET("/calendar", s.handleCalendar, calendarGuard)
	e.GET("/calendar.ics", s.handleCalendarExport, calendarGuard)
	e.DELETE("/calendar/:eventID", s.handleCalendarRemove, calendarGuard)

	e.RouteNotFound("/*", s.handleNotFound)

	s.echo = e
}

// Close releases the backend
func (s *Server) Close() error {
	return s.backend.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
