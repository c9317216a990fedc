package server

import (
	"net/http"

	"github.com/existflow/hackersunity/internal/forms"
	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/internal/model"
	"github.com/existflow/hackersunity/internal/session"
	"github.com/labstack/echo/v4"
)

type dashboardResponse struct {
	User       userResponse         `json:"user"`
	Projects   []model.Project      `json:"projects"`
	Registered []model.Registration `json:"registered_events"`
	Notices    []*Notice            `json:"notices,omitempty"`
}

// handleSubmitPage describes the project submission form
func (s *Server) handleSubmitPage(c echo.Context) error {
	return c.JSON(http.StatusOK, formPage{
		Page:          "submit-project",
		Fields:        []string{"title", "description", "repo_url", "demo_url", "tech_stack"},
		Authenticated: true,
	})
}

// handleSubmitProject stores a project for the signed-in user
func (s *Server) handleSubmitProject(c echo.Context) error {
	var req forms.ProjectSubmission
	if err := c.Bind(&req); err != nil {
		return badRequest()
	}
	if err := req.Validate(); err != nil {
		return err
	}

	sess := session.FromEcho(c)
	cur := sess.Current()

	ctx := sess.RemoteContext(c.Request().Context())
	project, err := s.backend.SubmitProject(ctx, req.Project(cur.UserID(), s.now()))
	if err != nil {
		return err
	}

	logger.Info("Project submitted",
		logger.F("user_id", cur.UserID()),
		logger.F("project_id", project.ID.String()))

	return redirect(c, "/dashboard", success("Project submitted successfully!"))
}

// handleDashboard lists the user's projects and registered events. A failed
// list is reported as a notice next to whatever did load.
func (s *Server) handleDashboard(c echo.Context) error {
	sess := session.FromEcho(c)
	cur := sess.Current()
	ctx := sess.RemoteContext(c.Request().Context())

	resp := dashboardResponse{
		User:       newUserResponse(cur.User),
		Projects:   []model.Project{},
		Registered: []model.Registration{},
	}

	projects, err := s.backend.ProjectsByUser(ctx, cur.UserID())
	if err != nil {
		logger.Warn("Error fetching projects", logger.F("user_id", cur.UserID()), logger.F("error", err))
		resp.Notices = append(resp.Notices, failure("Failed to load your projects"))
	} else if projects != nil {
		resp.Projects = projects
	}

	registered, err := s.backend.RegisteredEvents(ctx, cur.UserID())
	if err != nil {
		logger.Warn("Error fetching registrations", logger.F("user_id", cur.UserID()), logger.F("error", err))
		resp.Notices = append(resp.Notices, failure("Failed to load your registered events"))
	} else if registered != nil {
		resp.Registered = registered
	}

	return c.JSON(http.StatusOK, resp)
}
