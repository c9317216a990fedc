package server

import (
	"net/http"

	"github.com/existflow/hackersunity/internal/catalog"
	"github.com/existflow/hackersunity/internal/content"
	"github.com/existflow/hackersunity/internal/forms"
	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/internal/model"
	"github.com/existflow/hackersunity/internal/session"
	"github.com/labstack/echo/v4"
)

const featuredEvents = 3

type landingResponse struct {
	Stats         []content.Stat `json:"stats"`
	Featured      []model.Event  `json:"featured"`
	Source        catalog.Source `json:"source"`
	Authenticated bool           `json:"authenticated"`
}

type eventsResponse struct {
	Filters []catalog.StatusFilter `json:"filters"`
	Status  catalog.StatusFilter   `json:"status"`
	Search  string                 `json:"search"`
	Events  []model.Event          `json:"events"`
	Total   int                    `json:"total"`
	Source  catalog.Source         `json:"source"`
	Reason  string                 `json:"reason,omitempty"`
}

type eventDetailsResponse struct {
	Event    model.Event    `json:"event"`
	ShareURL string         `json:"share_url"`
	Source   catalog.Source `json:"source"`
}

// handleLanding serves the home page: headline stats and the next events
func (s *Server) handleLanding(c echo.Context) error {
	cat := s.catalog.Load(c.Request().Context())

	live := catalog.Filter(cat.Events, catalog.FilterLive, "")
	featured := append(live, catalog.Filter(cat.Events, catalog.FilterUpcoming, "")...)
	if len(featured) > featuredEvents {
		featured = featured[:featuredEvents]
	}

	return c.JSON(http.StatusOK, landingResponse{
		Stats:         content.HeroStats(len(live)),
		Featured:      featured,
		Source:        cat.Source,
		Authenticated: session.FromEcho(c).State() == session.Authenticated,
	})
}

// handleEvents lists the catalog filtered by ?status= and ?q=
func (s *Server) handleEvents(c echo.Context) error {
	status, err := catalog.ParseStatus(c.QueryParam("status"))
	if err != nil {
		return err
	}
	search := c.QueryParam("q")

	cat := s.catalog.Load(c.Request().Context())
	events := catalog.Filter(cat.Events, status, search)

	return c.JSON(http.StatusOK, eventsResponse{
		Filters: catalog.Filters,
		Status:  status,
		Search:  search,
		Events:  events,
		Total:   len(cat.Events),
		Source:  cat.Source,
		Reason:  cat.Reason,
	})
}

// handleEventDetails shows one event
func (s *Server) handleEventDetails(c echo.Context) error {
	cat := s.catalog.Load(c.Request().Context())
	ev, ok := cat.ByID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Event not found"})
	}

	return c.JSON(http.StatusOK, eventDetailsResponse{
		Event:    ev,
		ShareURL: s.baseURL + "/events/" + ev.ID.String(),
		Source:   cat.Source,
	})
}

// handleEventRegister registers the signed-in user for an event
func (s *Server) handleEventRegister(c echo.Context) error {
	var req forms.EventRegistration
	if err := c.Bind(&req); err != nil {
		return badRequest()
	}
	if err := req.Validate(); err != nil {
		return err
	}

	sess := session.FromEcho(c)
	cur := sess.Current()
	eventID := c.Param("id")

	ctx := sess.RemoteContext(c.Request().Context())
	if err := s.backend.RegisterForEvent(ctx, cur.UserID(), eventID, req.TeamInfo()); err != nil {
		return err
	}

	logger.Info("Registered for event",
		logger.F("user_id", cur.UserID()),
		logger.F("event_id", eventID))

	return c.JSON(http.StatusCreated, messageResponse{
		Notice: success("Successfully registered for the event!"),
	})
}

// handleCalendarAdd puts an event on the signed-in user's calendar
func (s *Server) handleCalendarAdd(c echo.Context) error {
	sess := session.FromEcho(c)
	ev := model.Event{ID: model.ID(c.Param("id"))}

	ctx := sess.RemoteContext(c.Request().Context())
	if err := s.calendar.Add(ctx, sess.Current(), nil, ev); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{
		Notice: success("Event added to your calendar"),
	})
}
