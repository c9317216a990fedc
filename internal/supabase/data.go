package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/model"
)

const (
	tableProjects      = "/rest/v1/projects"
	tableEvents        = "/rest/v1/events"
	tableRegistrations = "/rest/v1/event_registrations"
	tableCalendars     = "/rest/v1/user_calendars"

	selectWithEvent = "*,events:event_id(*)"
)

func errNotFound(what string) error {
	return apperr.Remote(what+" not found", http.StatusNotFound, errors.New("no rows"))
}

// SubmitProject inserts a project and returns the stored row
func (c *Client) SubmitProject(ctx context.Context, project model.Project) (*model.Project, error) {
	if project.CreatedAt.IsZero() {
		project.CreatedAt = model.NewTimestamp(c.now().UTC())
	}

	var rows []model.Project
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   tableProjects,
		body:   []model.Project{project},
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &project, nil
	}
	return &rows[0], nil
}

// ProjectsByUser lists a user's projects, newest first
func (c *Client) ProjectsByUser(ctx context.Context, userID string) ([]model.Project, error) {
	var rows []model.Project
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   tableProjects,
		query: url.Values{
			"select":  {"*"},
			"user_id": {eq(userID)},
			"order":   {"created_at.desc"},
		},
	}, &rows)
	return rows, err
}

// ProjectByID fetches one project
func (c *Client) ProjectByID(ctx context.Context, id string) (*model.Project, error) {
	var rows []model.Project
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   tableProjects,
		query:  url.Values{"select": {"*"}, "id": {eq(id)}},
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errNotFound("Project")
	}
	return &rows[0], nil
}

// Events lists the catalog ordered by start date
func (c *Client) Events(ctx context.Context) ([]model.Event, error) {
	var rows []model.Event
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   tableEvents,
		query:  url.Values{"select": {"*"}, "order": {"start_date.asc"}},
	}, &rows)
	return rows, err
}

// EventByID fetches one event
func (c *Client) EventByID(ctx context.Context, id string) (*model.Event, error) {
	var rows []model.Event
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   tableEvents,
		query:  url.Values{"select": {"*"}, "id": {eq(id)}},
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errNotFound("Event")
	}
	return &rows[0], nil
}

// RegisterForEvent records a registration with optional team info
func (c *Client) RegisterForEvent(ctx context.Context, userID, eventID string, team *model.TeamInfo) error {
	row := model.Registration{
		EventID:      model.ID(eventID),
		UserID:       userID,
		TeamInfo:     team,
		RegisteredAt: model.NewTimestamp(c.now().UTC()),
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   tableRegistrations,
		body:   []model.Registration{row},
		prefer: "return=minimal",
	}, nil)
	if isConflict(err) {
		return apperr.Remote("You are already registered for this event", http.StatusConflict, err)
	}
	return err
}

// RegisteredEvents lists a user's registrations joined to their events
func (c *Client) RegisteredEvents(ctx context.Context, userID string) ([]model.Registration, error) {
	var rows []model.Registration
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   tableRegistrations,
		query:  url.Values{"select": {selectWithEvent}, "user_id": {eq(userID)}},
	}, &rows)
	return rows, err
}

// AddToCalendar bookmarks an event on the user's calendar
func (c *Client) AddToCalendar(ctx context.Context, userID, eventID string) error {
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   tableCalendars,
		body: []map[string]string{{
			"user_id":  userID,
			"event_id": eventID,
			"added_at": model.NewTimestamp(c.now().UTC()).String(),
		}},
		prefer: "return=minimal",
	}, nil)
	if isConflict(err) {
		return apperr.Remote("Event is already in your calendar", http.StatusConflict, err)
	}
	return err
}

// RemoveFromCalendar deletes the (user, event) entry. Deleting a missing entry succeeds.
func (c *Client) RemoveFromCalendar(ctx context.Context, userID, eventID string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   tableCalendars,
		query:  url.Values{"user_id": {eq(userID)}, "event_id": {eq(eventID)}},
	}, nil)
}

// CalendarEntries lists the user's calendar joined to events
func (c *Client) CalendarEntries(ctx context.Context, userID string) ([]model.CalendarEntry, error) {
	var rows []model.CalendarEntry
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   tableCalendars,
		query:  url.Values{"select": {selectWithEvent}, "user_id": {eq(userID)}},
	}, &rows)
	return rows, err
}

func isConflict(err error) bool {
	var e *apperr.Error
	return errors.As(err, &e) && e.Status == http.StatusConflict
}
