package server

import (
	"net/http"
	"time"

	"github.com/existflow/hackersunity/internal/calendar"
	"github.com/existflow/hackersunity/internal/model"
	"github.com/existflow/hackersunity/internal/session"
	"github.com/labstack/echo/v4"
)

type calendarResponse struct {
	Month       string                `json:"month"`
	Day         string                `json:"day"`
	EventDays   []int                 `json:"event_days"`
	MonthEvents []model.CalendarEntry `json:"month_events"`
	DayEvents   []model.CalendarEntry `json:"day_events"`
	Selected    *model.Event          `json:"selected,omitempty"`
	Total       int                   `json:"total"`
}

// focusDay resolves ?month=YYYY-MM and ?day=YYYY-MM-DD. A day wins over a month;
// with neither the view opens on today.
func (s *Server) focusDay(c echo.Context) (time.Time, bool, error) {
	if d := c.QueryParam("day"); d != "" {
		day, err := calendar.ParseDay(d)
		return day, true, err
	}
	if m := c.QueryParam("month"); m != "" {
		month, err := calendar.ParseMonth(m)
		return month.First(), false, err
	}
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), false, nil
}

// handleCalendar shows the user's calendar for a month and day
func (s *Server) handleCalendar(c echo.Context) error {
	day, daySelected, err := s.focusDay(c)
	if err != nil {
		return err
	}

	sess := session.FromEcho(c)
	ctx := sess.RemoteContext(c.Request().Context())
	view, err := s.calendar.Load(ctx, sess.Current(), day)
	if err != nil {
		return err
	}

	if daySelected {
		view.SelectDay(day)
	}
	if id := c.QueryParam("event"); id != "" {
		view.Select(id)
	}

	return c.JSON(http.StatusOK, calendarResponse{
		Month:       view.Month().String(),
		Day:         view.Day.Format("2006-01-02"),
		EventDays:   calendar.EventDays(view.Entries, view.Month()),
		MonthEvents: view.MonthEntries(),
		DayEvents:   view.DayEntries(),
		Selected:    view.Selected,
		Total:       len(view.Entries),
	})
}

// handleCalendarRemove takes an event off the user's calendar
func (s *Server) handleCalendarRemove(c echo.Context) error {
	sess := session.FromEcho(c)
	ctx := sess.RemoteContext(c.Request().Context())

	view, err := s.calendar.Load(ctx, sess.Current(), s.now())
	if err != nil {
		return err
	}
	if err := s.calendar.Remove(ctx, sess.Current(), view, c.Param("eventID")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{
		Notice: success("Event removed from calendar"),
	})
}

// handleCalendarExport downloads the user's calendar as an iCalendar file
func (s *Server) handleCalendarExport(c echo.Context) error {
	sess := session.FromEcho(c)
	ctx := sess.RemoteContext(c.Request().Context())

	view, err := s.calendar.Load(ctx, sess.Current(), s.now())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="hackersunity.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar.ExportICS(view.Entries, s.now())))
}
