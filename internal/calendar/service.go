package calendar

import (
	"context"
	"time"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/internal/model"
)

const (
	MsgSignInToAdd    = "Please sign in to add events to your calendar"
	MsgSignInToView   = "You must be signed in to view your calendar"
	MsgSignInToRemove = "You must be logged in to remove events"
)

// Remote is the part of the Remote Data Client the calendar needs
type Remote interface {
	AddToCalendar(ctx context.Context, userID, eventID string) error
	RemoveFromCalendar(ctx context.Context, userID, eventID string) error
	CalendarEntries(ctx context.Context, userID string) ([]model.CalendarEntry, error)
}

// Service applies calendar changes for a signed-in user. Add and remove both
// update the view first and undo the change when the backend call fails.
type Service struct {
	remote Remote
	now    func() time.Time
}

// NewService creates a calendar service
func NewService(remote Remote) *Service {
	return &Service{remote: remote, now: time.Now}
}

// Load fetches the user's entries into a view focused on day
func (s *Service) Load(ctx context.Context, sess *model.Session, day time.Time) (*View, error) {
	if sess == nil {
		return nil, apperr.NewAuthRequired(MsgSignInToView)
	}

	entries, err := s.remote.CalendarEntries(ctx, sess.UserID())
	if err != nil {
		logger.Error("Error fetching calendar events",
			logger.F("user_id", sess.UserID()),
			logger.F("error", err),
		)
		return nil, apperr.Remote("Failed to load calendar events", 0, err)
	}
	return NewView(day, entries), nil
}

// Add puts event on the user's calendar. view may be nil when the caller has
// no calendar loaded, for example when adding from the event list.
func (s *Service) Add(ctx context.Context, sess *model.Session, view *View, event model.Event) error {
	if sess == nil {
		return apperr.NewAuthRequired(MsgSignInToAdd)
	}

	eventID := event.ID.String()
	added := false
	if view != nil && !view.Has(eventID) {
		view.Entries = append(view.Entries, model.CalendarEntry{
			UserID:  sess.UserID(),
			EventID: event.ID,
			AddedAt: model.NewTimestamp(s.now().UTC()),
			Event:   event,
		})
		added = true
	}

	if err := s.remote.AddToCalendar(ctx, sess.UserID(), eventID); err != nil {
		if added {
			view.Entries = view.Entries[:len(view.Entries)-1]
		}
		return err
	}

	logger.Info("Event added to calendar",
		logger.F("user_id", sess.UserID()),
		logger.F("event_id", eventID),
	)
	return nil
}

// Remove takes eventID off the user's calendar. Removing an event the view
// does not hold succeeds without a backend call. When the removed event was
// selected the selection is cleared.
func (s *Service) Remove(ctx context.Context, sess *model.Session, view *View, eventID string) error {
	if sess == nil {
		return apperr.NewAuthRequired(MsgSignInToRemove)
	}

	var (
		index    = -1
		removed  model.CalendarEntry
		selected *model.Event
	)
	if view != nil {
		index = view.index(eventID)
		if index < 0 {
			return nil
		}
		removed = view.Entries[index]
		selected = view.Selected
		view.Entries = append(view.Entries[:index:index], view.Entries[index+1:]...)
		if view.Selected != nil && view.Selected.ID.String() == eventID {
			view.Selected = nil
		}
	}

	if err := s.remote.RemoveFromCalendar(ctx, sess.UserID(), eventID); err != nil {
		if view != nil {
			restored := make([]model.CalendarEntry, 0, len(view.Entries)+1)
			restored = append(restored, view.Entries[:index]...)
			restored = append(restored, removed)
			restored = append(restored, view.Entries[index:]...)
			view.Entries = restored
			view.Selected = selected
		}
		return apperr.Remote(apperr.Message(err, "Failed to remove event from calendar"), 0, err)
	}

	logger.Info("Event removed from calendar",
		logger.F("user_id", sess.UserID()),
		logger.F("event_id", eventID),
	)
	return nil
}
