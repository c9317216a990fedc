package calendar

import (
	"time"

	"github.com/existflow/hackersunity/internal/model"
)

// View is one user's calendar page: the entries, the day in focus and the
// event selected for details
type View struct {
	Day      time.Time
	Entries  []model.CalendarEntry
	Selected *model.Event
}

// NewView creates a view focused on day
func NewView(day time.Time, entries []model.CalendarEntry) *View {
	return &View{Day: day, Entries: entries}
}

// Month returns the month in focus
func (v *View) Month() Month {
	return MonthOf(v.Day)
}

func (v *View) NextMonth() {
	v.Day = AddMonths(v.Day, 1)
}

func (v *View) PrevMonth() {
	v.Day = AddMonths(v.Day, -1)
}

// MonthEntries returns the entries in the month in focus
func (v *View) MonthEntries() []model.CalendarEntry {
	return EntriesForMonth(v.Entries, v.Month())
}

// DayEntries returns the entries on the day in focus
func (v *View) DayEntries() []model.CalendarEntry {
	return EntriesForDay(v.Entries, v.Day)
}

// SelectDay focuses day and selects its first event, or clears the selection
// when the day has none
func (v *View) SelectDay(day time.Time) {
	v.Day = day
	v.Selected = nil
	if onDay := EntriesForDay(v.Entries, day); len(onDay) > 0 {
		ev := onDay[0].Event
		v.Selected = &ev
	}
}

// Select selects the event with eventID. It returns false when the event is
// not on the calendar.
func (v *View) Select(eventID string) bool {
	i := v.index(eventID)
	if i < 0 {
		return false
	}
	ev := v.Entries[i].Event
	v.Selected = &ev
	return true
}

// Has reports whether eventID is on the calendar
func (v *View) Has(eventID string) bool {
	return v.index(eventID) >= 0
}

func (v *View) index(eventID string) int {
	for i, e := range v.Entries {
		if entryEventID(e) == eventID {
			return i
		}
	}
	return -1
}

func entryEventID(e model.CalendarEntry) string {
	if e.EventID != "" {
		return e.EventID.String()
	}
	return e.Event.ID.String()
}
