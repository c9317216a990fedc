package calendar

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/existflow/hackersunity/internal/model"
)

const (
	icsProductID = "-//Hacker's Unity//Calendar//EN"
	// floating local time, matching how event dates are stored
	icsLocalLayout = "20060102T150405"
)

// ExportICS renders entries as an iCalendar document. Event times are written
// as floating local times so the wall-clock value is preserved.
func ExportICS(entries []model.CalendarEntry, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetName("Hacker's Unity")

	for _, e := range entries {
		ev := e.Event
		vevent := cal.AddEvent("event-" + entryEventID(e) + "@hackersunity")
		vevent.SetDtStampTime(now.UTC())
		vevent.SetSummary(ev.Title)
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		if !ev.StartDate.IsZero() {
			vevent.SetProperty(ical.ComponentPropertyDtStart, ev.StartDate.Format(icsLocalLayout))
		}
		if !ev.EndDate.IsZero() {
			vevent.SetProperty(ical.ComponentPropertyDtEnd, ev.EndDate.Format(icsLocalLayout))
		}
		if len(ev.Tags) > 0 {
			vevent.SetProperty(ical.ComponentPropertyCategories, strings.Join(ev.Tags, ","))
		}
	}

	return cal.Serialize()
}
