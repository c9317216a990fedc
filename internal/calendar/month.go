// Package calendar groups a user's calendar entries by month and day and
// applies add and remove operations against the backend.
//
// Dates are compared on the wall-clock date the backend stored for the event
// start. No timezone conversion is applied.
package calendar

import (
	"fmt"
	"time"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/model"
)

// Month is a calendar month
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses YYYY-MM
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, apperr.Validation(fmt.Sprintf("Invalid month %q, expected YYYY-MM", s))
	}
	return MonthOf(t), nil
}

// ParseDay parses YYYY-MM-DD
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperr.Validation(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", s))
	}
	return t, nil
}

// First returns midnight of the first day
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Days returns the number of days in the month
func (m Month) Days() int {
	return daysIn(m.Year, m.Month)
}

func (m Month) Next() Month {
	return MonthOf(m.First().AddDate(0, 1, 0))
}

func (m Month) Prev() Month {
	return MonthOf(m.First().AddDate(0, -1, 0))
}

// Contains reports whether ts falls in the month
func (m Month) Contains(ts model.Timestamp) bool {
	return !ts.IsZero() && ts.Year() == m.Year && ts.Month() == m.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves day by n calendar months. The day of month is clamped to the
// length of the target month, so Jan 31 + 1 is the last day of February.
func AddMonths(day time.Time, n int) time.Time {
	total := int(day.Month()) - 1 + n
	year := day.Year() + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}

	target := time.Month(month + 1)
	d := day.Day()
	if last := daysIn(year, target); d > last {
		d = last
	}
	return time.Date(year, target, d, day.Hour(), day.Minute(), day.Second(), day.Nanosecond(), day.Location())
}

// EntriesForMonth returns the entries whose event starts in m
func EntriesForMonth(entries []model.CalendarEntry, m Month) []model.CalendarEntry {
	out := make([]model.CalendarEntry, 0)
	for _, e := range entries {
		if m.Contains(e.Event.StartDate) {
			out = append(out, e)
		}
	}
	return out
}

// EntriesForDay returns the entries whose event starts on the date of day
func EntriesForDay(entries []model.CalendarEntry, day time.Time) []model.CalendarEntry {
	out := make([]model.CalendarEntry, 0)
	for _, e := range entries {
		if e.Event.StartDate.SameDay(day) {
			out = append(out, e)
		}
	}
	return out
}

// HasEventOnDay reports whether any entry starts on the date of day
func HasEventOnDay(entries []model.CalendarEntry, day time.Time) bool {
	for _, e := range entries {
		if e.Event.StartDate.SameDay(day) {
			return true
		}
	}
	return false
}

// EventDays lists the days of m that have at least one event, ascending
func EventDays(entries []model.CalendarEntry, m Month) []int {
	seen := make(map[int]bool)
	for _, e := range EntriesForMonth(entries, m) {
		seen[e.Event.StartDate.Day()] = true
	}

	days := make([]int, 0, len(seen))
	for d := 1; d <= m.Days(); d++ {
		if seen[d] {
			days = append(days, d)
		}
	}
	return days
}
