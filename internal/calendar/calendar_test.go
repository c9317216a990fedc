package calendar

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	entries   []model.CalendarEntry
	err       error
	adds      int
	removes   int
	listCalls int
}

func (f *fakeRemote) AddToCalendar(context.Context, string, string) error {
	f.adds++
	return f.err
}

func (f *fakeRemote) RemoveFromCalendar(context.Context, string, string) error {
	f.removes++
	return f.err
}

func (f *fakeRemote) CalendarEntries(context.Context, string) ([]model.CalendarEntry, error) {
	f.listCalls++
	return f.entries, f.err
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(id string, start string) model.CalendarEntry {
	ts, err := model.ParseTimestamp(start)
	if err != nil {
		panic(err)
	}
	return model.CalendarEntry{
		UserID:  "user-1",
		EventID: model.ID(id),
		Event:   model.Event{ID: model.ID(id), Title: "Event " + id, StartDate: ts},
	}
}

func testEntries() []model.CalendarEntry {
	return []model.CalendarEntry{
		entry("1", "2025-12-20T09:00:00"),
		entry("2", "2025-03-29T10:00:00"),
		entry("3", "2025-04-15T08:00:00"),
		entry("4", "2025-03-29T18:30:00"),
	}
}

var signedIn = &model.Session{AccessToken: "token", User: model.User{ID: "user-1"}}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		from time.Time
		n    int
		want time.Time
	}{
		{date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{date(2025, time.March, 31), -1, date(2025, time.February, 28)},
		{date(2025, time.December, 15), 1, date(2026, time.January, 15)},
		{date(2025, time.January, 15), -1, date(2024, time.December, 15)},
		{date(2025, time.January, 15), -13, date(2023, time.December, 15)},
		{date(2025, time.May, 31), 12, date(2026, time.May, 31)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AddMonths(tt.from, tt.n), "%s %+d", tt.from.Format("2006-01-02"), tt.n)
	}
}

func TestMonth(t *testing.T) {
	m, err := ParseMonth("2025-12")
	require.NoError(t, err)
	assert.Equal(t, "2025-12", m.String())
	assert.Equal(t, Month{2026, time.January}, m.Next())
	assert.Equal(t, Month{2025, time.November}, m.Prev())
	assert.Equal(t, 31, m.Days())

	_, err = ParseMonth("December")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = ParseDay("2025-02-30")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestGrouping(t *testing.T) {
	entries := testEntries()
	march := Month{2025, time.March}

	inMarch := EntriesForMonth(entries, march)
	require.Len(t, inMarch, 2)
	assert.Equal(t, model.ID("2"), inMarch[0].EventID)

	assert.Len(t, EntriesForDay(entries, date(2025, time.March, 29)), 2)
	assert.Empty(t, EntriesForDay(entries, date(2025, time.March, 30)))
	assert.True(t, HasEventOnDay(entries, date(2025, time.April, 15)))
	assert.False(t, HasEventOnDay(entries, date(2025, time.April, 16)))
	assert.Equal(t, []int{29}, EventDays(entries, march))
	assert.Empty(t, EntriesForMonth(entries, Month{2025, time.June}))
}

// Dates are matched on the stored wall clock even when the timestamp has a zone
func TestGrouping_NoZoneShift(t *testing.T) {
	entries := []model.CalendarEntry{entry("9", "2025-03-29T23:30:00-08:00")}
	assert.True(t, HasEventOnDay(entries, date(2025, time.March, 29)))
	assert.False(t, HasEventOnDay(entries, date(2025, time.March, 30)))
}

func TestView_Navigation(t *testing.T) {
	v := NewView(date(2025, time.January, 31), testEntries())
	v.NextMonth()
	assert.Equal(t, date(2025, time.February, 28), v.Day)
	v.NextMonth()
	assert.Equal(t, Month{2025, time.March}, v.Month())
	assert.Len(t, v.MonthEntries(), 2)
	v.PrevMonth()
	v.PrevMonth()
	assert.Equal(t, Month{2025, time.January}, v.Month())
}

func TestView_SelectDay(t *testing.T) {
	v := NewView(date(2025, time.March, 1), testEntries())

	v.SelectDay(date(2025, time.March, 29))
	require.NotNil(t, v.Selected)
	assert.Equal(t, model.ID("2"), v.Selected.ID)
	assert.Len(t, v.DayEntries(), 2)

	v.SelectDay(date(2025, time.March, 30))
	assert.Nil(t, v.Selected)

	assert.True(t, v.Select("4"))
	assert.Equal(t, model.ID("4"), v.Selected.ID)
	assert.False(t, v.Select("99"))
}

func TestService_RequiresSession(t *testing.T) {
	r := &fakeRemote{}
	s := NewService(r)
	ctx := context.Background()

	err := s.Add(ctx, nil, nil, model.Event{ID: "2"})
	assert.True(t, errors.Is(err, apperr.ErrAuthRequired))
	assert.Equal(t, MsgSignInToAdd, apperr.Message(err, ""))

	err = s.Remove(ctx, nil, nil, "2")
	assert.True(t, errors.Is(err, apperr.ErrAuthRequired))

	_, err = s.Load(ctx, nil, time.Now())
	assert.True(t, errors.Is(err, apperr.ErrAuthRequired))

	assert.Zero(t, r.adds+r.removes+r.listCalls)
}

func TestService_Load(t *testing.T) {
	r := &fakeRemote{entries: testEntries()}
	v, err := NewService(r).Load(context.Background(), signedIn, date(2025, time.March, 1))
	require.NoError(t, err)
	assert.Len(t, v.Entries, 4)

	r.err = apperr.Remote("boom", http.StatusInternalServerError, errors.New("boom"))
	_, err = NewService(r).Load(context.Background(), signedIn, date(2025, time.March, 1))
	assert.Equal(t, "Failed to load calendar events", apperr.Message(err, ""))
}

func TestService_AddOptimistic(t *testing.T) {
	r := &fakeRemote{}
	s := NewService(r)
	v := NewView(date(2025, time.April, 1), testEntries()[:1])

	require.NoError(t, s.Add(context.Background(), signedIn, v, entry("3", "2025-04-15T08:00:00").Event))
	assert.Len(t, v.Entries, 2)
	assert.True(t, v.Has("3"))
	assert.Equal(t, 1, r.adds)
}

func TestService_AddRollsBack(t *testing.T) {
	r := &fakeRemote{err: apperr.Remote("Event is already in your calendar", http.StatusConflict, errors.New("dup"))}
	s := NewService(r)
	v := NewView(date(2025, time.April, 1), testEntries()[:1])

	err := s.Add(context.Background(), signedIn, v, entry("3", "2025-04-15T08:00:00").Event)
	require.Error(t, err)
	assert.Equal(t, "Event is already in your calendar", apperr.Message(err, ""))
	assert.Len(t, v.Entries, 1)
	assert.False(t, v.Has("3"))
}

func TestService_AddWithoutView(t *testing.T) {
	r := &fakeRemote{}
	require.NoError(t, NewService(r).Add(context.Background(), signedIn, nil, model.Event{ID: "2"}))
	assert.Equal(t, 1, r.adds)
}

func TestService_RemoveClearsSelection(t *testing.T) {
	r := &fakeRemote{}
	s := NewService(r)
	v := NewView(date(2025, time.March, 1), testEntries())
	require.True(t, v.Select("2"))

	require.NoError(t, s.Remove(context.Background(), signedIn, v, "2"))
	assert.False(t, v.Has("2"))
	assert.Len(t, v.Entries, 3)
	assert.Nil(t, v.Selected)
	assert.Equal(t, 1, r.removes)
}

func TestService_RemoveKeepsOtherSelection(t *testing.T) {
	s := NewService(&fakeRemote{})
	v := NewView(date(2025, time.March, 1), testEntries())
	require.True(t, v.Select("4"))

	require.NoError(t, s.Remove(context.Background(), signedIn, v, "2"))
	require.NotNil(t, v.Selected)
	assert.Equal(t, model.ID("4"), v.Selected.ID)
}

func TestService_RemoveMissingIsNoop(t *testing.T) {
	r := &fakeRemote{}
	v := NewView(date(2025, time.March, 1), testEntries())

	require.NoError(t, NewService(r).Remove(context.Background(), signedIn, v, "99"))
	assert.Len(t, v.Entries, 4)
	assert.Zero(t, r.removes)
}

func TestService_RemoveRollsBack(t *testing.T) {
	r := &fakeRemote{err: apperr.Remote("Unable to reach the server. Please try again.", 0, errors.New("dial"))}
	v := NewView(date(2025, time.March, 1), testEntries())
	require.True(t, v.Select("2"))

	err := NewService(r).Remove(context.Background(), signedIn, v, "2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrRemote))

	require.Len(t, v.Entries, 4)
	assert.Equal(t, model.ID("2"), v.Entries[1].EventID)
	require.NotNil(t, v.Selected)
	assert.Equal(t, model.ID("2"), v.Selected.ID)
}

func TestExportICS(t *testing.T) {
	e := entry("2", "2025-03-29T10:00:00")
	e.Event.Title = "AI Innovation Challenge 2025"
	e.Event.Location = "Hybrid"
	e.Event.EndDate, _ = model.ParseTimestamp("2025-03-31T17:00:00")
	e.Event.Tags = []string{"AI/ML", "NLP"}

	out := ExportICS([]model.CalendarEntry{e}, date(2025, time.March, 1))
	assert.Contains(t, out, "DTSTART:20250329T100000")
	assert.Contains(t, out, "DTEND:20250331T170000")

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "AI Innovation Challenge 2025", events[0].GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "Hybrid", events[0].GetProperty(ical.ComponentPropertyLocation).Value)
	assert.Equal(t, "event-2@hackersunity", events[0].Id())
}
