package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "hu.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ts(t *testing.T, s string) model.Timestamp {
	t.Helper()
	v, err := model.ParseTimestamp(s)
	require.NoError(t, err)
	return v
}

func seedTestEvents(t *testing.T, db *DB) {
	t.Helper()
	n, err := db.SeedEvents(context.Background(), []model.Event{
		{ID: "1", Title: "Spring Hackathon", Status: model.StatusLive, StartDate: ts(t, "2025-12-20T09:00:00"), Tags: []string{"Healthcare"}},
		{ID: "2", Title: "AI Innovation Challenge 2025", Status: model.StatusUpcoming, StartDate: ts(t, "2025-03-29T10:00:00"), EndDate: ts(t, "2025-03-31T17:00:00"), Tags: []string{"AI/ML"}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestRebind(t *testing.T) {
	db := &DB{dialect: Postgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", db.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	db.dialect = SQLite
	assert.Equal(t, "a = ?", db.rebind("a = ?"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "dsn")
	assert.Error(t, err)
}

func TestAuthLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s, err := db.SignUp(ctx, "ada@example.com", "longenough", model.Profile{Name: "Ada", City: "Delhi"})
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.NotEmpty(t, s.AccessToken)
	assert.Equal(t, "Ada", s.User.Profile.Name)

	_, err = db.SignUp(ctx, "ada@example.com", "longenough", model.Profile{})
	require.Error(t, err)
	assert.Equal(t, "User already registered", apperr.Message(err, ""))

	_, err = db.SignIn(ctx, "ada@example.com", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", apperr.Message(err, ""))

	signedIn, err := db.SignIn(ctx, "ada@example.com", "longenough")
	require.NoError(t, err)
	assert.Equal(t, s.UserID(), signedIn.UserID())
	assert.Equal(t, "Delhi", signedIn.User.Profile.City)

	refreshed, err := db.Refresh(ctx, signedIn.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, signedIn.AccessToken, refreshed.AccessToken)

	// refresh tokens are single use
	_, err = db.Refresh(ctx, signedIn.RefreshToken)
	require.Error(t, err)

	require.NoError(t, db.SignOut(ctx, refreshed.AccessToken))
}

func TestPasswordReset(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.SignUp(ctx, "ada@example.com", "longenough", model.Profile{})
	require.NoError(t, err)

	require.NoError(t, db.ResetPassword(ctx, "nobody@example.com"))
	require.NoError(t, db.ResetPassword(ctx, "ada@example.com"))

	var token string
	require.NoError(t, db.QueryRow(`SELECT token FROM password_resets WHERE email = ?`, "ada@example.com").Scan(&token))

	require.NoError(t, db.CompletePasswordReset(ctx, token, "brand-new-pass"))

	_, err = db.SignIn(ctx, "ada@example.com", "longenough")
	assert.Error(t, err)
	_, err = db.SignIn(ctx, "ada@example.com", "brand-new-pass")
	assert.NoError(t, err)

	err = db.CompletePasswordReset(ctx, token, "another-pass")
	require.Error(t, err)
	assert.Equal(t, "Reset token already used", apperr.Message(err, ""))
}

func TestPasswordReset_Expired(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.SignUp(ctx, "ada@example.com", "longenough", model.Profile{})
	require.NoError(t, err)
	require.NoError(t, db.ResetPassword(ctx, "ada@example.com"))

	var token string
	require.NoError(t, db.QueryRow(`SELECT token FROM password_resets`).Scan(&token))

	db.SetClock(func() time.Time { return time.Now().Add(time.Hour) })
	err = db.CompletePasswordReset(ctx, token, "brand-new-pass")
	require.Error(t, err)
	assert.Equal(t, "Reset token expired", apperr.Message(err, ""))
}

func TestEvents_OrderedAndSeedIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seedTestEvents(t, db)

	n, err := db.SeedEvents(ctx, []model.Event{{ID: "1", Title: "dup", StartDate: ts(t, "2025-01-01")}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	events, err := db.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.ID("2"), events[0].ID)
	assert.Equal(t, model.ID("1"), events[1].ID)
	assert.Equal(t, "Spring Hackathon", events[1].Title)
	assert.Equal(t, []string{"AI/ML"}, events[0].Tags)
	assert.Equal(t, 31, events[0].EndDate.Day())
	assert.True(t, events[1].EndDate.IsZero())

	_, err = db.EventByID(ctx, "99")
	require.Error(t, err)
	assert.Equal(t, "Event not found", apperr.Message(err, ""))
}

func TestCalendar(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seedTestEvents(t, db)

	s, err := db.SignUp(ctx, "ada@example.com", "longenough", model.Profile{})
	require.NoError(t, err)
	uid := s.UserID()

	require.NoError(t, db.AddToCalendar(ctx, uid, "2"))

	err = db.AddToCalendar(ctx, uid, "2")
	require.Error(t, err)
	assert.Equal(t, "Event is already in your calendar", apperr.Message(err, ""))

	err = db.AddToCalendar(ctx, uid, "99")
	require.Error(t, err)
	assert.Equal(t, "Event not found", apperr.Message(err, ""))

	entries, err := db.CalendarEntries(ctx, uid)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ID("2"), entries[0].EventID)
	assert.Equal(t, "AI Innovation Challenge 2025", entries[0].Event.Title)
	assert.False(t, entries[0].AddedAt.IsZero())

	require.NoError(t, db.RemoveFromCalendar(ctx, uid, "2"))
	require.NoError(t, db.RemoveFromCalendar(ctx, uid, "2"))

	entries, err = db.CalendarEntries(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRegistrations(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seedTestEvents(t, db)

	s, err := db.SignUp(ctx, "ada@example.com", "longenough", model.Profile{})
	require.NoError(t, err)
	uid := s.UserID()

	require.NoError(t, db.RegisterForEvent(ctx, uid, "1", &model.TeamInfo{TeamName: "Analytical Engines", Members: []string{"ada", "charles"}}))
	require.NoError(t, db.RegisterForEvent(ctx, uid, "2", nil))

	err = db.RegisterForEvent(ctx, uid, "1", nil)
	require.Error(t, err)
	assert.Equal(t, "You are already registered for this event", apperr.Message(err, ""))

	regs, err := db.RegisteredEvents(ctx, uid)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, model.ID("2"), regs[0].EventID)
	assert.Nil(t, regs[0].TeamInfo)
	require.NotNil(t, regs[1].TeamInfo)
	assert.Equal(t, "Analytical Engines", regs[1].TeamInfo.TeamName)
	assert.Equal(t, "Spring Hackathon", regs[1].Event.Title)
}

func TestProjects(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s, err := db.SignUp(ctx, "ada@example.com", "longenough", model.Profile{})
	require.NoError(t, err)
	uid := s.UserID()

	demo := "https://green-grid.example.com"
	first, err := db.SubmitProject(ctx, model.Project{
		Title: "Green Grid", Description: "Energy dashboard for campuses",
		RepoURL: "https://github.com/ada/green-grid", DemoURL: &demo,
		TechStack: "Go, Postgres", UserID: uid,
		CreatedAt: ts(t, "2025-05-01T12:00:00Z"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = db.SubmitProject(ctx, model.Project{
		Title: "Note Taker", Description: "Lecture notes with search",
		RepoURL: "https://github.com/ada/notes", TechStack: "Svelte",
		UserID: uid, CreatedAt: ts(t, "2025-06-01T12:00:00Z"),
	})
	require.NoError(t, err)

	projects, err := db.ProjectsByUser(ctx, uid)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Note Taker", projects[0].Title)
	assert.Nil(t, projects[0].DemoURL)

	got, err := db.ProjectByID(ctx, first.ID.String())
	require.NoError(t, err)
	require.NotNil(t, got.DemoURL)
	assert.Equal(t, demo, *got.DemoURL)

	_, err = db.ProjectByID(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, "Project not found", apperr.Message(err, ""))
}
