package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/model"
	"github.com/google/uuid"
)

const eventColumns = `e.id, e.title, e.description, e.status, e.type, e.prize_pool, e.participants,
	e.location, e.start_date, e.end_date, e.team_size, e.tags`

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanEvent reads eventColumns, optionally preceded by extra destinations
func scanEvent(row scanner, extra ...interface{}) (model.Event, error) {
	var (
		ev                model.Event
		id, status, start string
		end               sql.NullString
		tags              string
	)
	dest := append(extra, &id, &ev.Title, &ev.Description, &status, &ev.Type, &ev.PrizePool,
		&ev.Participants, &ev.Location, &start, &end, &ev.TeamSize, &tags)
	if err := row.Scan(dest...); err != nil {
		return model.Event{}, err
	}

	ev.ID = model.ID(id)
	ev.Status = model.EventStatus(status)

	var err error
	if ev.StartDate, err = model.ParseTimestamp(start); err != nil {
		return model.Event{}, err
	}
	if end.Valid {
		if ev.EndDate, err = model.ParseTimestamp(end.String); err != nil {
			return model.Event{}, err
		}
	}
	if err := json.Unmarshal([]byte(tags), &ev.Tags); err != nil {
		return model.Event{}, fmt.Errorf("failed to decode tags: %w", err)
	}
	return ev, nil
}

func notFound(what string) error {
	return apperr.Remote(what+" not found", http.StatusNotFound, sql.ErrNoRows)
}

// SubmitProject inserts a project and returns the stored row
func (db *DB) SubmitProject(ctx context.Context, project model.Project) (*model.Project, error) {
	project.ID = model.ID(uuid.NewString())
	if project.CreatedAt.IsZero() {
		project.CreatedAt = model.NewTimestamp(db.now().UTC())
	}

	var demo sql.NullString
	if project.DemoURL != nil {
		demo = sql.NullString{String: *project.DemoURL, Valid: true}
	}

	_, err := db.ExecContext(ctx, db.rebind(`
		INSERT INTO projects (id, user_id, title, description, repo_url, demo_url, tech_stack, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		string(project.ID), project.UserID, project.Title, project.Description,
		project.RepoURL, demo, project.TechStack, project.CreatedAt.String(),
	)
	if err != nil {
		return nil, apperr.Remote("Failed to submit project", 0, err)
	}
	return &project, nil
}

const projectColumns = `id, user_id, title, description, repo_url, demo_url, tech_stack, created_at`

func scanProject(row scanner) (model.Project, error) {
	var (
		p         model.Project
		id        string
		demo      sql.NullString
		createdAt string
	)
	if err := row.Scan(&id, &p.UserID, &p.Title, &p.Description, &p.RepoURL, &demo, &p.TechStack, &createdAt); err != nil {
		return model.Project{}, err
	}
	p.ID = model.ID(id)
	if demo.Valid {
		p.DemoURL = &demo.String
	}
	var err error
	if p.CreatedAt, err = model.ParseTimestamp(createdAt); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

// ProjectsByUser lists a user's projects, newest first
func (db *DB) ProjectsByUser(ctx context.Context, userID string) ([]model.Project, error) {
	rows, err := db.QueryContext(ctx, db.rebind(`
		SELECT `+projectColumns+` FROM projects WHERE user_id = ? ORDER BY created_at DESC`),
		userID,
	)
	if err != nil {
		return nil, apperr.Remote("Failed to load your projects", 0, err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, apperr.Remote("Failed to load your projects", 0, err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Remote("Failed to load your projects", 0, err)
	}
	return projects, nil
}

// ProjectByID fetches one project
func (db *DB) ProjectByID(ctx context.Context, id string) (*model.Project, error) {
	p, err := scanProject(db.QueryRowContext(ctx, db.rebind(`
		SELECT `+projectColumns+` FROM projects WHERE id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Project")
		}
		return nil, apperr.Remote("Failed to load project", 0, err)
	}
	return &p, nil
}

// Events lists the catalog ordered by start date
func (db *DB) Events(ctx context.Context) ([]model.Event, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events e ORDER BY e.start_date ASC`)
	if err != nil {
		return nil, apperr.Remote("Failed to load events", 0, err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, apperr.Remote("Failed to load events", 0, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Remote("Failed to load events", 0, err)
	}
	return events, nil
}

// EventByID fetches one event
func (db *DB) EventByID(ctx context.Context, id string) (*model.Event, error) {
	ev, err := scanEvent(db.QueryRowContext(ctx, db.rebind(`
		SELECT `+eventColumns+` FROM events e WHERE e.id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Event")
		}
		return nil, apperr.Remote("Failed to load event", 0, err)
	}
	return &ev, nil
}

// SeedEvents inserts events that are not stored yet and returns how many were added
func (db *DB) SeedEvents(ctx context.Context, events []model.Event) (int, error) {
	added := 0
	for _, ev := range events {
		tags, err := json.Marshal(ev.Tags)
		if err != nil {
			return added, fmt.Errorf("failed to encode tags: %w", err)
		}

		var end sql.NullString
		if !ev.EndDate.IsZero() {
			end = sql.NullString{String: ev.EndDate.String(), Valid: true}
		}

		res, err := db.ExecContext(ctx, db.rebind(`
			INSERT INTO events (id, title, description, status, type, prize_pool, participants,
				location, start_date, end_date, team_size, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO NOTHING`),
			string(ev.ID), ev.Title, ev.Description, string(ev.Status), ev.Type, ev.PrizePool,
			ev.Participants, ev.Location, ev.StartDate.String(), end, ev.TeamSize, string(tags),
		)
		if err != nil {
			return added, fmt.Errorf("failed to seed event %s: %w", ev.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			added += int(n)
		}
	}
	return added, nil
}

// RegisterForEvent records a registration with optional team info
func (db *DB) RegisterForEvent(ctx context.Context, userID, eventID string, team *model.TeamInfo) error {
	if _, err := db.EventByID(ctx, eventID); err != nil {
		return err
	}

	var teamJSON sql.NullString
	if team != nil {
		data, err := json.Marshal(team)
		if err != nil {
			return fmt.Errorf("failed to encode team info: %w", err)
		}
		teamJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := db.ExecContext(ctx, db.rebind(`
		INSERT INTO event_registrations (id, event_id, user_id, team_info, registered_at)
		VALUES (?, ?, ?, ?, ?)`),
		uuid.NewString(), eventID, userID, teamJSON, db.timestamp(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Remote("You are already registered for this event", http.StatusConflict, err)
		}
		return apperr.Remote("Failed to register for event", 0, err)
	}
	return nil
}

// RegisteredEvents lists a user's registrations joined to their events
func (db *DB) RegisteredEvents(ctx context.Context, userID string) ([]model.Registration, error) {
	rows, err := db.QueryContext(ctx, db.rebind(`
		SELECT r.id, r.user_id, r.team_info, r.registered_at, `+eventColumns+`
		FROM event_registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = ?
		ORDER BY e.start_date ASC`),
		userID,
	)
	if err != nil {
		return nil, apperr.Remote("Failed to load registrations", 0, err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var (
			reg              model.Registration
			id, registeredAt string
			team             sql.NullString
		)
		ev, err := scanEvent(rows, &id, &reg.UserID, &team, &registeredAt)
		if err != nil {
			return nil, apperr.Remote("Failed to load registrations", 0, err)
		}
		reg.ID = model.ID(id)
		reg.EventID = ev.ID
		reg.Event = &ev
		if team.Valid {
			reg.TeamInfo = &model.TeamInfo{}
			if err := json.Unmarshal([]byte(team.String), reg.TeamInfo); err != nil {
				return nil, apperr.Remote("Failed to load registrations", 0, err)
			}
		}
		if reg.RegisteredAt, err = model.ParseTimestamp(registeredAt); err != nil {
			return nil, apperr.Remote("Failed to load registrations", 0, err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Remote("Failed to load registrations", 0, err)
	}
	return regs, nil
}

// AddToCalendar bookmarks an event; at most one entry per (user, event)
func (db *DB) AddToCalendar(ctx context.Context, userID, eventID string) error {
	if _, err := db.EventByID(ctx, eventID); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx, db.rebind(`
		INSERT INTO user_calendars (id, user_id, event_id, added_at)
		VALUES (?, ?, ?, ?)`),
		uuid.NewString(), userID, eventID, db.timestamp(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Remote("Event is already in your calendar", http.StatusConflict, err)
		}
		return apperr.Remote("Failed to add event to calendar", 0, err)
	}
	return nil
}

// RemoveFromCalendar deletes the (user, event) entry. Deleting a missing entry succeeds.
func (db *DB) RemoveFromCalendar(ctx context.Context, userID, eventID string) error {
	_, err := db.ExecContext(ctx, db.rebind(`
		DELETE FROM user_calendars WHERE user_id = ? AND event_id = ?`),
		userID, eventID,
	)
	if err != nil {
		return apperr.Remote("Failed to remove event from calendar", 0, err)
	}
	return nil
}

// CalendarEntries lists the user's calendar joined to events
func (db *DB) CalendarEntries(ctx context.Context, userID string) ([]model.CalendarEntry, error) {
	rows, err := db.QueryContext(ctx, db.rebind(`
		SELECT c.id, c.user_id, c.added_at, `+eventColumns+`
		FROM user_calendars c
		JOIN events e ON e.id = c.event_id
		WHERE c.user_id = ?
		ORDER BY e.start_date ASC`),
		userID,
	)
	if err != nil {
		return nil, apperr.Remote("Failed to load calendar events", 0, err)
	}
	defer rows.Close()

	var entries []model.CalendarEntry
	for rows.Next() {
		var (
			entry       model.CalendarEntry
			id, addedAt string
		)
		ev, err := scanEvent(rows, &id, &entry.UserID, &addedAt)
		if err != nil {
			return nil, apperr.Remote("Failed to load calendar events", 0, err)
		}
		entry.ID = model.ID(id)
		entry.EventID = ev.ID
		entry.Event = ev
		if entry.AddedAt, err = model.ParseTimestamp(addedAt); err != nil {
			return nil, apperr.Remote("Failed to load calendar events", 0, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Remote("Failed to load calendar events", 0, err)
	}
	return entries, nil
}
