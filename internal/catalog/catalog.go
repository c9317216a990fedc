// Package catalog loads the event catalog and filters it by status and search text.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/internal/model"
)

// Source tells where a catalog came from
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// StatusFilter is one of the catalog filter labels
type StatusFilter string

const (
	FilterAll       StatusFilter = "All Events"
	FilterLive      StatusFilter = "Live"
	FilterUpcoming  StatusFilter = "Upcoming"
	FilterCompleted StatusFilter = "Completed"
)

// Filters lists the labels in display order
var Filters = []StatusFilter{FilterAll, FilterLive, FilterUpcoming, FilterCompleted}

// ParseStatus maps a label (any case) to a filter. An empty label means all events.
func ParseStatus(label string) (StatusFilter, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, "all") {
		return FilterAll, nil
	}
	for _, f := range Filters {
		if strings.EqualFold(label, string(f)) {
			return f, nil
		}
	}
	return "", apperr.Validation("Unknown event filter \"" + label + "\"")
}

// Catalog is the working set of events for one page
type Catalog struct {
	Events []model.Event `json:"events"`
	Source Source        `json:"source"`
	// Reason explains a fallback; empty for live data
	Reason string `json:"reason,omitempty"`
}

// Degraded reports whether the catalog is the built-in sample list
func (c Catalog) Degraded() bool {
	return c.Source == SourceFallback
}

// ByID returns the event with id
func (c Catalog) ByID(id string) (model.Event, bool) {
	for _, ev := range c.Events {
		if ev.ID.String() == id {
			return ev, true
		}
	}
	return model.Event{}, false
}

// EventSource is the part of the Remote Data Client the loader needs
type EventSource interface {
	Events(ctx context.Context) ([]model.Event, error)
}

// Loader fetches the catalog and falls back to sample data
type Loader struct {
	source EventSource
}

// NewLoader creates a loader over source
func NewLoader(source EventSource) *Loader {
	return &Loader{source: source}
}

// Load fetches events. A failed fetch or an empty catalog yields the sample
// events with Source set to fallback; the failure is logged, not returned.
func (l *Loader) Load(ctx context.Context) Catalog {
	events, err := l.source.Events(ctx)
	if err != nil {
		logger.Warn("Error fetching events, using sample events", logger.F("error", err))
		reason := apperr.Message(err, "")
		if reason == "" || errors.Is(err, context.Canceled) {
			reason = "Events could not be loaded"
		}
		return Catalog{Events: SampleEvents(), Source: SourceFallback, Reason: reason}
	}
	if len(events) == 0 {
		logger.Info("Event catalog is empty, using sample events")
		return Catalog{Events: SampleEvents(), Source: SourceFallback, Reason: "No events published yet"}
	}
	return Catalog{Events: events, Source: SourceLive}
}

// Filter returns the events matching status and search. Both conditions must hold;
// search matches title, description, location or any tag, ignoring case. The
// search text is matched as given, surrounding spaces included.
func Filter(events []model.Event, status StatusFilter, search string) []model.Event {
	search = strings.ToLower(search)

	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if status != "" && status != FilterAll && !strings.EqualFold(string(ev.Status), string(status)) {
			continue
		}
		if search != "" && !matches(ev, search) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func matches(ev model.Event, needle string) bool {
	if strings.Contains(strings.ToLower(ev.Title), needle) ||
		strings.Contains(strings.ToLower(ev.Description), needle) ||
		strings.Contains(strings.ToLower(ev.Location), needle) {
		return true
	}
	for _, tag := range ev.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
