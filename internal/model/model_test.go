package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ID
	}{
		{"number", `1`, "1"},
		{"string", `"0b6c0d5e-4f1a-4c59-9d37-5d1e8f7c2a11"`, "0b6c0d5e-4f1a-4c59-9d37-5d1e8f7c2a11"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.input), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		year  int
		month time.Month
		day   int
		hour  int
	}{
		{"2025-12-20T09:00:00", 2025, time.December, 20, 9},
		{"2025-03-29T23:30:00-05:00", 2025, time.March, 29, 23},
		{"2025-04-15 08:00:00+00", 2025, time.April, 15, 8},
		{"2025-04-15T08:00:00.123456Z", 2025, time.April, 15, 8},
		{"2025-04-15", 2025, time.April, 15, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ts, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.year, ts.Year())
			assert.Equal(t, tt.month, ts.Month())
			assert.Equal(t, tt.day, ts.Day())
			assert.Equal(t, tt.hour, ts.Hour())
		})
	}

	_, err := ParseTimestamp("next tuesday")
	assert.Error(t, err)
}

func TestTimestamp_SameDayKeepsWrittenDate(t *testing.T) {
	// 23:30 at UTC-5 is already the next day in UTC; the written date wins.
	ts, err := ParseTimestamp("2025-03-29T23:30:00-05:00")
	require.NoError(t, err)

	assert.True(t, ts.SameDay(time.Date(2025, time.March, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ts.SameDay(time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC)))
}

func TestEvent_DecodeBackendRow(t *testing.T) {
	row := `{"id":2,"title":"AI Innovation Challenge 2025","status":"UPCOMING",
		"start_date":"2025-03-29T10:00:00","end_date":null,"tags":["AI/ML"]}`

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(row), &ev))
	assert.Equal(t, ID("2"), ev.ID)
	assert.Equal(t, StatusUpcoming, ev.Status)
	assert.True(t, ev.EndDate.IsZero())
	assert.False(t, ev.IsLive())

	out, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"start_date":"2025-03-29T10:00:00Z"`)
	assert.Contains(t, string(out), `"end_date":null`)
}

func TestSession_ExpiredAt(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	s := &Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.ExpiredAt(now))
	assert.True(t, s.ExpiredAt(now.Add(time.Minute)))

	never := &Session{}
	assert.False(t, never.ExpiredAt(now))
}
