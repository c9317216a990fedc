package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{AuthRequired, "auth_required"},
		{RemoteFailure, "remote_failure"},
		{ValidationFailure, "validation_failure"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestError_IsSentinel(t *testing.T) {
	err := fmt.Errorf("add to calendar: %w", NewAuthRequired("Please sign in"))

	assert.True(t, errors.Is(err, ErrAuthRequired))
	assert.False(t, errors.Is(err, ErrRemote))
	assert.Equal(t, AuthRequired, KindOf(err))
	assert.Equal(t, "Please sign in", Message(err, "fallback"))
}

func TestRemote_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := Remote("Failed to load events", 0, inner)

	assert.True(t, errors.Is(err, inner))
	assert.True(t, errors.Is(err, ErrRemote))
	assert.Equal(t, "remote_failure: Failed to load events: connection refused", err.Error())
}

func TestMessage_Fallback(t *testing.T) {
	assert.Equal(t, "fallback", Message(errors.New("plain"), "fallback"))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}
