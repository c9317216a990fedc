package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by how it is surfaced to the user
type Kind int

const (
	// AuthRequired means a mutating action was attempted without a session
	AuthRequired Kind = iota + 1
	// RemoteFailure means the backend rejected or failed a call
	RemoteFailure
	// ValidationFailure means local form checks failed before any network call
	ValidationFailure
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case AuthRequired:
		return "auth_required"
	case RemoteFailure:
		return "remote_failure"
	case ValidationFailure:
		return "validation_failure"
	default:
		return "unknown"
	}
}

// Error is a classified, user-presentable error
type Error struct {
	Kind    Kind
	Message string // Shown to the user as-is
	Status  int    // Upstream HTTP status, 0 when unknown
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrAuthRequired = &Error{Kind: AuthRequired}
	ErrRemote       = &Error{Kind: RemoteFailure}
	ErrValidation   = &Error{Kind: ValidationFailure}
)

// NewAuthRequired returns an AuthRequired error with a user message
func NewAuthRequired(msg string) *Error {
	return &Error{Kind: AuthRequired, Message: msg}
}

// Validation returns a ValidationFailure with a user message
func Validation(msg string) *Error {
	return &Error{Kind: ValidationFailure, Message: msg}
}

// Remote wraps a backend failure. msg is what the user sees.
func Remote(msg string, status int, err error) *Error {
	return &Error{Kind: RemoteFailure, Message: msg, Status: status, Err: err}
}

// KindOf returns the kind of err, or 0 when err is not classified
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Message returns the user-facing message of err, or fallback when err carries none
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
