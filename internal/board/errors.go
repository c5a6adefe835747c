package board

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a normalized request failure.
type ErrorKind int

const (
	// ErrTransport covers network errors, timeouts, unreadable responses,
	// and non-2xx statuses other than 404.
	ErrTransport ErrorKind = iota
	// ErrEnvelope means the server answered 2xx with success=false.
	ErrEnvelope
	// ErrNotFound maps HTTP 404 so detail views can show a distinct state.
	ErrNotFound
)

// Fallback messages used when the server does not supply one.
const (
	fallbackEnvelopeMessage  = "An unknown error occurred."
	fallbackTransportMessage = "Failed to communicate with the server."
)

// Error is the single failure shape every board call resolves to. Message is
// the user-facing text chosen by the envelope normalizer; by the time an
// Error reaches a caller it has already been surfaced to the user once.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int // HTTP status when a response was received
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a normalized 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == ErrNotFound
}
