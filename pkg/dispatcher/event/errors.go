package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for bus operations.
var (
	// ErrMaxDepthExceeded indicates nested triggers went deeper than the bus allows.
	ErrMaxDepthExceeded = errors.New("max event depth exceeded")

	// ErrNilEvent indicates Trigger was called without an event.
	ErrNilEvent = errors.New("event cannot be nil")
)

// EventError represents an error raised by the bus itself while
// delivering an event. Listener errors are never wrapped in it.
type EventError struct {
	Event    Event  // The event being delivered
	Listener string // Listener ID (if known)
	Message  string // Error message
	Err      error  // Underlying error
}

// Error implements error interface.
func (e *EventError) Error() string {
	prefix := "event"
	if e.Event != nil {
		prefix = fmt.Sprintf("event %s", e.Event.Name())
	}
	if e.Listener != "" {
		prefix += fmt.Sprintf(" (listener %s)", e.Listener)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error.
func (e *EventError) Unwrap() error {
	return e.Err
}
