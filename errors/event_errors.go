// api/errors/event_errors.go
package errors

import "errors"

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEventInvalid     = errors.New("invalid event data")
	ErrAttendeeNotFound = errors.New("event attendee not found")
	ErrAttendeeConflict = errors.New("user is already registered for this event")
	ErrEventFull        = errors.New("event has reached its participant limit")
)
