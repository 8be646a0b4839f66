package form

import (
	"errors"
	"fmt"
)

// ErrMinimumRows is returned when removing the last remaining module row.
var ErrMinimumRows = errors.New("at least one module row must remain")

// ErrRowNotFound indicates a row index outside the current list.
var ErrRowNotFound = errors.New("module row not found")

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission has not resolved yet.
var ErrSubmissionInFlight = errors.New("submission already in progress")

// ValidationError is a user-correctable problem that blocks submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransportError wraps network and decoding failures talking to the intake API.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerRejection is an explicit failure reported by the intake API.
type ServerRejection struct {
	Message string
}

func (e *ServerRejection) Error() string {
	return "submission rejected: " + e.Message
}
