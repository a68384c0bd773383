package humdesk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or query failed validation.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCanceled indicates a user-initiated cancellation. It is not an
	// error for presentation purposes.
	ErrCanceled = errors.New("canceled")
)

// StatusError is a transport error: the server answered with a non-success
// status, or the response carried no readable body.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Unwrap maps 404 responses to ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// StreamError is a protocol error: an in-band error marker received
// mid-stream. Message is the server-supplied text.
type StreamError struct {
	Message string
}

func (e *StreamError) Error() string {
	return "stream error: " + e.Message
}

// IsCanceled reports whether err is the result of a cancellation, either an
// explicit Cancel or a cancelled context.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}
