package vercel

import (
	"errors"
	"fmt"
)

// Status-specific outcomes of DeleteLogDrain. They are wrapped in a
// *StatusError so both errors.Is and errors.As work.
var (
	ErrInvalidQuery = errors.New("one of the provided values in the request query is invalid")
	ErrForbidden    = errors.New("you do not have permission to access this resource")
	ErrNotFound     = errors.New("the log drain was not found")
)

// TransportError means the request did not produce an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response.
type StatusError struct {
	Op         string
	StatusCode int
	// Message is Vercel's error message when the body carried one.
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Message != "" {
		return fmt.Sprintf("unexpected HTTP status code %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("unexpected HTTP status code %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return e.Err }

// DecodeError means the response body did not match the expected shape.
type DecodeError struct {
	Resource string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Resource, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func deleteStatusError(code int) error {
	se := &StatusError{Op: "delete log drain", StatusCode: code}
	switch code {
	case 400:
		se.Err = ErrInvalidQuery
	case 403:
		se.Err = ErrForbidden
	case 404:
		se.Err = ErrNotFound
	}
	return se
}
