package errs

import (
	"errors"
	"fmt"
)

// Kind categorizes failures crossing the backend boundary.
type Kind int

const (
	// Unknown represents an unclassified error.
	Unknown Kind = iota
	// Validation indicates the input was empty or malformed and never left the process.
	Validation
	// Transport indicates the backend could not be reached (refused, DNS, reset).
	Transport
	// Timeout indicates the backend did not answer within the request deadline.
	Timeout
	// Upstream indicates the backend answered with a non-2xx status.
	Upstream
	// Shape indicates a 2xx response whose body failed contract validation.
	Shape
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Transport:
		return "transport"
	case Timeout:
		return "timeout"
	case Upstream:
		return "upstream"
	case Shape:
		return "shape"
	default:
		return "unknown"
	}
}

// AppError carries a category, user message, and original cause.
type AppError struct {
	Kind           Kind
	UpstreamStatus int    // HTTP status code returned by the backend
	Code           string // machine-readable code from the backend error body, if any
	Message        string
	Cause          error
}

func (e *AppError) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Message returns the user-facing message of err. Errors that are not an
// *AppError fall back to their Error text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}

// KindOf reports the Kind of err, or Unknown when err is not an *AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unknown
}
