// Package errors defines the normalized error type shared by every layer
// above the HTTP boundary.
//
// Transport and validation failures are converted into an *Error carrying
// a Kind and a user-facing Message, so state and command code never
// inspect raw transport errors:
//
//	err := errors.Validation(errors.FieldError{Field: "title", Message: "Title is required"})
//	if errors.KindOf(err) == errors.KindUnauthenticated { ... }
//
// The standard library helpers are re-exported so callers can import only
// this package.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Kind classifies an error for display and exit-code purposes.
type Kind int

const (
	// KindUnknown is an error that did not pass through normalization.
	KindUnknown Kind = iota
	// KindValidation is a local validation failure; no request was sent.
	KindValidation
	// KindUnauthenticated means there is no usable session.
	KindUnauthenticated
	// KindNotFound means the backend has no such resource.
	KindNotFound
	// KindConflict means the resource already exists.
	KindConflict
	// KindServer is any other error response from the backend.
	KindServer
	// KindNetwork means the backend could not be reached or timed out.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// FieldError is a single failing input field.
type FieldError struct {
	Field   string
	Message string
}

// Error is the normalized error result.
type Error struct {
	Kind    Kind
	Message string

	// Fields lists every failing field for KindValidation.
	Fields []FieldError

	// Status is the HTTP status code when the error came from a response.
	Status int

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so sentinels like ErrUnauthenticated
// work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && len(t.Fields) == 0
}

// Sentinels for errors.Is checks. They match any *Error of the same kind.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrServer          = &Error{Kind: KindServer}
	ErrNetwork         = &Error{Kind: KindNetwork}
)

// Validation builds an aggregate validation error from all failing fields.
// It returns nil when fields is empty.
func Validation(fields ...FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f.Message
	}
	return &Error{
		Kind:    KindValidation,
		Message: strings.Join(msgs, "; "),
		Fields:  fields,
	}
}

// Unauthenticated returns a KindUnauthenticated error.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// NotFound returns a KindNotFound error for the named resource.
func NotFound(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

// Network wraps a transport failure.
func Network(message string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Err: cause}
}

// FromStatus maps an HTTP status code to a Kind.
func FromStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindUnauthenticated
	case status == 404:
		return KindNotFound
	case status == 409:
		return KindConflict
	case status == 400 || status == 422:
		return KindValidation
	default:
		return KindServer
	}
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the user-facing message for err, falling back to
// fallback when err carries none. This mirrors a notification that shows
// the server's message when present and a generic one otherwise.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		return fallback
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}

// WithFallback returns a copy of err whose message is replaced by fallback
// when the original has no message.
func WithFallback(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: KindUnknown, Message: fallback, Err: err}
	}
	if e.Message != "" {
		return err
	}
	cp := *e
	cp.Message = fallback
	return &cp
}
