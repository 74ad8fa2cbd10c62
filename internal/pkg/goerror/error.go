package goerror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates that the request could not be completed due to a conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrMissingReference indicates that a row points at a resource that no longer exists.
	ErrMissingReference = errors.New("referenced resource missing")
)

const (
	msgValidation     = "Validation failed"
	msgMalformedInput = "Invalid JSON"
	msgServer         = "Internal Server Error"
)

// Kind classifies errors into the buckets the error translator switches on.
type Kind int

const (
	// KindUnknown represents programming or infrastructure failures.
	KindUnknown Kind = iota
	// KindValidation represents request input that failed schema validation.
	KindValidation
	// KindDomain represents business rule violations raised by use cases.
	KindDomain
	// KindMalformedInput represents a request body that is not valid JSON.
	KindMalformedInput
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ERROR_KIND_VALIDATION"
	case KindDomain:
		return "ERROR_KIND_DOMAIN"
	case KindMalformedInput:
		return "ERROR_KIND_MALFORMED_INPUT"
	default:
		return "ERROR_KIND_UNKNOWN"
	}
}

// Error is a structured error used across the application.
//
// It carries a client-facing message, the HTTP status to answer with and an
// optional field path to messages map. Values are immutable once built.
type Error struct {
	err     error
	msg     string
	kind    Kind
	status  int
	details map[string][]string
}

// Option customizes an Error built with New.
type Option func(*Error)

// WithStatus overrides the default 400 status code.
func WithStatus(status int) Option {
	return func(e *Error) {
		e.status = status
	}
}

// WithDetails attaches per-field messages. The map is stored as given.
func WithDetails(details map[string][]string) Option {
	return func(e *Error) {
		e.details = details
	}
}

// WithCause records the underlying error.
func WithCause(err error) Option {
	return func(e *Error) {
		e.err = err
	}
}

// New builds a domain error with status 400 unless overridden.
func New(msg string, opts ...Option) *Error {
	e := &Error{msg: msg, kind: KindDomain, status: http.StatusBadRequest}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.msg != "" {
		return e.msg
	}

	if e.err != nil {
		return e.err.Error()
	}

	return http.StatusText(e.status)
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Kind: %s, Status: %d, Message: %s, Details: %v, Underlying Error: %v",
		e.kind.String(),
		e.status,
		e.msg,
		e.details,
		e.err,
	)
}

// LogValue renders the error for slog with its cause, which Error hides for
// server failures.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.kind.String()),
		slog.Int("status", e.status),
		slog.String("message", e.msg),
	}
	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}
	if len(e.details) > 0 {
		attrs = append(attrs, slog.Any("details", e.details))
	}
	return slog.GroupValue(attrs...)
}

// Msg returns the user-facing error message.
func (e *Error) Msg() string {
	return e.msg
}

// Kind returns the error kind.
func (e *Error) Kind() Kind {
	return e.kind
}

// StatusCode returns the HTTP status code to answer with.
func (e *Error) StatusCode() int {
	return e.status
}

// Details returns the field path to messages map, nil when absent.
func (e *Error) Details() map[string][]string {
	return e.details
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// NewValidation reports schema violations with their field messages.
func NewValidation(details map[string][]string) error {
	return &Error{msg: msgValidation, kind: KindValidation, status: http.StatusBadRequest, details: details}
}

// NewBusiness creates a domain error with the given message and status.
func NewBusiness(msg string, status int) error {
	return &Error{msg: msg, kind: KindDomain, status: status}
}

// NewMalformedInput wraps a body decoding failure.
func NewMalformedInput(err error) error {
	return &Error{err: err, msg: msgMalformedInput, kind: KindMalformedInput, status: http.StatusBadRequest}
}

// NewServer wraps an unexpected failure. Its cause is never shown to clients.
func NewServer(err error) error {
	return &Error{err: err, msg: msgServer, kind: KindUnknown, status: http.StatusInternalServerError}
}

// KindOf classifies any error.
//
// A *Error anywhere in the chain decides by itself; raw JSON decoding
// failures count as malformed input; everything else is unknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.kind
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return KindMalformedInput
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return KindMalformedInput
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return KindMalformedInput
	}

	return KindUnknown
}
