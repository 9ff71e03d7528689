// Package apperror defines the error kinds returned by the service layer and
// their mapping onto HTTP status codes.
package apperror

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies an error for the transport layer
type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindUpload
)

// GenericMessage is what clients see for unexpected failures
const GenericMessage = "Something went wrong"

var kindNames = map[Kind]string{
	KindServer:     "server",
	KindValidation: "validation",
	KindAuth:       "auth",
	KindForbidden:  "forbidden",
	KindNotFound:   "not_found",
	KindConflict:   "conflict",
	KindUpload:     "upload",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Status returns the HTTP status code for the kind
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindUpload:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error carrying a client-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, cause error) error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// Validation reports missing or invalid input
func Validation(msg string) error { return newError(KindValidation, msg, nil) }

// Validationf is Validation with formatting
func Validationf(format string, args ...any) error {
	return newError(KindValidation, fmt.Sprintf(format, args...), nil)
}

// Auth reports bad credentials or an unusable token
func Auth(msg string) error { return newError(KindAuth, msg, nil) }

// Forbidden reports an authenticated caller lacking permission
func Forbidden(msg string) error { return newError(KindForbidden, msg, nil) }

// NotFound reports a missing record
func NotFound(msg string) error { return newError(KindNotFound, msg, nil) }

// Conflict reports a uniqueness violation
func Conflict(msg string) error { return newError(KindConflict, msg, nil) }

// Upload reports an image host failure
func Upload(msg string, cause error) error { return newError(KindUpload, msg, cause) }

// Server wraps an unexpected failure. The message is logged, never shown to clients.
func Server(msg string, cause error) error { return newError(KindServer, msg, cause) }

// KindOf returns the kind of the first *Error in err's chain, KindServer otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServer
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindServer {
		return e.Message
	}
	return GenericMessage
}

// Is reports whether err is classified as kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
