package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an application error into the HTTP status it maps to.
type Kind int

const (
	KindValidation Kind = iota // malformed or missing input
	KindAuth                   // missing/invalid/expired session, bad credentials
	KindForbidden              // quota or credit exhausted
	KindNotFound               // resource absent or not owned
	KindUpstream               // OAuth provider or completion API failure
	KindInternal               // unexpected
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string // field-level validation errors, optional
	Err     error             // wrapped cause, logged but never surfaced
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func FieldErrors(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Upstream(message string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: cause}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// As unwraps err into an *Error, or nil if it is not one.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// StatusCode maps an error to its HTTP status. Unknown errors are 500s.
func StatusCode(err error) int {
	appErr := As(err)
	if appErr == nil {
		return fiber.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindAuth:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindUpstream, KindInternal:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
