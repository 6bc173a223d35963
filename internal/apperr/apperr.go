package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodePartialUpdate Code = "PARTIAL_UPDATE"
	CodeInternal      Code = "INTERNAL"
)

// Error is the application error carried from services to the HTTP boundary.
// Cause never crosses the boundary; only Message and Fields are rendered.
type Error struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Cause   error             `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Constructors
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Validation(msg string) error {
	return New(CodeValidation, msg)
}

// ValidationFields reports a validation failure with per-field detail.
func ValidationFields(msg string, fields map[string]string) error {
	return &Error{Code: CodeValidation, Message: msg, Fields: fields}
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func Unauthorized(msg string) error {
	return New(CodeUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(CodeForbidden, msg)
}

func Conflict(msg string) error {
	return New(CodeConflict, msg)
}

// PartialUpdate marks a dual-document operation where one side failed; it is
// always surfaced as a single failure, never a silent partial success.
func PartialUpdate(msg string, cause error) error {
	return Wrap(CodePartialUpdate, msg, cause)
}

func Internal(msg string, cause error) error {
	return Wrap(CodeInternal, msg, cause)
}

// CodeOf extracts the taxonomy code of err, defaulting to CodeInternal for
// anything that is not an *Error.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// HTTPStatus maps the taxonomy onto response status codes.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation, CodePartialUpdate:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
