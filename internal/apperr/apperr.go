package apperr

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Kind classifies application errors so handlers can pick a status code
// without inspecting error strings.
type Kind int

const (
	KindValidation Kind = iota // malformed or missing required input
	KindNotFound               // referenced id does not exist
	KindConflict               // invalid state transition or duplicate unique field
	KindStorage                // object-storage or content-retrieval failure
	KindAuth                   // bad credentials, expired or invalid token
	KindInternal               // anything else
)

// Error is the application error carried from models/storage up to handlers.
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

// Validation returns a validation error with the given message.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound returns a not-found error with the given message.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict returns a conflict error with the given message.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Storage wraps an object-storage failure.
func Storage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// Auth returns an authentication error with the given message.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// StatusCode maps an error to the HTTP status surfaced to the caller.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindStorage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message for err. Unclassified errors get a
// generic message so internals are not leaked to the caller.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "internal server error"
}

// FromDB translates common database errors. notFoundMsg is used when the
// record does not exist, duplicateMsg when a unique constraint is violated.
func FromDB(err error, notFoundMsg, duplicateMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(duplicateMsg)
	default:
		return Internal("database error", err)
	}
}
