// Package apperr defines the error categories services return and the REST
// layer maps onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means no valid identity was presented.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the caller is known but may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the addressed resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the request was malformed.
	ErrValidation = errors.New("validation failed")
	// ErrConflict means the write collided with existing state.
	ErrConflict = errors.New("conflict")
)

// Error carries a user facing message on top of one of the sentinels.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Forbidden returns an ErrForbidden with the given message.
func Forbidden(format string, args ...interface{}) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns an ErrNotFound with the given message.
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation returns an ErrValidation with the given message.
func Validation(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict returns an ErrConflict with the given message.
func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized returns an ErrUnauthorized with the given message.
func Unauthorized(format string, args ...interface{}) error {
	return &Error{Kind: ErrUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Message returns the user facing part of err: the innermost *Error message
// when present, otherwise err.Error().
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
