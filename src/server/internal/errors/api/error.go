package api

import (
	"github.com/cockroachdb/errors"
)

type ErrorCode string

const DefaultErrorCode = ErrorCode("unknown_error")

// Error is what usecases hand back to gateways: a code the client can switch
// on, a message fit to show a user, and the internal cause for the logs.
type Error struct {
	ErrorCode     ErrorCode
	UserMessage   string
	InternalError error
}

func (e *Error) Error() string {
	if e.InternalError == nil {
		return e.UserMessage
	}
	return e.InternalError.Error()
}

func (e *Error) Unwrap() error {
	return e.InternalError
}

func CommitError(err error, code ErrorCode, userMessage string) *Error {
	if err == nil {
		err = errors.NewWithDepth(1, userMessage)
	}

	return &Error{
		ErrorCode:     code,
		UserMessage:   userMessage,
		InternalError: err,
	}
}

// WrapError adds context to the internal error, keeping the code and the
// user facing message.
func WrapError(err *Error, msg string) *Error {
	return &Error{
		ErrorCode:     err.ErrorCode,
		UserMessage:   err.UserMessage,
		InternalError: errors.WrapWithDepth(1, err.InternalError, msg),
	}
}
