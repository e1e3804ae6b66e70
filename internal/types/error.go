package types

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	ValidationError      ErrorCode = "VALIDATION_ERROR"
	NotFound             ErrorCode = "NOT_FOUND"
	BadRequest           ErrorCode = "BAD_REQUEST"
)

func (e ErrorCode) String() string {
	return string(e)
}

// Error is the result type of event processing and API handlers. StatusCode
// is only meaningful for the HTTP layer.
type Error struct {
	StatusCode int
	ErrorCode  ErrorCode
	Err        error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewInternalServiceError(err error) *Error {
	return NewError(http.StatusInternalServerError, InternalServiceError, err)
}

func NewValidationFailedError(err error) *Error {
	return NewError(http.StatusBadRequest, ValidationError, err)
}

func NewNotFoundError(msg string) *Error {
	return NewErrorWithMsg(http.StatusNotFound, NotFound, msg)
}

func NewBadRequestError(format string, args ...any) *Error {
	return NewError(http.StatusBadRequest, BadRequest, fmt.Errorf(format, args...))
}

// IsValidationError reports whether err is a malformed payload error. Such
// events are skipped instead of failing the stream.
func IsValidationError(err error) bool {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.ErrorCode == ValidationError
	}
	return false
}
