package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error taxonomy for the extraction pipeline. Only ErrConfiguration is
// fatal; the rest are caught per unit and degrade to a warning plus a
// missing contribution for that unit.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrTransport         = errors.New("model transport error")
	ErrMalformedResponse = errors.New("malformed model response")
	ErrFormat            = errors.New("format error")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// NewAppError builds an AppError wrapping a sentinel cause.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
