/*
Package errs provides custom error types and application-level error code constants.

This file defines the CustomError struct, which implements the standard Go error interface
and includes a business code, a user-friendly message, and an HTTP status code for unified error reporting.
*/
package errs

import (
	"fmt"

	"github.com/herkeens/Secure-Payment-App/internal/pkg/logx"
)

// CustomError is the custom error structure used throughout the application.
// It wraps the Go error interface, adding a business code and HTTP status code.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Message is the user-friendly error description.
	Message string

	// Status is the standard HTTP status code corresponding to this error.
	Status int

	// Fields lists the offending field names for validation errors.
	// It is empty for every other error kind.
	Fields []string
}

// Error implements the standard Go error interface. It returns a formatted
// error string containing the error code, HTTP status, and message.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError constructs and returns a new *CustomError instance based on a predefined error code.
// If an unknown code is provided, it defaults to returning ErrUnknown. When the code is
// ErrUnknown and an underlying error is supplied, the cause is logged server-side only;
// the client never sees storage or runtime error text.
func NewError(code int, cause ...error) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknownErr := errorMap[ErrUnknown]
		return &CustomError{
			Code:    unknownErr.Code,
			Message: unknownErr.Message,
			Status:  unknownErr.Status,
		}
	}

	customErr := templateErr

	if len(cause) > 0 && cause[0] != nil {
		logx.Error(cause[0], "Handling error with underlying cause", "code", code)
	}

	return &customErr
}

// NewValidationError constructs an ErrInvalidParams error enumerating the offending fields.
func NewValidationError(fields ...string) *CustomError {
	customErr := NewError(ErrInvalidParams)
	customErr.Fields = fields
	return customErr
}
