/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
// Client-facing messages are intentionally minimal: authentication and CSRF failures keep
// an identical payload shape so that neither aids credential or token enumeration.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Transfer Business Logic Errors
	ErrTransferNotFound:    {Code: ErrTransferNotFound, Message: "Not found.", Status: http.StatusNotFound},
	ErrTransferNotVerified: {Code: ErrTransferNotVerified, Message: "Verify the transaction first.", Status: http.StatusBadRequest},

	// 3xxx: User, Session, and Security Errors
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Unauthorized.", Status: http.StatusUnauthorized},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Invalid credentials.", Status: http.StatusUnauthorized},
	ErrCSRFTokenInvalid:   {Code: ErrCSRFTokenInvalid, Message: "Invalid CSRF token.", Status: http.StatusForbidden},
	ErrLoginLocked:        {Code: ErrLoginLocked, Message: "Too many attempts. Try again later.", Status: http.StatusTooManyRequests},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "Username, account number, or email already in use.", Status: http.StatusConflict},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
