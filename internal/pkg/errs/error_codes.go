/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	// The offending field names are carried alongside the error.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1005

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1006
)

// 2xxx: Transfer Business Logic Errors
const (
	// ErrTransferNotFound indicates that no transfer record exists for the requested id,
	// or that the record is not in a state the requested transition accepts.
	ErrTransferNotFound = 2101

	// ErrTransferNotVerified indicates that forwarding was attempted before staff verification.
	ErrTransferNotVerified = 2102
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates a missing, invalid, or expired session.
	// The reason is deliberately not surfaced to the client.
	ErrUnauthorized = 3001

	// ErrInvalidCredentials indicates that a login attempt failed.
	ErrInvalidCredentials = 3002

	// ErrCSRFTokenInvalid indicates that the CSRF header did not match the CSRF cookie.
	ErrCSRFTokenInvalid = 3003

	// ErrLoginLocked indicates that the brute-force guard has locked the login identity out.
	ErrLoginLocked = 3004

	// ErrUserAlreadyExists indicates a unique-field collision during registration.
	ErrUserAlreadyExists = 3005
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
