/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both inside the
server and in responses to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Blog and Content Errors
const (
	// ErrPostNotFound indicates that the requested blog post does not exist.
	ErrPostNotFound = 2101

	// ErrPostFieldsMissing indicates that a required post field (title, excerpt, content, category) was empty.
	ErrPostFieldsMissing = 2102

	// ErrFileTypeInvalid indicates that an uploaded file has a disallowed extension or MIME type.
	ErrFileTypeInvalid = 2201

	// ErrFileSizeTooLarge indicates that an uploaded file exceeded the size limit.
	ErrFileSizeTooLarge = 2202
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrAlreadyLoggedIn indicates that a login or registration was attempted with an active session.
	ErrAlreadyLoggedIn = 3001

	// ErrInvalidName indicates that the supplied display name failed validation.
	ErrInvalidName = 3002

	// ErrInvalidEmail indicates that the supplied email address failed validation.
	ErrInvalidEmail = 3003

	// ErrInvalidPassword indicates that the supplied password failed validation.
	ErrInvalidPassword = 3004

	// ErrEmailTaken indicates that the email address is already registered.
	ErrEmailTaken = 3005

	// ErrInvalidCredentials covers every authentication failure at login.
	// The message never distinguishes an unknown email from a wrong password.
	ErrInvalidCredentials = 3006

	// ErrUnauthorized indicates that the request carries no valid session.
	ErrUnauthorized = 3007

	// ErrForbidden indicates a valid session whose role or entitlements do not permit the action.
	ErrForbidden = 3008
)

// 4xxx: Chat Assistant Errors
const (
	// ErrChatNotFound indicates that the conversation does not exist or belongs to another user.
	ErrChatNotFound = 4101

	// ErrMessageInvalid indicates that the submitted chat message was empty or too long.
	ErrMessageInvalid = 4102

	// ErrAssistantUnavailable indicates that the model API call failed.
	ErrAssistantUnavailable = 4201
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates that an object storage operation failed.
	ErrFileStorageFailed = 5001
)
