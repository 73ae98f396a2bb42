/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// The key is the error code, the value carries the user message and the HTTP
// status. A zero Status resolves to 200 when the error is constructed.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Blog and Content Errors
	ErrPostNotFound:      {Code: ErrPostNotFound, Message: "Post not found.", Status: http.StatusNotFound},
	ErrPostFieldsMissing: {Code: ErrPostFieldsMissing, Message: "Title, excerpt, content, and category are required.", Status: http.StatusBadRequest},
	ErrFileTypeInvalid:   {Code: ErrFileTypeInvalid, Message: "This file type is not allowed.", Status: http.StatusBadRequest},
	ErrFileSizeTooLarge:  {Code: ErrFileSizeTooLarge, Message: "File is too large.", Status: http.StatusBadRequest},

	// 3xxx: User, Session, and Security Errors
	ErrAlreadyLoggedIn:    {Code: ErrAlreadyLoggedIn, Message: "You are already signed in.", Status: http.StatusBadRequest},
	ErrInvalidName:        {Code: ErrInvalidName, Message: "Invalid display name.", Status: http.StatusBadRequest},
	ErrInvalidEmail:       {Code: ErrInvalidEmail, Message: "Invalid email address.", Status: http.StatusBadRequest},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Password must be between 6 and 50 characters.", Status: http.StatusBadRequest},
	ErrEmailTaken:         {Code: ErrEmailTaken, Message: "This email is already registered.", Status: http.StatusBadRequest},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Invalid email or password.", Status: http.StatusUnauthorized},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrForbidden:          {Code: ErrForbidden, Message: "You do not have permission to do that.", Status: http.StatusForbidden},

	// 4xxx: Chat Assistant Errors
	ErrChatNotFound:         {Code: ErrChatNotFound, Message: "Conversation not found.", Status: http.StatusNotFound},
	ErrMessageInvalid:       {Code: ErrMessageInvalid, Message: "Message is empty or too long.", Status: http.StatusBadRequest},
	ErrAssistantUnavailable: {Code: ErrAssistantUnavailable, Message: "The assistant is unavailable right now. Please try again.", Status: http.StatusBadGateway},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusInternalServerError},
}
