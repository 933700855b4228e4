// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling and messaging.
// User-facing messages are kept stable because clients match on them.
package constants

// Machine-readable error codes placed in the "code" field of error envelopes.
const (
	CodeBadRequest         = "bad_request"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeMethodNotAllowed   = "method_not_allowed"
	CodeConflict           = "conflict"
	CodeValidationError    = "validation_error"
	CodeDuplicateResource  = "duplicate_resource"
	CodeInvalidCredentials = "invalid_credentials"
	CodeTokenExpired       = "token_expired"
	CodeTokenInvalid       = "token_invalid"
	CodeTooManyRequests    = "too_many_requests"
	CodeServiceUnavailable = "service_unavailable"
	CodeInternalError      = "internal_error"
)

// Authentication Gate messages.
const (
	MsgNoToken              = "No token"
	MsgTokenExpired         = "Token expired"
	MsgInvalidToken         = "Invalid token"
	MsgAuthenticationFailed = "Authentication failed"
)

// Album and ownership messages.
const (
	MsgAlbumNotFound     = "Album not found."
	MsgAlbumAccessDenied = "You are not authorized to access this album."
)

// Signed file access messages.
const (
	MsgFileNoToken      = "Access denied. No token provided."
	MsgFileInvalidToken = "Access denied. Invalid token."
	MsgFileNotFound     = "File not found."
)

// User and password reset messages.
const (
	MsgEmailTaken              = "User with this email already exists"
	MsgInvalidCredentials      = "Invalid credentials."
	MsgInvalidResetToken       = "Invalid or expired token."
	MsgInvalidImageType        = "Only JPEG, PNG, GIF, and BMP images are permitted."
	MsgTooManyImages           = "A maximum of 10 images can be uploaded at once."
	MsgImageTooLarge           = "Each image must be at most 5MB."
	MsgImagesRequired          = "At least one image is required."
	MsgInvalidImagesToRemove   = "imagesToRemove must be a comma separated list of image ids."
	MsgInternalServerError     = "Internal Server Error."
	MsgValidationFailed        = "Validation Error"
	MsgRateLimitExceeded       = "Too many requests. Please try again later."
	MsgServiceUnhealthy        = "Service is not healthy"
	MsgRequestBodyTooLarge     = "Request body too large"
	MsgEmptyRequestBody        = "Request body must not be empty"
	MsgMalformedJSON           = "Request body contains badly-formed JSON"
	MsgMalformedMultipart      = "Request body must be multipart/form-data"
	MsgPasswordRequirements    = "Password must be at least 7 characters and contain an uppercase letter, a lowercase letter, a number, and a special character"
	MsgPasswordResetSent       = "Password reset url sent successfully."
	MsgPasswordResetSuccessful = "Password reset successful."
)

// Success messages.
const (
	MsgSuccess            = "Success"
	MsgUserRegistered     = "User registered successfully"
	MsgAlbumCreated       = "Album Created"
	MsgAlbumUpdated       = "Album updated"
	MsgAlbumDeleted       = "Album deleted successfully."
	StatusSuccessEnvelope = "success"
)

// Log fields and categories.
const (
	LogRedactedValue   = "[REDACTED]"
	LogCategoryAuth    = "auth"
	LogEventLogin      = "Authentication event"
	LogEventFileAccess = "File access"
)
