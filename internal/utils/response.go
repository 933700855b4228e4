// Package utils provides utility functions and helpers for the application.
// This file implements the response envelopes shared by every endpoint.
//
// Successful responses have the shape
//
//	{"statusCode": 200, "status": "success", "message": "...", "data": ...}
//
// and failures the shape
//
//	{"statusCode": 404, "message": "...", "status": false, "timestamp": "...",
//	 "code": "...", "errors": {...}, "stack": "..."}
//
// where code, errors and stack are optional and stack is only emitted while
// error details are exposed (development).
package utils

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
)

// Response represents a successful API response.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

// ErrorResponse represents a failed API response.
type ErrorResponse struct {
	StatusCode int            `json:"statusCode"`
	Message    string         `json:"message"`
	Status     bool           `json:"status"`
	Timestamp  string         `json:"timestamp"`
	Code       string         `json:"code,omitempty"`
	Errors     map[string]any `json:"errors,omitempty"`
	Stack      string         `json:"stack,omitempty"`
}

var exposeErrorDetails atomic.Bool

// SetExposeErrorDetails toggles the stack field of error responses.
// It is enabled only for the development environment.
func SetExposeErrorDetails(expose bool) {
	exposeErrorDetails.Store(expose)
}

// Success sends a success envelope.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - message: A human-readable message
//   - data: The payload placed under "data"
func Success(w http.ResponseWriter, statusCode int, message string, data any) {
	SendJSON(w, statusCode, Response{
		StatusCode: statusCode,
		Status:     constants.StatusSuccessEnvelope,
		Message:    message,
		Data:       data,
	})
}

// JSON sends a success envelope with the default "Success" message.
func JSON(w http.ResponseWriter, statusCode int, data any) {
	Success(w, statusCode, constants.MsgSuccess, data)
}

// Error sends an error envelope with the given status code and error information.
// Any 500 carries the generic internal error message regardless of the input.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - code: A machine-readable error code, omitted when empty
//   - message: A human-readable error message
//   - errs: Field level errors, omitted when empty
func Error(w http.ResponseWriter, statusCode int, code, message string, errs map[string]any) {
	writeError(w, statusCode, code, message, errs, "")
}

func writeError(w http.ResponseWriter, statusCode int, code, message string, errs map[string]any, stack string) {
	if statusCode == http.StatusInternalServerError {
		message = constants.MsgInternalServerError
	}

	response := ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Status:     false,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Code:       code,
		Errors:     errs,
	}
	if exposeErrorDetails.Load() {
		response.Stack = stack
	}

	SendJSON(w, statusCode, response)
}

// ErrorFromAppError sends an error envelope based on an error.
// Plain errors are normalised through ParseError first, so this is the single
// conversion point between business failures and the wire.
//
// Parameters:
//   - w: The HTTP response writer
//   - err: The error to convert
func ErrorFromAppError(w http.ResponseWriter, err error) {
	appErr := ParseError(err)
	if appErr == nil {
		appErr = NewInternalServerError(nil)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		LogError(err, map[string]any{"status": appErr.StatusCode})
	}

	errs := appErr.Details
	if errs == nil && appErr.Field != "" {
		errs = map[string]any{appErr.Field: []string{appErr.Message}}
	}

	code := appErr.Code
	if code == "" {
		code = errorCode(appErr)
	}

	writeError(w, appErr.StatusCode, code, appErr.Message, errs, appErr.DevInfo)
}

func errorCode(err *AppError) string {
	switch {
	case err.StatusCode == http.StatusNotFound:
		return constants.CodeNotFound
	case err.StatusCode == http.StatusUnauthorized:
		return constants.CodeUnauthorized
	case err.StatusCode == http.StatusForbidden:
		return constants.CodeForbidden
	case err.StatusCode == http.StatusTooManyRequests:
		return constants.CodeTooManyRequests
	case err.StatusCode >= http.StatusInternalServerError:
		return constants.CodeInternalError
	default:
		return constants.CodeBadRequest
	}
}

// SendJSON marshals data and writes it with the given status code.
func SendJSON(w http.ResponseWriter, statusCode int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(`{"statusCode":500,"message":"Internal Server Error.","status":false}`)); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
		return
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// Unauthorized sends a 401 Unauthorized response with the given message.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgAuthenticationFailed
	}
	Error(w, http.StatusUnauthorized, constants.CodeUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response with the given message.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, constants.CodeForbidden, message, nil)
}

// NotFound sends a 404 Not Found response with the given message.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, constants.CodeNotFound, message, nil)
}

// MethodNotAllowed sends a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter, message string) {
	Error(w, http.StatusMethodNotAllowed, constants.CodeMethodNotAllowed, message, nil)
}

// TooManyRequests sends a 429 response.
func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, constants.CodeTooManyRequests, constants.MsgRateLimitExceeded, nil)
}
