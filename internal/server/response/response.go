// Package response writes the JSON envelopes used by the console server's
// machine endpoints (health checks, rate limiting, panics). Every body has a
// data field on success and an error field on failure.
package response

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Response is the envelope of every JSON body.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error is an error with a stable code, a message and optional details.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success wraps data.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail builds an error envelope.
func Fail(code, message, details string) Response {
	return Response{Error: &Error{Code: code, Message: message, Details: details}}
}

// JSON writes resp with status.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding failure cannot be reported.
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes data with 200.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail("BAD_REQUEST", message, details))
}

// Forbidden writes a 403 error response.
func Forbidden(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusForbidden, Fail("FORBIDDEN", message, details))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail("NOT_FOUND", message, details))
}

// RateLimited writes a 429 error response.
func RateLimited(w http.ResponseWriter, message string) {
	JSON(w, http.StatusTooManyRequests, Fail("RATE_LIMITED", "Rate limit exceeded", message))
}

// InternalError writes a 500 error response without leaking err.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError, Fail(
		"INTERNAL_ERROR",
		"Internal server error",
		"An unexpected error occurred",
	))
}

// BadGateway writes a 502 error response.
func BadGateway(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadGateway, Fail("BAD_GATEWAY", "Backend unavailable", message))
}
