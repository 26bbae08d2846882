// Package errors provides the typed error taxonomy used across CapLedger.
// The API client classifies every backend response into one of these types so
// callers can branch on session expiry, request failures and network faults
// with errors.Is / errors.As instead of string matching.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// New returns an error that formats as the given text.
var New = errors.New

// Is and As re-export the standard library helpers so callers need a single
// errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Sentinel errors.
var (
	// ErrSessionExpired indicates the backend rejected the session cookie (HTTP 401).
	ErrSessionExpired = errors.New("session expired")

	// ErrRequestFailed indicates the backend answered with a non-2xx status.
	ErrRequestFailed = errors.New("request failed")

	// ErrNetwork indicates the request never produced an HTTP response.
	ErrNetwork = errors.New("network error")

	// ErrNotFound indicates that a requested record was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the signed-in role may not perform the action.
	ErrForbidden = errors.New("forbidden")

	// ErrPaginationLimit indicates a paginated fetch hit its page cap.
	ErrPaginationLimit = errors.New("pagination limit reached")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// SessionExpiredMessage is what the user sees when the session is gone.
const SessionExpiredMessage = "Session expired. Please sign in again."

// SessionExpiredError is returned for any HTTP 401 from the backend.
type SessionExpiredError struct {
	Endpoint string
}

// Error implements the error interface
func (e *SessionExpiredError) Error() string {
	return SessionExpiredMessage
}

// Is implements errors.Is support
func (e *SessionExpiredError) Is(target error) bool {
	return target == ErrSessionExpired
}

// NewSessionExpiredError creates a new SessionExpiredError
func NewSessionExpiredError(endpoint string) *SessionExpiredError {
	return &SessionExpiredError{Endpoint: endpoint}
}

// RequestFailedError represents a non-2xx, non-401 backend response.
// Detail carries the backend's "detail" text when one was provided.
type RequestFailedError struct {
	StatusCode int
	Detail     string
	Endpoint   string
}

// Error implements the error interface
func (e *RequestFailedError) Error() string {
	if strings.TrimSpace(e.Detail) != "" {
		return e.Detail
	}
	return fmt.Sprintf("Request failed (%d)", e.StatusCode)
}

// Is implements errors.Is support
func (e *RequestFailedError) Is(target error) bool {
	if target == ErrRequestFailed {
		return true
	}
	switch e.StatusCode {
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusForbidden:
		return target == ErrForbidden
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return target == ErrInvalidInput
	}
	return false
}

// NewRequestFailedError creates a new RequestFailedError
func NewRequestFailedError(endpoint string, statusCode int, detail string) *RequestFailedError {
	return &RequestFailedError{
		StatusCode: statusCode,
		Detail:     detail,
		Endpoint:   endpoint,
	}
}

// NetworkError wraps a transport-level failure (DNS, refused connection,
// timeout) where no HTTP response was received.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "network error"
	}
	return e.Err.Error()
}

// Unwrap implements errors.Unwrap
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(method, url string, err error) *NetworkError {
	return &NetworkError{Method: method, URL: url, Err: err}
}

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a form or record validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// AccessError is returned when a role tries to use a screen or action it
// was not granted.
type AccessError struct {
	Role   string
	Action string
}

// Error implements the error interface
func (e *AccessError) Error() string {
	role := e.Role
	if role == "" {
		role = "anonymous"
	}
	return fmt.Sprintf("%s is not available for role %s", e.Action, role)
}

// Is implements errors.Is support
func (e *AccessError) Is(target error) bool {
	return target == ErrForbidden
}

// NewAccessError creates a new AccessError
func NewAccessError(role, action string) *AccessError {
	return &AccessError{Role: role, Action: action}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents a payload that could not be decoded or did not have
// the expected shape.
type ParseError struct {
	Format   string // "json", "yaml", "form"
	Resource string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s parse error in %s: %s", e.Format, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, resource, message string, err error) *ParseError {
	return &ParseError{
		Format:   format,
		Resource: resource,
		Message:  message,
		Err:      err,
	}
}

// Helper functions for error checking

// IsSessionExpired reports whether err came from an HTTP 401.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// IsRequestFailed reports whether err is a non-2xx backend response.
func IsRequestFailed(err error) bool {
	return errors.Is(err, ErrRequestFailed)
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsForbidden checks if an error is an access error
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.StatusCode
	}
	if IsSessionExpired(err) {
		return http.StatusUnauthorized
	}
	return 0
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, resource string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, resource, err.Error(), err)
}

// WrapNetwork wraps an error as a NetworkError
func WrapNetwork(method, url string, err error) error {
	if err == nil {
		return nil
	}
	return NewNetworkError(method, url, err)
}
