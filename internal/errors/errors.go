// Package errors provides custom error types for the lgclient API client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrValidation = errors.New("validation failed")
	ErrHTTPStatus = errors.New("unexpected HTTP status")
	ErrNetwork    = errors.New("network error")
	ErrDecode     = errors.New("decode error")
	ErrUnknown    = errors.New("Unknown error occurred")
)

// MaxErrorBodySize caps how much of a failed response body is kept for diagnostics.
const MaxErrorBodySize = 4096

// ValidationError represents a missing or invalid input detected before any network call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is allows comparison with sentinel errors
func (e *ValidationError) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	_, ok := target.(*ValidationError)
	return ok
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// APIError represents a non-2xx response from the remote endpoint
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// Is allows comparison with sentinel errors
func (e *APIError) Is(target error) bool {
	if target == ErrHTTPStatus {
		return true
	}
	_, ok := target.(*APIError)
	return ok
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint string) *APIError {
	return &APIError{StatusCode: statusCode, Endpoint: endpoint}
}

// NewAPIErrorWithBody creates a new APIError carrying (a prefix of) the response body
func NewAPIErrorWithBody(statusCode int, endpoint, body string) *APIError {
	if len(body) > MaxErrorBodySize {
		body = body[:MaxErrorBodySize]
	}
	return &APIError{StatusCode: statusCode, Endpoint: endpoint, Body: body}
}

// NetworkError represents a transport failure: DNS, TLS, connection reset, or a
// failed read of the response stream
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("network error during %s", e.Operation)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *NetworkError) Is(target error) bool {
	if target == ErrNetwork {
		return true
	}
	_, ok := target.(*NetworkError)
	return ok
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Err: err}
}

// NewNetworkErrorWithEndpoint creates a new NetworkError with endpoint context
func NewNetworkErrorWithEndpoint(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// DecodeError represents a malformed byte sequence in the response stream
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "failed to decode response stream"
	}
	return fmt.Sprintf("failed to decode response stream: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *DecodeError) Is(target error) bool {
	if target == ErrDecode {
		return true
	}
	_, ok := target.(*DecodeError)
	return ok
}

// NewDecodeError creates a new DecodeError
func NewDecodeError(offset int64, err error) *DecodeError {
	return &DecodeError{Offset: offset, Err: err}
}

// UnknownError wraps a failure whose cause carries no usable message,
// e.g. a recovered panic with a non-error value
type UnknownError struct {
	Value any
}

func (e *UnknownError) Error() string {
	return ErrUnknown.Error()
}

// Is allows comparison with sentinel errors
func (e *UnknownError) Is(target error) bool {
	if target == ErrUnknown {
		return true
	}
	_, ok := target.(*UnknownError)
	return ok
}

// NewUnknownError creates a new UnknownError
func NewUnknownError(value any) *UnknownError {
	return &UnknownError{Value: value}
}

// FromRecovered converts a value returned by recover() into an error.
// Errors are returned as is; anything else becomes an UnknownError.
func FromRecovered(r any) error {
	if err, ok := r.(error); ok && err != nil {
		return err
	}
	return NewUnknownError(r)
}

// Message returns the user-facing text for err. Errors with an empty message
// fall back to the generic unknown error text.
func Message(err error) string {
	if err == nil {
		return ErrUnknown.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return ErrUnknown.Error()
}

// GetHTTPStatus returns the HTTP status code carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody returns the diagnostic response body carried by err, or ""
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsAPIError reports whether err is an APIError
func IsAPIError(err error) bool {
	return errors.Is(err, ErrHTTPStatus)
}

// IsAuthError reports whether err is a 401 or 403 response
func IsAuthError(err error) bool {
	status := GetHTTPStatus(err)
	return status == 401 || status == 403
}

// IsNetworkError reports whether err is a NetworkError
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsDecodeError reports whether err is a DecodeError
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}
