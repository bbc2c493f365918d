package rest

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an API error. The set is closed: every error returned by
// the client carries exactly one of these tags.
type Kind string

const (
	KindAuthentication Kind = "authentication"
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindRateLimit      Kind = "rate_limit"
	KindServer         Kind = "server"
	KindTimeout        Kind = "timeout"
	KindNetwork        Kind = "network"
	// KindAPI covers any other non-2xx status not mapped to a more
	// specific kind.
	KindAPI Kind = "api"
)

// FieldError is one entry of a validation error's field list, in the order
// the server reported it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the single error type returned by the client. Kind discriminates
// the variant; the shared fields are populated for every variant that has
// them, the variant-specific fields only for their own kind.
type Error struct {
	Kind    Kind
	Message string
	// Code is a machine-readable error code, either server-supplied or a
	// per-kind default.
	Code string
	// StatusCode is the HTTP status, zero for timeout/network errors.
	StatusCode int
	// RequestID is the server-assigned x-request-id when present.
	RequestID string
	// Details carries the raw decoded error payload for KindAPI errors.
	Details map[string]any

	// Fields holds per-field messages for KindValidation.
	Fields []FieldError

	// ResourceType and ResourceID identify the missing resource for
	// KindNotFound when known.
	ResourceType string
	ResourceID   string

	// RetryAfter is the server-directed delay in seconds for
	// KindRateLimit, zero when the header was absent.
	RetryAfter int
	// RateLimit is the quota state reported alongside a KindRateLimit
	// error, when the headers were present.
	RateLimit *RateLimitInfo

	// Timeout is the configured per-attempt timeout for KindTimeout.
	Timeout time.Duration

	// Aborted marks a KindNetwork error caused by caller cancellation,
	// as opposed to a transport failure.
	Aborted bool

	wrapped error
}

// Default messages used when the server provides none.
const (
	msgAuthentication = "Invalid or missing API key"
	msgValidation     = "Validation failed"
	msgNotFound       = "Resource not found"
	msgConflict       = "Resource conflict"
	msgRateLimit      = "Rate limit exceeded"
	msgServer         = "Internal server error"
	msgTimeout        = "Request timed out"
	msgNetwork        = "Network error"
)

func (e *Error) Error() string {
	s := "zendra: " + e.Message
	if e.StatusCode > 0 {
		s += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.RequestID != "" {
		s += fmt.Sprintf(" (request %s)", e.RequestID)
	}
	if e.wrapped != nil {
		s += ": " + e.wrapped.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// NewAuthenticationError creates a 401 authentication error.
func NewAuthenticationError(message string) *Error {
	if message == "" {
		message = msgAuthentication
	}
	return &Error{Kind: KindAuthentication, Message: message, Code: "unauthorized", StatusCode: 401}
}

// NewValidationError creates a 400/422 validation error with the server's
// ordered field messages.
func NewValidationError(message string, statusCode int, fields []FieldError) *Error {
	if message == "" {
		message = msgValidation
	}
	return &Error{Kind: KindValidation, Message: message, Code: "validation_failed", StatusCode: statusCode, Fields: fields}
}

// NewNotFoundError creates a 404 error.
func NewNotFoundError(message string) *Error {
	if message == "" {
		message = msgNotFound
	}
	return &Error{Kind: KindNotFound, Message: message, Code: "not_found", StatusCode: 404}
}

// NewConflictError creates a 409 error.
func NewConflictError(message string) *Error {
	if message == "" {
		message = msgConflict
	}
	return &Error{Kind: KindConflict, Message: message, Code: "conflict", StatusCode: 409}
}

// NewRateLimitError creates a 429 error. retryAfter is the server-directed
// delay in seconds, zero when not supplied.
func NewRateLimitError(message string, retryAfter int, info *RateLimitInfo) *Error {
	if message == "" {
		message = msgRateLimit
	}
	return &Error{Kind: KindRateLimit, Message: message, Code: "rate_limited", StatusCode: 429, RetryAfter: retryAfter, RateLimit: info}
}

// NewServerError creates a 5xx error carrying the actual status code.
func NewServerError(message string, statusCode int) *Error {
	if message == "" {
		message = msgServer
	}
	return &Error{Kind: KindServer, Message: message, Code: "server_error", StatusCode: statusCode}
}

// NewTimeoutError creates a client-side deadline error. It carries no HTTP
// status; the request never completed.
func NewTimeoutError(timeout time.Duration) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("%s after %s", msgTimeout, timeout),
		Code:    "timeout",
		Timeout: timeout,
	}
}

// NewNetworkError creates a transport failure error wrapping the underlying
// cause.
func NewNetworkError(message string, wrapped error) *Error {
	if message == "" {
		message = msgNetwork
	}
	return &Error{Kind: KindNetwork, Message: message, Code: "network_error", wrapped: wrapped}
}

// NewAbortedError creates the network-kind error used when the caller's
// context is cancelled before or during an attempt. It is distinguishable
// from transport failures via Aborted.
func NewAbortedError(wrapped error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: "Request aborted by caller",
		Code:    "request_aborted",
		Aborted: true,
		wrapped: wrapped,
	}
}

// NewAPIError creates the generic error for statuses without a dedicated
// kind, carrying the raw decoded payload.
func NewAPIError(message string, statusCode int, details map[string]any) *Error {
	if message == "" {
		message = fmt.Sprintf("API error (status %d)", statusCode)
	}
	return &Error{Kind: KindAPI, Message: message, Code: "api_error", StatusCode: statusCode, Details: details}
}

// AsError unwraps err to the client's *Error if it is one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is a client error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

// IsAuthentication reports whether err is an authentication error.
func IsAuthentication(err error) bool { return IsKind(err, KindAuthentication) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return IsKind(err, KindConflict) }

// IsRateLimit reports whether err is a rate-limit error.
func IsRateLimit(err error) bool { return IsKind(err, KindRateLimit) }

// IsServer reports whether err is a 5xx server error.
func IsServer(err error) bool { return IsKind(err, KindServer) }

// IsTimeout reports whether err is a client-side timeout.
func IsTimeout(err error) bool { return IsKind(err, KindTimeout) }

// IsNetwork reports whether err is a network error, including aborts.
func IsNetwork(err error) bool { return IsKind(err, KindNetwork) }
