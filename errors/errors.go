package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error.
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithDetail sets a single detail and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an AppError with retryability derived from the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Common constructors ---

func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable,
		fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		http.StatusServiceUnavailable).WithDetail("service", service)
}

func ConnectionFailed(service string) *AppError {
	return New(ErrCodeConnectionFailed,
		fmt.Sprintf("Unable to connect to %s. Please verify the service is running.", service),
		http.StatusServiceUnavailable).WithDetail("service", service)
}

func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, "The request took too long. Please try again.",
		http.StatusGatewayTimeout).WithDetail("operation", operation)
}

func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "Too many requests. Please wait a moment and try again.",
		http.StatusTooManyRequests)
}

// NotFound reports a missing resource; id is optional.
func NotFound(resource, id string) *AppError {
	e := New(ErrCodeNotFound, fmt.Sprintf("The requested %s was not found.", resource),
		http.StatusNotFound).WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

func Conflict(reason string) *AppError {
	return New(ErrCodeConflict, reason, http.StatusConflict)
}

// InvalidInput reports a bad request field; field may be empty.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, fmt.Sprintf("Invalid input: %s", reason), http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return New(ErrCodeUnauthorized, reason, http.StatusUnauthorized)
}

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.",
		http.StatusInternalServerError).WithCause(cause)
}

func DatabaseError(cause error) *AppError {
	return New(ErrCodeDatabaseError, "A database error occurred. Please try again.",
		http.StatusInternalServerError).WithCause(cause)
}

func ExternalServiceError(service string, cause error) *AppError {
	return New(ErrCodeExternalService,
		fmt.Sprintf("The %s service encountered an error. Please try again.", service),
		http.StatusBadGateway).WithDetail("service", service).WithCause(cause)
}

// InvalidTransition reports a recording status change the state machine forbids.
func InvalidTransition(from, to string) *AppError {
	return New(ErrCodeInvalidTransition,
		fmt.Sprintf("Cannot move a recording from %s to %s.", from, to),
		http.StatusConflict).WithDetails(map[string]any{"from": from, "to": to})
}
