package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode classifies client errors.
type ErrorCode int

const (
	ErrCodeTimeout ErrorCode = iota
	ErrCodeConnection
	// ErrCodeAuth is 401 or 403.
	ErrCodeAuth
	ErrCodeNotFound
	// ErrCodeRateLimit is 429.
	ErrCodeRateLimit
	// ErrCodeValidation is any other 4xx, or a request that could not be built.
	ErrCodeValidation
	// ErrCodeServer is 5xx.
	ErrCodeServer
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a classified client error.
type Error struct {
	// StatusCode is 0 for transport-level failures.
	StatusCode int
	Code       ErrorCode
	Message    string
	Retryable  bool
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewTimeoutError wraps a deadline or timeout failure.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewConnectionError wraps a transport failure.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// NewValidationError reports a request that could not be built.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// ClassifyStatusCode returns nil for 2xx and a typed error otherwise. The
// message is taken from the body when it carries one.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	e := &Error{StatusCode: statusCode, Body: body, Message: bodyMessage(statusCode, body)}
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Code = ErrCodeAuth
	case statusCode == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		e.Code, e.Retryable = ErrCodeRateLimit, true
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeValidation
	case statusCode >= 500:
		e.Code, e.Retryable = ErrCodeServer, true
	default:
		e.Code = ErrCodeServer
	}
	return e
}

// bodyMessage extracts a message from the common JSON error envelopes
// ({"error":{"message":...}}, {"error":"..."}, {"detail":"..."}) and falls
// back to the status line.
func bodyMessage(statusCode int, body []byte) string {
	var envelope struct {
		Error  json.RawMessage `json:"error"`
		Detail string          `json:"detail"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		var nested struct {
			Message string `json:"message"`
		}
		var flat string
		switch {
		case json.Unmarshal(envelope.Error, &nested) == nil && nested.Message != "":
			return nested.Message
		case json.Unmarshal(envelope.Error, &flat) == nil && flat != "":
			return flat
		case envelope.Detail != "":
			return envelope.Detail
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "{") {
		return text
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

// CodeOf returns the classification of err and whether it is an *Error.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

// IsRetryable reports a retryable *Error.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

// IsOutage reports errors that suggest the remote side is down rather than
// rejecting this particular request.
func IsOutage(err error) bool {
	code, ok := CodeOf(err)
	if !ok {
		return false
	}
	return code == ErrCodeTimeout || code == ErrCodeConnection || code == ErrCodeServer
}
