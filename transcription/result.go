package transcription

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/httpclient"
)

// Kind is the top-level failure taxonomy.
type Kind string

const (
	KindMissingBlob         Kind = "missing_blob"
	KindNoProviderSelected  Kind = "no_provider_selected"
	KindSettingsUnavailable Kind = "settings_unavailable"
	KindProvider            Kind = "provider_failure"
	KindStorageWrite        Kind = "storage_write_failure"
)

// ProviderKind refines KindProvider failures.
type ProviderKind string

const (
	ProviderAuthentication ProviderKind = "authentication"
	ProviderRateLimit      ProviderKind = "rate_limit"
	ProviderMalformedInput ProviderKind = "malformed_input"
	ProviderNetwork        ProviderKind = "network"
	ProviderUnknown        ProviderKind = "unknown"
)

// Failure is a terminal transcription failure with display-ready text.
type Failure struct {
	Kind         Kind         `json:"kind"`
	ProviderKind ProviderKind `json:"provider_kind,omitempty"`
	Provider     ProviderID   `json:"provider,omitempty"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Cause        error        `json:"-"`
}

func (f *Failure) Error() string {
	msg := string(f.Kind)
	if f.ProviderKind != "" {
		msg += "/" + string(f.ProviderKind)
	}
	msg += ": " + f.Title
	if f.Cause != nil {
		msg += ": " + f.Cause.Error()
	}
	return msg
}

func (f *Failure) Unwrap() error { return f.Cause }

// AppError maps the failure onto the shared error envelope.
func (f *Failure) AppError() *errors.AppError {
	code, status := errors.ErrCodeProviderFailed, http.StatusBadGateway
	switch f.Kind {
	case KindMissingBlob:
		code, status = errors.ErrCodeMissingBlob, http.StatusUnprocessableEntity
	case KindNoProviderSelected:
		code, status = errors.ErrCodeNoProvider, http.StatusConflict
	case KindSettingsUnavailable:
		code, status = errors.ErrCodeSettingsUnavailable, http.StatusServiceUnavailable
	case KindStorageWrite:
		code, status = errors.ErrCodeStorageWrite, http.StatusInternalServerError
	case KindProvider:
		switch f.ProviderKind {
		case ProviderAuthentication:
			code, status = errors.ErrCodeProviderAuth, http.StatusUnauthorized
		case ProviderRateLimit:
			code, status = errors.ErrCodeProviderRateLimited, http.StatusTooManyRequests
		case ProviderMalformedInput:
			code, status = errors.ErrCodeProviderInput, http.StatusBadRequest
		case ProviderNetwork:
			code, status = errors.ErrCodeProviderNetwork, http.StatusServiceUnavailable
		}
	}
	appErr := errors.New(code, f.Title, status).WithDetail("description", f.Description)
	if f.Provider != "" {
		appErr.WithDetail("provider", string(f.Provider))
	}
	return appErr.WithCause(f.Cause)
}

// Result is the uniform outcome: exactly one of Text or Failure is meaningful.
type Result struct {
	Text    string   `json:"text,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
}

// Success builds a successful result.
func Success(text string) Result { return Result{Text: text} }

// Fail builds a failed result.
func Fail(f *Failure) Result { return Result{Failure: f} }

// OK reports whether the result is a success.
func (r Result) OK() bool { return r.Failure == nil }

func MissingBlob() *Failure {
	return &Failure{
		Kind:        KindMissingBlob,
		Title:       "Recording has no audio",
		Description: "This recording has no audio data yet. Finish or re-record it, then try again.",
	}
}

func NoProviderSelected() *Failure {
	return &Failure{
		Kind:        KindNoProviderSelected,
		Title:       "No transcription provider selected",
		Description: "Select a transcription provider in settings before transcribing.",
	}
}

func SettingsUnavailable(cause error) *Failure {
	return &Failure{
		Kind:        KindSettingsUnavailable,
		Title:       "Settings could not be loaded",
		Description: "Transcription settings are temporarily unavailable. Please try again.",
		Cause:       cause,
	}
}

// StorageWriteFailure describes a failed bookkeeping write. It is only ever
// surfaced as a warning.
func StorageWriteFailure(status Status, cause error) *Failure {
	return &Failure{
		Kind:        KindStorageWrite,
		Title:       "Unable to update recording",
		Description: fmt.Sprintf("The recording could not be marked %s. Transcription is not affected.", status),
		Cause:       cause,
	}
}

var providerText = map[ProviderKind][2]string{
	ProviderAuthentication: {"Authentication failed", "The %s API key is missing or was rejected. Check it in settings."},
	ProviderRateLimit:      {"Rate limit reached", "%s is rate limiting requests or the quota is exhausted. Wait a moment and try again."},
	ProviderMalformedInput: {"Audio was rejected", "%s could not process this audio. The file may be corrupt, too large, or in an unsupported format."},
	ProviderNetwork:        {"Could not reach provider", "The request to %s failed before a response arrived. Check the connection or endpoint and try again."},
	ProviderUnknown:        {"Transcription failed", "%s returned an unexpected error."},
}

// ProviderFailure builds a KindProvider failure with standard wording.
func ProviderFailure(provider ProviderID, kind ProviderKind, cause error) *Failure {
	text, ok := providerText[kind]
	if !ok {
		kind, text = ProviderUnknown, providerText[ProviderUnknown]
	}
	name := string(provider)
	if name == "" {
		name = "The provider"
	}
	return &Failure{
		Kind:         KindProvider,
		ProviderKind: kind,
		Provider:     provider,
		Title:        text[0],
		Description:  fmt.Sprintf(text[1], name),
		Cause:        cause,
	}
}

// FailureFromError classifies an adapter error into a Failure.
func FailureFromError(provider ProviderID, err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if stderrors.As(err, &f) {
		return f
	}
	return ProviderFailure(provider, classify(err), err)
}

func classify(err error) ProviderKind {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return ProviderNetwork
	}

	var httpErr *httpclient.Error
	if stderrors.As(err, &httpErr) {
		switch httpErr.Code {
		case httpclient.ErrCodeAuth:
			return ProviderAuthentication
		case httpclient.ErrCodeRateLimit:
			return ProviderRateLimit
		case httpclient.ErrCodeValidation, httpclient.ErrCodeNotFound:
			return ProviderMalformedInput
		case httpclient.ErrCodeTimeout, httpclient.ErrCodeConnection:
			return ProviderNetwork
		case httpclient.ErrCodeServer:
			return StatusKind(httpErr.StatusCode)
		default:
			return ProviderUnknown
		}
	}

	if appErr, ok := errors.AsAppError(err); ok {
		switch appErr.Code {
		case errors.ErrCodeUnauthorized:
			return ProviderAuthentication
		case errors.ErrCodeRateLimited:
			return ProviderRateLimit
		case errors.ErrCodeInvalidInput:
			return ProviderMalformedInput
		case errors.ErrCodeTimeout, errors.ErrCodeConnectionFailed, errors.ErrCodeServiceUnavailable:
			return ProviderNetwork
		}
	}
	return ProviderUnknown
}

// StatusKind maps an HTTP status from a vendor SDK onto a ProviderKind.
func StatusKind(status int) ProviderKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ProviderAuthentication
	case status == http.StatusTooManyRequests:
		return ProviderRateLimit
	case status >= 400 && status < 500:
		return ProviderMalformedInput
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		return ProviderNetwork
	default:
		return ProviderUnknown
	}
}
