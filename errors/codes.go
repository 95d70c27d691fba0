package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/availability errors.
const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeConnectionFailed   ErrorCode = "CONNECTION_FAILED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
)

// Resource and validation errors.
const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Internal errors.
const (
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError   ErrorCode = "DATABASE_ERROR"
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// Transcription errors.
const (
	// ErrCodeMissingBlob means the recording has no audio to transcribe yet.
	ErrCodeMissingBlob ErrorCode = "MISSING_BLOB"
	// ErrCodeNoProvider means no transcription provider is selected in settings.
	ErrCodeNoProvider ErrorCode = "NO_PROVIDER_SELECTED"
	// ErrCodeSettingsUnavailable means the settings snapshot could not be read.
	ErrCodeSettingsUnavailable ErrorCode = "SETTINGS_UNAVAILABLE"
	ErrCodeProviderAuth        ErrorCode = "PROVIDER_AUTHENTICATION"
	ErrCodeProviderRateLimited ErrorCode = "PROVIDER_RATE_LIMITED"
	ErrCodeProviderInput       ErrorCode = "PROVIDER_MALFORMED_INPUT"
	ErrCodeProviderNetwork     ErrorCode = "PROVIDER_NETWORK"
	ErrCodeProviderFailed      ErrorCode = "PROVIDER_FAILED"
	ErrCodeStorageWrite        ErrorCode = "STORAGE_WRITE_FAILED"
	ErrCodeInvalidTransition   ErrorCode = "INVALID_STATUS_TRANSITION"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable:  true,
	ErrCodeConnectionFailed:    true,
	ErrCodeTimeout:             true,
	ErrCodeRateLimited:         true,
	ErrCodeDatabaseError:       true,
	ErrCodeExternalService:     true,
	ErrCodeSettingsUnavailable: true,
	ErrCodeProviderRateLimited: true,
	ErrCodeProviderNetwork:     true,
	ErrCodeStorageWrite:        true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
