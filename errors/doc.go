// Package errors provides the structured AppError type shared by every layer:
// machine-readable codes, HTTP status mapping, and retryable detection.
//
// Transcription failures are converted to AppError only at the HTTP boundary;
// inside the engine they travel as transcription.Failure values.
package errors
