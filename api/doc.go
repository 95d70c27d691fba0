// Package api implements the /api/v1 HTTP handlers: recordings, single and
// batch transcription, settings, providers and the event stream.
package api
