// Package notify implements transcription.Notifier for the log and the UI
// event stream.
package notify
