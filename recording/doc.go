// Package recording persists recordings: rows in sqlite through gorm and
// audio in blob storage. Store is the StatusStore the transcription
// orchestrator writes lifecycle changes to.
package recording
