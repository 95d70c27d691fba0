// Package analytics provides sinks for transcription lifecycle events:
// the structured log, OpenTelemetry metrics, Kafka, and the UI event
// stream. Multi fans one event out to several sinks.
package analytics
