// Package observability wires OpenTelemetry tracing and metrics.
//
// InitTracer and InitMeter install global providers that export over OTLP
// HTTP. Metrics holds the instruments used by provider middleware and by the
// transcription analytics sink.
package observability
