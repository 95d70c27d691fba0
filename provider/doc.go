// Package provider defines the generic provider shapes used for swappable
// backends.
//
// Two interaction patterns are used:
//   - RequestResponse[I, O]: one input, one output (HTTP call, subprocess)
//   - Sink[I]: one input, acknowledged with an error only (Kafka, logs)
//
// Registry holds named factories so backends can be built from config.
//
// # Middleware
//
// Middleware[I, O] wraps a RequestResponse. Chain composes them:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics),
//	    provider.WithTracing[In, Out]("scribe"),
//	)(raw)
package provider
