// Package kafka publishes JSON event envelopes to Kafka with segmentio/kafka-go.
//
// The Component creates a Producer on Start and closes it on Stop. Writes
// that fail with connection or transient broker errors are retried through
// resilience.RetryFunc; other errors return immediately.
package kafka
