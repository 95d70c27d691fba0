// Package resilience holds the fault-tolerance primitives used across the
// service:
//   - Bulkhead caps concurrent transcriptions in a batch
//   - CircuitBreaker fails fast against a hosted provider that keeps failing
//   - Retry backs off while waiting for Redis or the database at startup
package resilience
