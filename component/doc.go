// Package component defines lifecycle-managed infrastructure (database,
// redis, kafka, HTTP server) and a Registry that starts them in order,
// stops them in reverse and reports their health.
package component
