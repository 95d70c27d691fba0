// Package sse streams server-sent events to the UI.
//
// A Hub fans published payloads out to clients subscribed by topic pattern
// ("notifications", "transcriptions", "*"). Serve runs one stream on an HTTP
// response.
package sse
