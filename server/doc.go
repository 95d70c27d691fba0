// Package server runs the Gin HTTP server.
//
// Handlers are served over HTTP/1.1 and cleartext HTTP/2 (h2c) on one port.
// ApplyDefaults installs the middleware stack and the /health, /ready and
// /version endpoints; Component plugs the server into the component registry.
package server
