// Package version reports build information for /version and the startup banner.
package version
