package kafka

import (
	"context"
	"errors"
	"strings"
)

var connectionPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"no route to host",
	"network is unreachable",
	"broker not available",
	"leader not available",
	"dial tcp",
}

var transientPatterns = []string{
	"temporary",
	"request timed out",
	"not enough replicas",
}

// IsConnectionError reports whether err is a connection-level failure.
func IsConnectionError(err error) bool {
	return matches(err, connectionPatterns)
}

// IsRetryableError reports whether a failed write is worth repeating.
func IsRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return IsConnectionError(err) || matches(err, transientPatterns)
}

func matches(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
