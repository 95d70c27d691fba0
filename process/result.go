package process

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Result is the captured output of a finished subprocess.
type Result struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is -1 when the process was killed.
	ExitCode int
	Duration time.Duration
}

// ExitError reports a process that exited non-zero on its own.
type ExitError struct {
	Binary   string
	ExitCode int
	// Stderr is the trimmed tail of the process's standard error.
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("process: %s exited with code %d: %s", e.Binary, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("process: %s exited with code %d", e.Binary, e.ExitCode)
}

func (e *ExitError) Unwrap() error { return e.Err }

// AsExitError unwraps an *ExitError from err.
func AsExitError(err error) (*ExitError, bool) {
	var e *ExitError
	ok := errors.As(err, &e)
	return e, ok
}

const stderrTail = 512

func tail(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > stderrTail {
		s = s[len(s)-stderrTail:]
	}
	return s
}
