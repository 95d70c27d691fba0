package process

import (
	"io"
	"time"
)

// Command describes a subprocess to run.
type Command struct {
	// Binary is an executable path or a name resolved via PATH.
	Binary string
	Args   []string
	Dir    string
	// Env is appended to the parent environment.
	Env   []string
	Stdin io.Reader
	// GracePeriod is the wait between SIGTERM and SIGKILL once the context
	// ends. Defaults to 5s.
	GracePeriod time.Duration
}
