package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// ErrBinaryNotFound is returned when the binary cannot be resolved.
var ErrBinaryNotFound = errors.New("process: binary not found")

const defaultGracePeriod = 5 * time.Second

// Run executes cmd and waits for it. When ctx ends the whole process group
// gets SIGTERM, then SIGKILL after the grace period, and the context error
// is returned. A non-zero exit returns the Result and an *ExitError.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}
	if !Available(cmd.Binary) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryNotFound, cmd.Binary)
	}

	grace := cmd.GracePeriod
	if grace == 0 {
		grace = defaultGracePeriod
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)
	c.Stdin = cmd.Stdin

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = grace

	start := time.Now()
	err := c.Run()
	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: -1,
		Duration: time.Since(start),
	}
	if c.ProcessState != nil {
		result.ExitCode = c.ProcessState.ExitCode()
	}

	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("process: killed by context: %w", ctx.Err())
		}
		return result, &ExitError{
			Binary:   cmd.Binary,
			ExitCode: result.ExitCode,
			Stderr:   tail(result.Stderr),
			Err:      err,
		}
	}
	return result, nil
}

// Available reports whether binary resolves to an executable.
func Available(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}

func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil
	}
	return append(os.Environ(), extra...)
}
