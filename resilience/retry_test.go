package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
}

func TestRetry(t *testing.T) {
	permanent := errors.New("permanent")
	tests := []struct {
		name      string
		cfg       RetryConfig
		failUntil int
		err       error
		wantCalls int
		wantErr   error
	}{
		{name: "first attempt", cfg: fastRetry(3), failUntil: 0, wantCalls: 1},
		{name: "succeeds on third", cfg: fastRetry(3), failUntil: 2, err: errTest, wantCalls: 3},
		{name: "exhausted", cfg: fastRetry(3), failUntil: 10, err: errTest, wantCalls: 3, wantErr: errTest},
		{
			name:      "non retryable",
			cfg:       RetryConfig{MaxAttempts: 5, InitialBackoff: time.Millisecond, RetryIf: func(err error) bool { return !errors.Is(err, permanent) }},
			failUntil: 10,
			err:       permanent,
			wantCalls: 1,
			wantErr:   permanent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := Retry(context.Background(), tt.cfg, func() (string, error) {
				calls++
				if calls <= tt.failUntil {
					return "", tt.err
				}
				return "ok", nil
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && got != "ok" {
				t.Errorf("expected ok, got %q", got)
			}
			if calls != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, calls)
			}
		})
	}
}

func TestRetry_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	cfg := RetryConfig{MaxAttempts: 100, InitialBackoff: 50 * time.Millisecond}
	err := RetryFunc(ctx, cfg, func() error { return errTest })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestRetry_OnRetryCallback(t *testing.T) {
	var attempts []int
	cfg := fastRetry(3)
	cfg.OnRetry = func(attempt int, _ error, _ time.Duration) { attempts = append(attempts, attempt) }

	_ = RetryFunc(context.Background(), cfg, func() error { return errTest })
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("unexpected retry attempts %v", attempts)
	}
}

func TestBackoffCapped(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second, BackoffFactor: 10}
	if d := backoff(1, cfg); d != time.Second {
		t.Errorf("attempt 1 backoff = %v", d)
	}
	if d := backoff(4, cfg); d != 3*time.Second {
		t.Errorf("attempt 4 backoff = %v", d)
	}
}
