package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"
)

var errTest = errors.New("test error")

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test", MaxFailures: 3, Timeout: time.Second})

	if cb.State() != StateClosed {
		t.Fatalf("expected closed, got %s", cb.State())
	}
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errTest })
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	err := cb.Execute(func() error {
		t.Error("fn must not run while open")
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 2})

	_ = cb.Execute(func() error { return errTest })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return errTest })

	if cb.State() != StateClosed {
		t.Errorf("expected closed, got %s", cb.State())
	}
}

func TestCircuitBreaker_IsFailureFilter(t *testing.T) {
	ignored := errors.New("client error")
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures: 1,
		IsFailure:   func(err error) bool { return !errors.Is(err, ignored) },
	})

	for i := 0; i < 5; i++ {
		if err := cb.Execute(func() error { return ignored }); !errors.Is(err, ignored) {
			t.Fatalf("expected fn error passed through, got %v", err)
		}
	}
	if cb.State() != StateClosed {
		t.Errorf("filtered errors must not open the circuit, got %s", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenTransitions(t *testing.T) {
	tests := []struct {
		name  string
		trial error
		want  State
	}{
		{name: "trial succeeds", trial: nil, want: StateClosed},
		{name: "trial fails", trial: errTest, want: StateOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var transitions []State
			cb := NewCircuitBreaker(CircuitBreakerConfig{
				Name:        "test",
				MaxFailures: 1,
				Timeout:     10 * time.Millisecond,
				OnStateChange: func(_ string, _, to State) {
					transitions = append(transitions, to)
				},
			})
			_ = cb.Execute(func() error { return errTest })
			time.Sleep(20 * time.Millisecond)

			if cb.State() != StateHalfOpen {
				t.Fatalf("expected half-open, got %s", cb.State())
			}
			_ = cb.Execute(func() error { return tt.trial })
			if cb.State() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, cb.State())
			}
			if len(transitions) != 3 || transitions[0] != StateOpen || transitions[1] != StateHalfOpen {
				t.Errorf("unexpected transitions %v", transitions)
			}
		})
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Hour})
	_ = cb.Execute(func() error { return errTest })
	cb.Reset()
	if cb.State() != StateClosed {
		t.Errorf("expected closed after reset, got %s", cb.State())
	}
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1000})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = cb.Execute(func() error {
				if i%2 == 0 {
					return errTest
				}
				return nil
			})
		}(i)
	}
	wg.Wait()
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StateClosed:   "closed",
		StateOpen:     "open",
		StateHalfOpen: "half-open",
		State(42):     "unknown",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
