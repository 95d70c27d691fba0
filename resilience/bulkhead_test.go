package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// occupy fills the bulkhead's single slot until release is closed.
func occupy(t *testing.T, b *Bulkhead) (release func()) {
	t.Helper()
	started := make(chan struct{})
	done := make(chan struct{})
	stop := make(chan struct{})
	go func() {
		defer close(done)
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-stop
			return nil
		})
	}()
	<-started
	return func() {
		close(stop)
		<-done
	}
}

func TestBulkhead_LimitsConcurrency(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 2, MaxWait: WaitForever})

	var running, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				n := atomic.AddInt32(&running, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&running, -1)
				return nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if peak > 2 {
		t.Errorf("peak concurrency %d exceeds limit 2", peak)
	}
	if b.InUse() != 0 {
		t.Errorf("expected all slots released, got %d in use", b.InUse())
	}
}

func TestBulkhead_WaitModes(t *testing.T) {
	tests := []struct {
		name    string
		maxWait time.Duration
		ctxWait time.Duration
		wantErr error
	}{
		{name: "fail fast", maxWait: 0, ctxWait: time.Second, wantErr: ErrBulkheadFull},
		{name: "bounded wait", maxWait: 10 * time.Millisecond, ctxWait: time.Second, wantErr: ErrBulkheadTimeout},
		{name: "wait forever ends with context", maxWait: WaitForever, ctxWait: 10 * time.Millisecond, wantErr: context.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rejected int32
			b := NewBulkhead(BulkheadConfig{
				Name:          "test",
				MaxConcurrent: 1,
				MaxWait:       tt.maxWait,
				OnReject:      func(string) { atomic.AddInt32(&rejected, 1) },
			})
			release := occupy(t, b)
			defer release()

			ctx, cancel := context.WithTimeout(context.Background(), tt.ctxWait)
			defer cancel()
			err := b.Execute(ctx, func() error { return nil })
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if atomic.LoadInt32(&rejected) != 1 {
				t.Errorf("expected one reject callback, got %d", rejected)
			}
		})
	}
}

func TestBulkhead_WaitForeverAcquiresReleasedSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1, MaxWait: WaitForever})
	release := occupy(t, b)

	go func() {
		time.Sleep(20 * time.Millisecond)
		release()
	}()

	ran := false
	if err := b.Execute(context.Background(), func() error { ran = true; return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("fn did not run")
	}
}

func TestBulkhead_CancelledContextNeverRuns(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 4})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Execute(ctx, func() error {
		t.Error("fn must not run")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBulkhead_ReturnsFnError(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{})
	if b.MaxConcurrent() != 10 {
		t.Errorf("expected default of 10 slots, got %d", b.MaxConcurrent())
	}
	boom := errors.New("boom")
	if err := b.Execute(context.Background(), func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("expected fn error, got %v", err)
	}
}
