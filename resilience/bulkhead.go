package resilience

import (
	"context"
	"errors"
	"time"
)

// Bulkhead errors.
var (
	ErrBulkheadFull    = errors.New("bulkhead is full")
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// WaitForever makes Execute block for a slot until the context ends.
const WaitForever time.Duration = -1

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name identifies the bulkhead in logs and callbacks.
	Name string
	// MaxConcurrent caps concurrent calls. Defaults to 10.
	MaxConcurrent int
	// MaxWait bounds the wait for a slot. 0 fails immediately when full,
	// WaitForever waits until the context is done.
	MaxWait time.Duration
	// OnReject is called when a call is refused a slot.
	OnReject func(name string)
}

// Bulkhead limits how many calls run at once.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}
}

// NewBulkhead creates a bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Execute runs fn once a slot is free. It returns ErrBulkheadFull,
// ErrBulkheadTimeout or the context error when no slot was obtained;
// otherwise it returns fn's error.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		if b.config.OnReject != nil {
			b.config.OnReject(b.config.Name)
		}
		return err
	}
	defer func() { <-b.sem }()
	return fn()
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case b.sem <- struct{}{}:
		return nil
	default:
	}

	switch {
	case b.config.MaxWait == WaitForever:
		select {
		case b.sem <- struct{}{}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	case b.config.MaxWait <= 0:
		return ErrBulkheadFull
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InUse returns the number of occupied slots.
func (b *Bulkhead) InUse() int { return len(b.sem) }

// MaxConcurrent returns the slot count.
func (b *Bulkhead) MaxConcurrent() int { return b.config.MaxConcurrent }
