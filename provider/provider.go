package provider

import "context"

// Provider is the base interface every backend implements.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable reports whether the provider can take requests.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider from a loosely typed config section.
type Factory[T Provider] func(cfg map[string]any) (T, error)
