package provider

import (
	"fmt"
	"slices"
	"sync"
)

// Registry holds named factories so backends can be built from config.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// Built is one provider produced by Registry.Build.
type Built[T Provider] struct {
	Name     string
	Provider T
}

// NewRegistry creates an empty Registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]Factory[T])}
}

// RegisterFactory registers a named factory, replacing any previous one.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Create builds one provider from the named factory.
func (r *Registry[T]) Create(name string, cfg map[string]any) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("provider factory %q not registered", name)
	}
	return factory(cfg)
}

// Build creates one provider per entry in configs, ordered by name. An entry
// without a registered factory is an error; factories without an entry are
// skipped.
func (r *Registry[T]) Build(configs map[string]map[string]any) ([]Built[T], error) {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	slices.Sort(names)

	built := make([]Built[T], 0, len(names))
	for _, name := range names {
		p, err := r.Create(name, configs[name])
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", name, err)
		}
		built = append(built, Built[T]{Name: name, Provider: p})
	}
	return built, nil
}

// List returns the registered factory names in sorted order.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
