package transcription

import (
	"slices"
	"sync"

	"github.com/kbukum/scribe/provider"
)

type registryEntry struct {
	adapter Adapter
	extract ConfigExtractor
}

// Registry maps provider ids to adapters and their config extractors.
type Registry struct {
	mu         sync.RWMutex
	entries    map[ProviderID]registryEntry
	middleware []AdapterMiddleware
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithMiddleware wraps every adapter registered afterwards. The first
// middleware is outermost.
func WithMiddleware(mw ...AdapterMiddleware) RegistryOption {
	return func(r *Registry) { r.middleware = append(r.middleware, mw...) }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{entries: make(map[ProviderID]registryEntry)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces a provider. A nil extract falls back to
// DefaultExtractors, then to the shared options only.
func (r *Registry) Register(id ProviderID, adapter Adapter, extract ConfigExtractor) {
	if extract == nil {
		extract = DefaultExtractors[id]
	}
	if extract == nil {
		extract = shared
	}
	if len(r.middleware) > 0 {
		adapter = provider.Chain(r.middleware...)(adapter)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = registryEntry{adapter: adapter, extract: extract}
}

// Resolve returns the adapter for id. An empty or unknown id is the normal
// "not configured" case and reports false.
func (r *Registry) Resolve(id ProviderID) (Adapter, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.adapter, true
}

// ExtractConfig assembles the adapter config for id from a settings snapshot.
func (r *Registry) ExtractConfig(id ProviderID, s Settings) ProviderConfig {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return shared(s)
	}
	return e.extract(s)
}

// Providers lists registered ids in sorted order.
func (r *Registry) Providers() []ProviderID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]ProviderID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// RegisterFactories builds an adapter for every entry in configs and
// registers it under the entry name.
func (r *Registry) RegisterFactories(factories *provider.Registry[Adapter], configs map[string]map[string]any) error {
	built, err := factories.Build(configs)
	if err != nil {
		return err
	}
	for _, b := range built {
		r.Register(ProviderID(b.Name), b.Provider, nil)
	}
	return nil
}

// NewFactoryRegistry returns an empty factory registry for adapters.
func NewFactoryRegistry() *provider.Registry[Adapter] {
	return provider.NewRegistry[Adapter]()
}
