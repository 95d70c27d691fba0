package component

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/scribe/logger"
)

// StopTimeout bounds each component's Stop call.
const StopTimeout = 10 * time.Second

type entry struct {
	component Component
	started   bool
}

// Registry starts components in registration order and stops them in reverse.
type Registry struct {
	entries []*entry
	lookup  map[string]*entry
	log     *logger.Logger
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		lookup: make(map[string]*entry),
		log:    logger.Get("component"),
	}
}

// Register adds a component. Register dependencies first.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.lookup[name]; exists {
		return fmt.Errorf("component %s already registered", name)
	}
	e := &entry{component: c}
	r.entries = append(r.entries, e)
	r.lookup[name] = e

	r.log.Debug("Component registered", logger.Fields("component", name))
	return nil
}

// StartAll starts every component in order. When one fails, the components
// already started are stopped again before the error is returned.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Info("Starting components", logger.Fields("count", len(r.entries)))
	for _, e := range r.entries {
		name := e.component.Name()
		if err := e.component.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.Fields("component", name, "error", err.Error()))
			r.stopStarted(context.WithoutCancel(ctx))
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		e.started = true
		r.log.Debug("Component started", logger.Fields("component", name))
	}
	return nil
}

// StopAll stops started components in reverse order and joins their errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Info("Stopping components")
	if errs := r.stopStarted(ctx); len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

func (r *Registry) stopStarted(ctx context.Context) []error {
	var errs []error
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if !e.started {
			continue
		}
		name := e.component.Name()

		stopCtx, cancel := context.WithTimeout(ctx, StopTimeout)
		if err := e.component.Stop(stopCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
			r.log.Error("Component stop failed", logger.Fields("component", name, "error", err.Error()))
		} else {
			r.log.Debug("Component stopped", logger.Fields("component", name))
		}
		cancel()
		e.started = false
	}
	return errs
}

// HealthAll returns every component's health in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Health, 0, len(r.entries))
	for _, e := range r.entries {
		results = append(results, e.component.Health(ctx))
	}
	return results
}

// Overall folds component healths into one status: unhealthy wins over
// degraded, which wins over healthy.
func Overall(healths []Health) HealthStatus {
	status := StatusHealthy
	for _, h := range healths {
		switch h.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

// Get returns a registered component by name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.lookup[name]; ok {
		return e.component
	}
	return nil
}

// Describe returns descriptions of the components that implement Describable.
func (r *Registry) Describe() []Description {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Description
	for _, e := range r.entries {
		d, ok := e.component.(Describable)
		if !ok {
			continue
		}
		desc := d.Describe()
		if desc.Name == "" {
			desc.Name = e.component.Name()
		}
		out = append(out, desc)
	}
	return out
}

// Names returns component names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.component.Name()
	}
	return names
}

// RegisterAndStart registers c and starts it at once. Use it for components
// that can only start after others are running, such as an HTTP server whose
// routes need live infrastructure. StopAll stops it first.
func (r *Registry) RegisterAndStart(ctx context.Context, c Component) error {
	if err := r.Register(c); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.lookup[c.Name()]
	if err := c.Start(ctx); err != nil {
		r.log.Error("Component start failed", logger.Fields("component", c.Name(), "error", err.Error()))
		return fmt.Errorf("failed to start %s: %w", c.Name(), err)
	}
	e.started = true
	r.log.Debug("Component started", logger.Fields("component", c.Name()))
	return nil
}
