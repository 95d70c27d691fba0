package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/scribe/component"
	"github.com/kbukum/scribe/logger"
)

// healthKey is checked by Health; it need not exist.
const healthKey = ".health"

// Component wraps Storage for lifecycle management.
type Component struct {
	storage Storage
	cfg     Config
	log     *logger.Logger
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a storage component.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("storage")}
}

// Storage returns the backend, or nil if not started.
func (c *Component) Storage() Storage {
	return c.storage
}

// Bytes returns a ByteClient enforcing the configured size limit.
func (c *Component) Bytes() *ByteClient {
	return NewByteClient(c.storage, c.cfg.MaxFileSize)
}

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start initializes the backend.
func (c *Component) Start(_ context.Context) error {
	s, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	return nil
}

// Stop releases the backend.
func (c *Component) Stop(_ context.Context) error {
	c.storage = nil
	return nil
}

// Health checks the backend with an existence check.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.storage == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "storage not initialized"}
	}
	if _, err := c.storage.Exists(ctx, healthKey); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: fmt.Sprintf("health check failed: %v", err)}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	details := "provider=" + c.cfg.Provider
	switch c.cfg.Provider {
	case ProviderS3:
		details += " bucket=" + c.cfg.Bucket
	case ProviderLocal:
		details += " path=" + c.cfg.BasePath
	}
	return component.Description{Name: "Storage", Type: "storage", Details: details}
}
