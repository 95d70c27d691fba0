package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/scribe/component"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/resilience"
)

// Component wraps Client and implements component.Component for lifecycle management.
type Component struct {
	client *Client
	cfg    Config
	log    *logger.Logger
}

// NewComponent creates a Redis component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent("redis"),
	}
}

// Client returns the underlying *Client, or nil if not started.
func (c *Component) Client() *Client {
	return c.client
}

// ensure Component satisfies component.Component
var _ component.Component = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "redis" }

// Start creates the client and waits for the server to answer a ping.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("redis start: %w", err)
	}

	retry := resilience.DefaultRetryConfig()
	retry.InitialBackoff = 500 * time.Millisecond
	retry.RetryIf = func(error) bool { return true }
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		c.log.Warn("Redis ping failed, retrying", logger.Fields("attempt", attempt, "error", err.Error(), "backoff", backoff.String()))
	}
	if err := resilience.RetryFunc(ctx, retry, func() error { return client.Ping(ctx) }); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis start ping: %w", err)
	}

	c.client = client
	c.log.Info("Redis component started")
	return nil
}

// Stop gracefully closes the Redis connection.
func (c *Component) Stop(_ context.Context) error {
	if c.client == nil {
		return nil
	}
	c.log.Info("Redis component stopping")
	return c.client.Close()
}

// slowPing marks the connection degraded. Settings reads sit on the
// transcription path, so a slow server is surfaced before it times out.
const slowPing = 250 * time.Millisecond

// Health pings the server and reports the round trip.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.client == nil {
		h.Status, h.Message = component.StatusUnhealthy, "redis not initialized"
		return h
	}
	start := time.Now()
	if err := c.client.Ping(ctx); err != nil {
		h.Status, h.Message = component.StatusUnhealthy, fmt.Sprintf("ping failed: %v", err)
		return h
	}
	rtt := time.Since(start)
	if rtt > slowPing {
		h.Status = component.StatusDegraded
	}
	h.Message = "ping " + rtt.Round(time.Millisecond).String()
	return h
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("%s db=%d pool=%d", c.cfg.Addr, c.cfg.DB, c.cfg.PoolSize)
	if c.cfg.TLS.IsEnabled() {
		details += " tls"
	}
	return component.Description{Name: "Redis", Type: "redis", Details: details}
}
