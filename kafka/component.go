package kafka

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kbukum/scribe/component"
	"github.com/kbukum/scribe/logger"
)

// Component owns the producer and implements component.Component.
type Component struct {
	cfg      Config
	log      *logger.Logger
	producer *Producer
	mu       sync.Mutex
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a Kafka component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("kafka")}
}

// Producer returns the producer, or nil before Start.
func (c *Component) Producer() *Producer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.producer
}

// Topic is the analytics topic.
func (c *Component) Topic() string { return c.cfg.Topic }

// Name returns the component name.
func (c *Component) Name() string { return "kafka" }

// Start creates the producer. The writer connects on first publish.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.producer != nil {
		return nil
	}
	p, err := NewProducer(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("kafka start: %w", err)
	}
	c.producer = p
	c.log.Info("Kafka component started")
	return nil
}

// Stop flushes and closes the producer.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.producer == nil {
		return nil
	}
	c.log.Info("Kafka component stopping")
	err := c.producer.Close()
	c.producer = nil
	return err
}

// Health dials the first broker and asks for metadata.
func (c *Component) Health(ctx context.Context) component.Health {
	unhealthy := func(msg string) component.Health {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: msg}
	}
	if c.Producer() == nil {
		return unhealthy("kafka not started")
	}

	dialer, err := newDialer(&c.cfg)
	if err != nil {
		return unhealthy(fmt.Sprintf("dialer: %v", err))
	}
	conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Brokers[0])
	if err != nil {
		return unhealthy(fmt.Sprintf("broker unreachable: %v", err))
	}
	defer conn.Close()

	if _, err := conn.Brokers(); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusDegraded,
			Message: fmt.Sprintf("broker metadata: %v", err),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Kafka",
		Type:    "kafka",
		Details: fmt.Sprintf("brokers=%s topic=%s", strings.Join(c.cfg.Brokers, ","), c.cfg.Topic),
	}
}
