package sse

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kbukum/scribe/component"
)

// Component owns the hub's dispatch goroutine for the lifetime of the app.
type Component struct {
	hub     *Hub
	path    string
	running atomic.Bool
	done    sync.WaitGroup
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component with a fresh Hub served at path.
func NewComponent(path string) *Component {
	return &Component{hub: NewHub(), path: path}
}

// Hub returns the hub.
func (c *Component) Hub() *Hub { return c.hub }

func (c *Component) Name() string { return "sse" }

func (c *Component) Start(context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sse hub already running")
	}
	c.done.Go(c.hub.Run)
	return nil
}

// Stop closes every client stream and waits for the dispatch loop to exit.
func (c *Component) Stop(context.Context) error {
	if !c.running.CompareAndSwap(true, false) {
		return nil
	}
	c.hub.Stop()
	c.done.Wait()
	return nil
}

func (c *Component) Health(context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.running.Load() {
		h.Status, h.Message = component.StatusUnhealthy, "hub not running"
		return h
	}
	h.Message = fmt.Sprintf("%d clients on %s", c.hub.ClientCount(), c.path)
	return h
}

func (c *Component) Describe() component.Description {
	return component.Description{Name: "Event stream", Type: "sse", Details: c.path}
}
