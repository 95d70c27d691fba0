package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync"

	"github.com/kbukum/scribe/logger"
)

var errHubStopped = errors.New("sse hub stopped")

// Topics published by the service.
const (
	TopicNotification  = "notifications"
	TopicTranscription = "transcriptions"
)

// Broadcaster publishes payloads to subscribed clients.
type Broadcaster interface {
	Publish(topic string, payload any) error
}

// Frame is one event on the wire.
type Frame struct {
	Event string
	Data  []byte
}

// Client is one connected stream.
type Client struct {
	id     string
	topics []string
	frames chan Frame
}

// NewClient creates a client subscribed to topic patterns. No patterns
// subscribes to everything.
func NewClient(id string, topics ...string) *Client {
	if len(topics) == 0 {
		topics = []string{"*"}
	}
	return &Client{id: id, topics: topics, frames: make(chan Frame, 256)}
}

// ID returns the client id.
func (c *Client) ID() string { return c.id }

// Frames yields events until the client is unregistered.
func (c *Client) Frames() <-chan Frame { return c.frames }

func (c *Client) wants(topic string) bool {
	for _, p := range c.topics {
		if ok, _ := path.Match(p, topic); ok {
			return true
		}
	}
	return false
}

// send drops the frame when the client is not keeping up.
func (c *Client) send(f Frame) bool {
	select {
	case c.frames <- f:
		return true
	default:
		logger.Warn("sse client too slow, dropping event", logger.Fields("client_id", c.id, "event", f.Event))
		return false
	}
}

// Hub fans published events out to connected clients.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Frame
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

var _ Broadcaster = (*Hub)(nil)

// NewHub creates a hub. Call Run in a goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Frame, 256),
		done:       make(chan struct{}),
	}
}

// Run is the hub loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			logger.Debug("sse client registered", logger.Fields("client_id", c.id))
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.frames)
			}
			h.mu.Unlock()
			logger.Debug("sse client unregistered", logger.Fields("client_id", c.id))
		case f := <-h.broadcast:
			h.fanOut(f)
		}
	}
}

// Stop ends Run and closes every client. Safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.frames)
		delete(h.clients, id)
	}
}

// Register adds c. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c and closes its frames.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish encodes payload as JSON and queues it for every client
// subscribed to topic.
func (h *Hub) Publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sse encode %s: %w", topic, err)
	}
	select {
	case <-h.done:
		return errHubStopped
	default:
	}
	select {
	case h.broadcast <- Frame{Event: topic, Data: data}:
		return nil
	case <-h.done:
		return errHubStopped
	}
}

func (h *Hub) fanOut(f Frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.wants(f.Event) {
			c.send(f)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
