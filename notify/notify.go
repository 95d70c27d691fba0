package notify

import (
	"context"
	"time"

	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/sse"
	"github.com/kbukum/scribe/transcription"
)

// Notification is a toast shown in the UI.
type Notification struct {
	Level       string    `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Detail      string    `json:"detail,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Log reports warnings to the structured log only.
type Log struct {
	log *logger.Logger
}

// NewLog creates a Log notifier.
func NewLog(log *logger.Logger) *Log {
	return &Log{log: log.WithComponent("notify")}
}

func (n *Log) Warn(ctx context.Context, title, description, detail string) {
	n.log.WithContext(ctx).Warn(title, logger.Fields(
		"description", description,
		"detail", detail,
	))
}

// SSE logs warnings and pushes them to connected UI clients.
type SSE struct {
	*Log
	b sse.Broadcaster
}

// NewSSE creates an SSE notifier.
func NewSSE(b sse.Broadcaster, log *logger.Logger) *SSE {
	return &SSE{Log: NewLog(log), b: b}
}

func (n *SSE) Warn(ctx context.Context, title, description, detail string) {
	n.Log.Warn(ctx, title, description, detail)
	err := n.b.Publish(sse.TopicNotification, Notification{
		Level:       "warning",
		Title:       title,
		Description: description,
		Detail:      detail,
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		n.log.Debug("notification not delivered", logger.Fields(logger.FieldError, err.Error()))
	}
}

var (
	_ transcription.Notifier = (*Log)(nil)
	_ transcription.Notifier = (*SSE)(nil)
)
