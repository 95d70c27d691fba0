package transcription

import (
	"context"
	"time"

	"github.com/kbukum/scribe/provider"
)

// EventType is the lifecycle stage of one adapter invocation.
type EventType string

const (
	EventRequested EventType = "transcription_requested"
	EventCompleted EventType = "transcription_completed"
	EventFailed    EventType = "transcription_failed"
)

// Event is an analytics record for one adapter invocation.
type Event struct {
	Type             EventType     `json:"type"`
	Provider         ProviderID    `json:"provider"`
	RecordingID      string        `json:"recording_id,omitempty"`
	Batch            bool          `json:"batch,omitempty"`
	Duration         time.Duration `json:"duration,omitempty"`
	ErrorTitle       string        `json:"error_title,omitempty"`
	ErrorDescription string        `json:"error_description,omitempty"`
	Timestamp        time.Time     `json:"timestamp"`
}

// EventSink receives lifecycle events. Send errors are logged and dropped.
type EventSink = provider.Sink[Event]

// Notifier surfaces non-fatal warnings to the user. It must not block for long
// and has no error return.
type Notifier interface {
	Warn(ctx context.Context, title, description, detail string)
}

// StatusStore persists recording status. Update is idempotent and receives
// the full recording snapshot.
type StatusStore interface {
	Update(ctx context.Context, r Recording) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, title, description, detail string)

func (f NotifierFunc) Warn(ctx context.Context, title, description, detail string) {
	f(ctx, title, description, detail)
}

type nopNotifier struct{}

func (nopNotifier) Warn(context.Context, string, string, string) {}
