package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/scribe/logger"
)

type broadcast struct {
	topic   string
	payload any
	err     error
}

func (b *broadcast) Publish(topic string, payload any) error {
	b.topic, b.payload = topic, payload
	return b.err
}

func TestSSEWarn(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "test", &buf)
	b := &broadcast{}
	n := NewSSE(b, log)

	n.Warn(context.Background(), "Status Error", "could not save", "disk full")

	if b.topic != "notifications" {
		t.Errorf("topic = %q", b.topic)
	}
	note, ok := b.payload.(Notification)
	if !ok || note.Title != "Status Error" || note.Detail != "disk full" || note.Level != "warning" {
		t.Errorf("payload = %#v", b.payload)
	}
	if !strings.Contains(buf.String(), `"message":"Status Error"`) {
		t.Errorf("warning not logged: %s", buf.String())
	}
}

func TestSSEWarnSwallowsPublishError(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "test", &buf)
	n := NewSSE(&broadcast{err: errors.New("hub stopped")}, log)

	n.Warn(context.Background(), "t", "d", "")
	if !strings.Contains(buf.String(), "notification not delivered") {
		t.Errorf("publish error not logged: %s", buf.String())
	}
}
