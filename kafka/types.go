package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope written to Kafka.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Subject   string          `json:"subject,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewEvent wraps data in an envelope with a fresh id.
func NewEvent(eventType, subject string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("marshal event data: %w", err)
	}
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "scribe",
		Subject:   subject,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// key partitions by subject so events for one recording stay ordered.
func (e Event) key() string {
	if e.Subject != "" {
		return e.Subject
	}
	return e.ID
}
