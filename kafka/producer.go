package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/resilience"
)

// messageWriter is the part of kafkago.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer publishes events with retries on transient failures.
type Producer struct {
	writer messageWriter
	cfg    Config
	log    *logger.Logger
	mu     sync.RWMutex
	closed bool
}

// NewProducer creates a producer backed by a kafka-go Writer.
func NewProducer(cfg Config, log *logger.Logger) (*Producer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka producer config: %w", err)
	}
	transport, err := newTransport(&cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer transport: %w", err)
	}

	log = log.WithComponent("kafka.producer")
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Transport:    transport,
		Balancer:     &kafkago.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafkago.RequiredAcks(cfg.RequiredAcks),
		Compression:  compression(cfg.Compression),
		WriteTimeout: cfg.WriteTimeout,
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error("writer: "+fmt.Sprintf(msg, args...))
		}),
	}
	log.Info("Kafka producer initialized", logger.Fields(
		"brokers", cfg.Brokers,
		"compression", cfg.Compression,
		"batch_size", cfg.BatchSize,
	))
	return newProducer(w, cfg, log), nil
}

func newProducer(w messageWriter, cfg Config, log *logger.Logger) *Producer {
	return &Producer{writer: w, cfg: cfg, log: log}
}

// Publish writes event to topic keyed by its subject.
func (p *Producer) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafkago.Message{
		Topic: topic,
		Key:   []byte(event.key()),
		Value: data,
		Time:  event.Timestamp,
		Headers: []kafkago.Header{
			{Key: "event-id", Value: []byte(event.ID)},
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if err := p.write(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *Producer) write(ctx context.Context, msgs ...kafkago.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("producer is closed")
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = p.cfg.Retries
	retry.RetryIf = IsRetryableError
	retry.OnRetry = func(attempt int, err error, _ time.Duration) {
		p.log.Warn("kafka write failed, retrying", logger.Fields("attempt", attempt, "error", err.Error()))
	}
	return resilience.RetryFunc(ctx, retry, func() error {
		return p.writer.WriteMessages(ctx, msgs...)
	})
}

// Close flushes and closes the writer. It is safe to call twice.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.log.Info("Kafka producer closing")
	return p.writer.Close()
}
