package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/scribe/kafka"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/sse"
	"github.com/kbukum/scribe/transcription"
)

// LogSink writes events to the structured log.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log.WithComponent("analytics")}
}

func (s *LogSink) Name() string                       { return "log" }
func (s *LogSink) IsAvailable(_ context.Context) bool { return true }

func (s *LogSink) Send(ctx context.Context, e transcription.Event) error {
	l := s.log.WithContext(ctx)
	fields := logger.Fields(
		logger.FieldProvider, string(e.Provider),
		logger.FieldRecordingID, e.RecordingID,
		"batch", e.Batch,
	)
	switch e.Type {
	case transcription.EventRequested:
		l.Debug("transcription requested", fields)
	case transcription.EventCompleted:
		fields[logger.FieldDuration] = e.Duration.Milliseconds()
		l.Info("transcription completed", fields)
	case transcription.EventFailed:
		fields[logger.FieldDuration] = e.Duration.Milliseconds()
		fields["error_title"] = e.ErrorTitle
		fields["error_description"] = e.ErrorDescription
		l.Warn("transcription failed", fields)
	}
	return nil
}

// MetricsSink records events as OpenTelemetry metrics.
type MetricsSink struct {
	metrics *observability.Metrics
}

// NewMetricsSink creates a MetricsSink.
func NewMetricsSink(m *observability.Metrics) *MetricsSink {
	return &MetricsSink{metrics: m}
}

func (s *MetricsSink) Name() string                       { return "metrics" }
func (s *MetricsSink) IsAvailable(_ context.Context) bool { return s.metrics != nil }

func (s *MetricsSink) Send(ctx context.Context, e transcription.Event) error {
	p := string(e.Provider)
	switch e.Type {
	case transcription.EventRequested:
		s.metrics.TranscriptionStarted(ctx, p)
	case transcription.EventCompleted:
		s.metrics.TranscriptionFinished(ctx, p, "completed", e.Duration)
	case transcription.EventFailed:
		s.metrics.TranscriptionFinished(ctx, p, "failed", e.Duration)
		s.metrics.RecordError(ctx, e.ErrorTitle, p)
	}
	return nil
}

// Publisher writes event envelopes to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event kafka.Event) error
}

// KafkaSink publishes events to Kafka keyed by recording id.
type KafkaSink struct {
	pub   Publisher
	topic string
}

// NewKafkaSink creates a KafkaSink.
func NewKafkaSink(pub Publisher, topic string) *KafkaSink {
	return &KafkaSink{pub: pub, topic: topic}
}

func (s *KafkaSink) Name() string                       { return "kafka" }
func (s *KafkaSink) IsAvailable(_ context.Context) bool { return s.pub != nil }

func (s *KafkaSink) Send(ctx context.Context, e transcription.Event) error {
	env, err := kafka.NewEvent(string(e.Type), e.RecordingID, e)
	if err != nil {
		return err
	}
	env.Timestamp = e.Timestamp
	return s.pub.Publish(ctx, s.topic, env)
}

// StreamSink pushes events to connected UI clients.
type StreamSink struct {
	b sse.Broadcaster
}

// NewStreamSink creates a StreamSink.
func NewStreamSink(b sse.Broadcaster) *StreamSink {
	return &StreamSink{b: b}
}

func (s *StreamSink) Name() string                       { return "stream" }
func (s *StreamSink) IsAvailable(_ context.Context) bool { return s.b != nil }

func (s *StreamSink) Send(_ context.Context, e transcription.Event) error {
	return s.b.Publish(sse.TopicTranscription, e)
}

// Multi sends each event to every available sink. All sinks are tried;
// their errors are joined.
type Multi struct {
	sinks []transcription.EventSink
}

// NewMulti creates a Multi over sinks. Nil entries are skipped.
func NewMulti(sinks ...transcription.EventSink) *Multi {
	m := &Multi{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *Multi) Name() string { return "multi" }

func (m *Multi) IsAvailable(ctx context.Context) bool {
	for _, s := range m.sinks {
		if s.IsAvailable(ctx) {
			return true
		}
	}
	return false
}

func (m *Multi) Send(ctx context.Context, e transcription.Event) error {
	var errs []error
	for _, s := range m.sinks {
		if !s.IsAvailable(ctx) {
			continue
		}
		if err := s.Send(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

var (
	_ transcription.EventSink = (*LogSink)(nil)
	_ transcription.EventSink = (*MetricsSink)(nil)
	_ transcription.EventSink = (*KafkaSink)(nil)
	_ transcription.EventSink = (*StreamSink)(nil)
	_ transcription.EventSink = (*Multi)(nil)
)
