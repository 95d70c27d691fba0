package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/kbukum/scribe/kafka"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/transcription"
)

func failed() transcription.Event {
	return transcription.Event{
		Type:             transcription.EventFailed,
		Provider:         transcription.ProviderGroq,
		RecordingID:      "rec-1",
		Duration:         1500 * time.Millisecond,
		ErrorTitle:       "Authentication Error",
		ErrorDescription: "invalid key",
		Timestamp:        time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "test", &buf)
	sink := NewLogSink(log)

	if err := sink.Send(context.Background(), failed()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line %q: %v", buf.String(), err)
	}
	if line["level"] != "warn" || line["provider"] != "groq" || line["duration_ms"] != float64(1500) {
		t.Errorf("log line = %v", line)
	}
}

func TestMetricsSink(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())
	m, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	sink := NewMetricsSink(m)
	ctx := context.Background()

	_ = sink.Send(ctx, transcription.Event{Type: transcription.EventRequested, Provider: transcription.ProviderGroq})
	_ = sink.Send(ctx, failed())

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			names[metric.Name] = true
		}
	}
	for _, want := range []string{"transcription.total", "transcription.active", "transcription.duration", "error.total"} {
		if !names[want] {
			t.Errorf("metric %s not recorded", want)
		}
	}
}

type capturePublisher struct {
	topic  string
	events []kafka.Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, topic string, e kafka.Event) error {
	p.topic = topic
	p.events = append(p.events, e)
	return p.err
}

func TestKafkaSink(t *testing.T) {
	pub := &capturePublisher{}
	sink := NewKafkaSink(pub, "scribe.events")
	if err := sink.Send(context.Background(), failed()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if pub.topic != "scribe.events" || len(pub.events) != 1 {
		t.Fatalf("published %v to %q", pub.events, pub.topic)
	}
	env := pub.events[0]
	if env.Type != "transcription_failed" || env.Subject != "rec-1" || !env.Timestamp.Equal(failed().Timestamp) {
		t.Errorf("envelope = %+v", env)
	}
	var got transcription.Event
	if err := json.Unmarshal(env.Data, &got); err != nil || got.ErrorTitle != "Authentication Error" {
		t.Errorf("data = %s (%v)", env.Data, err)
	}
}

type captureBroadcaster struct {
	topics []string
}

func (b *captureBroadcaster) Publish(topic string, _ any) error {
	b.topics = append(b.topics, topic)
	return nil
}

func TestStreamSink(t *testing.T) {
	b := &captureBroadcaster{}
	if err := NewStreamSink(b).Send(context.Background(), failed()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(b.topics) != 1 || b.topics[0] != "transcriptions" {
		t.Errorf("topics = %v", b.topics)
	}
}

func TestMulti(t *testing.T) {
	ok := &capturePublisher{}
	bad := &capturePublisher{err: errors.New("broker down")}
	m := NewMulti(
		NewKafkaSink(bad, "a"),
		nil,
		NewKafkaSink(nil, "skipped"),
		NewKafkaSink(ok, "b"),
	)

	if !m.IsAvailable(context.Background()) {
		t.Fatal("multi should be available")
	}
	err := m.Send(context.Background(), failed())
	if err == nil || !strings.Contains(err.Error(), "broker down") {
		t.Errorf("err = %v", err)
	}
	if len(ok.events) != 1 {
		t.Error("a failing sink must not stop the others")
	}

	if NewMulti().IsAvailable(context.Background()) {
		t.Error("empty multi should be unavailable")
	}
}
