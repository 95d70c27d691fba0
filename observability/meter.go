package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/scribe/logger"
)

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// Shut the returned provider down on exit.
func InitMeter(ctx context.Context, cfg Config, svc ServiceInfo) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(svc)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))
	return mp, nil
}

// Meter returns the service meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the service's metric instruments.
type Metrics struct {
	operationTotal        metric.Int64Counter
	operationDuration     metric.Float64Histogram
	errorTotal            metric.Int64Counter
	transcriptionTotal    metric.Int64Counter
	transcriptionDuration metric.Float64Histogram
	transcriptionActive   metric.Int64UpDownCounter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.operationTotal, err = meter.Int64Counter("operation.total",
		metric.WithDescription("Total number of provider operations")); err != nil {
		return nil, fmt.Errorf("creating operation.total counter: %w", err)
	}
	if m.operationDuration, err = meter.Float64Histogram("operation.duration",
		metric.WithDescription("Duration of provider operations"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating operation.duration histogram: %w", err)
	}
	if m.errorTotal, err = meter.Int64Counter("error.total",
		metric.WithDescription("Total errors by type and component")); err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}
	if m.transcriptionTotal, err = meter.Int64Counter("transcription.total",
		metric.WithDescription("Finished transcriptions by provider and outcome")); err != nil {
		return nil, fmt.Errorf("creating transcription.total counter: %w", err)
	}
	if m.transcriptionDuration, err = meter.Float64Histogram("transcription.duration",
		metric.WithDescription("Wall-clock duration of adapter calls"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating transcription.duration histogram: %w", err)
	}
	if m.transcriptionActive, err = meter.Int64UpDownCounter("transcription.active",
		metric.WithDescription("Adapter calls currently in flight")); err != nil {
		return nil, fmt.Errorf("creating transcription.active counter: %w", err)
	}
	return m, nil
}

// RecordOperation records one provider operation.
func (m *Metrics) RecordOperation(ctx context.Context, component, operation, status string, d time.Duration) {
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.operationDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("operation", operation),
	))
}

// RecordError counts an error by type and component.
func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}

// TranscriptionStarted marks an adapter call as in flight.
func (m *Metrics) TranscriptionStarted(ctx context.Context, provider string) {
	m.transcriptionActive.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}

// TranscriptionFinished records a finished adapter call. outcome is
// "completed" or "failed".
func (m *Metrics) TranscriptionFinished(ctx context.Context, provider, outcome string, d time.Duration) {
	p := attribute.String("provider", provider)
	m.transcriptionActive.Add(ctx, -1, metric.WithAttributes(p))
	m.transcriptionTotal.Add(ctx, 1, metric.WithAttributes(p, attribute.String("outcome", outcome)))
	m.transcriptionDuration.Record(ctx, d.Seconds(), metric.WithAttributes(p))
}
