// Command scribe runs the transcription service.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/kbukum/scribe/analytics"
	"github.com/kbukum/scribe/api"
	"github.com/kbukum/scribe/bootstrap"
	"github.com/kbukum/scribe/config"
	"github.com/kbukum/scribe/database"
	"github.com/kbukum/scribe/kafka"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/notify"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/recording"
	"github.com/kbukum/scribe/redis"
	"github.com/kbukum/scribe/server"
	"github.com/kbukum/scribe/settings"
	"github.com/kbukum/scribe/sse"
	"github.com/kbukum/scribe/storage"
	_ "github.com/kbukum/scribe/storage/local"
	_ "github.com/kbukum/scribe/storage/s3"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/version"
)

const (
	serviceName = "scribe"
	eventsPath  = "/api/v1/events"
)

func main() {
	var cfg AppConfig
	if err := config.LoadConfig(serviceName, &cfg); err != nil {
		logger.Error("Loading config failed", logger.Fields(logger.FieldError, err.Error()))
		os.Exit(1)
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		logger.Error("Invalid config", logger.Fields(logger.FieldError, err.Error()))
		os.Exit(1)
	}
	if err := run(app); err != nil {
		app.Logger.Error("scribe exited", logger.Fields(logger.FieldError, err.Error()))
		os.Exit(1)
	}
}

type infra struct {
	db      *database.Component
	blobs   *storage.Component
	redis   *redis.Component
	kafka   *kafka.Component
	events  *sse.Component
	metrics *observability.Metrics
}

func run(app *bootstrap.App[*AppConfig]) error {
	cfg := app.Cfg
	in := &infra{
		db:     database.NewComponent(cfg.Database, logger.Get("database")).WithMigrations(recording.Migrations, recording.MigrationsDir),
		blobs:  storage.NewComponent(cfg.Storage, logger.Get("storage")),
		events: sse.NewComponent(eventsPath),
	}

	if err := app.RegisterComponent(in.db); err != nil {
		return err
	}
	if err := app.RegisterComponent(in.blobs); err != nil {
		return err
	}
	if cfg.Redis.Enabled {
		in.redis = redis.NewComponent(cfg.Redis, logger.Get("redis"))
		if err := app.RegisterComponent(in.redis); err != nil {
			return err
		}
	}
	if cfg.Kafka.Enabled {
		in.kafka = kafka.NewComponent(cfg.Kafka, logger.Get("kafka"))
		if err := app.RegisterComponent(in.kafka); err != nil {
			return err
		}
	}
	if err := app.RegisterComponent(in.events); err != nil {
		return err
	}

	app.OnStart(func(ctx context.Context) error {
		return in.initTelemetry(ctx, app)
	})
	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
		return in.wire(ctx, a)
	})
	return app.Run(context.Background())
}

// initTelemetry installs OTLP exporters when enabled and creates the
// metric instruments on the global meter either way.
func (in *infra) initTelemetry(ctx context.Context, app *bootstrap.App[*AppConfig]) error {
	cfg := app.Cfg
	if cfg.Observability.Enabled {
		svc := observability.ServiceInfo{Name: cfg.Name, Version: cfg.Version, Environment: cfg.Environment}
		tp, err := observability.InitTracer(ctx, cfg.Observability, svc)
		if err != nil {
			return err
		}
		mp, err := observability.InitMeter(ctx, cfg.Observability, svc)
		if err != nil {
			return errors.Join(err, tp.Shutdown(ctx))
		}
		app.OnStop(func(ctx context.Context) error {
			return errors.Join(mp.Shutdown(ctx), tp.Shutdown(ctx))
		})
	}

	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		return err
	}
	in.metrics = metrics
	return nil
}

// wire builds the business layer on the started infrastructure and starts
// the HTTP server.
func (in *infra) wire(ctx context.Context, app *bootstrap.App[*AppConfig]) error {
	cfg := app.Cfg
	log := app.Logger

	store := recording.NewStore(in.db.DB(), in.blobs.Bytes())

	manager, err := in.settingsManager(cfg.Settings)
	if err != nil {
		return err
	}

	registry, err := buildRegistry(cfg.Transcription, in.metrics, logger.Get("provider"))
	if err != nil {
		return err
	}

	hub := in.events.Hub()
	sinks := []transcription.EventSink{
		analytics.NewLogSink(logger.Get("analytics")),
		analytics.NewMetricsSink(in.metrics),
		analytics.NewStreamSink(hub),
	}
	if in.kafka != nil {
		sinks = append(sinks, analytics.NewKafkaSink(in.kafka.Producer(), in.kafka.Topic()))
	}

	orchestrator := transcription.NewOrchestrator(registry, manager, store,
		transcription.WithEventSink(analytics.NewMulti(sinks...)),
		transcription.WithNotifier(notify.NewSSE(hub, logger.Get("notify"))),
		transcription.WithLogger(logger.Get("orchestrator")),
		transcription.WithBatchConcurrency(cfg.Transcription.BatchConcurrency),
	)

	srv := server.New(cfg.Server, log.WithComponent("http"))
	srv.ApplyDefaults(cfg.Name, app.Components.HealthAll)
	api.NewHandler(api.Deps{
		Recordings:   store,
		ListQuery:    recording.ListQuery,
		Orchestrator: orchestrator,
		Settings:     manager,
		Hub:          hub,
		MaxAudioSize: cfg.Storage.MaxFileSize,
	}).Register(srv.GinEngine())

	return app.StartComponent(ctx, server.NewComponent(srv))
}

func (in *infra) settingsManager(cfg settings.Config) (settings.Manager, error) {
	defaults, err := cfg.DefaultSettings()
	if err != nil {
		return nil, err
	}
	if cfg.Backend != settings.BackendRedis {
		return settings.NewStatic(defaults), nil
	}
	sealer, err := cfg.NewEncryptor()
	if err != nil {
		return nil, err
	}
	return settings.NewStore(in.redis.Client(), sealer, defaults), nil
}
