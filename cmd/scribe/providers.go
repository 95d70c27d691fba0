package main

import (
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/provider"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/transcription/groq"
	"github.com/kbukum/scribe/transcription/openai"
	"github.com/kbukum/scribe/transcription/whisper"
	"github.com/kbukum/scribe/transcription/whispercpp"
)

// factories returns the built-in adapter factories by provider id.
func factories() *provider.Registry[transcription.Adapter] {
	r := transcription.NewFactoryRegistry()
	r.RegisterFactory(string(transcription.ProviderGroq), groq.Factory())
	r.RegisterFactory(string(transcription.ProviderOpenAI), openai.Factory())
	r.RegisterFactory(string(transcription.ProviderWhisper), whisper.Factory())
	r.RegisterFactory(string(transcription.ProviderWhisperCpp), whispercpp.Factory())
	return r
}

// buildRegistry creates an adapter for every configured provider, wrapped
// with tracing, metrics and logging.
func buildRegistry(cfg transcription.Config, metrics *observability.Metrics, log *logger.Logger) (*transcription.Registry, error) {
	reg := transcription.NewRegistry(transcription.WithMiddleware(
		provider.WithTracing[transcription.Request, string](serviceName),
		provider.WithMetrics[transcription.Request, string](metrics),
		provider.WithLogging[transcription.Request, string](log),
	))
	if err := reg.RegisterFactories(factories(), cfg.Providers); err != nil {
		return nil, err
	}
	log.Info("Providers registered", logger.Fields("providers", reg.Providers()))
	return reg, nil
}
