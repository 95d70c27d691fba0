// Package whisper transcribes audio with a self-hosted Whisper server that
// exposes the OpenAI-compatible API (speaches, faster-whisper-server).
package whisper

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/scribe/httpclient"
	"github.com/kbukum/scribe/provider"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/transcription/compat"
)

const (
	defaultURL     = "http://localhost:8000"
	defaultModel   = "Systran/faster-whisper-small"
	defaultTimeout = 300 * time.Second

	transcriptionsPath = "/v1/audio/transcriptions"
	healthPath         = "/health"
)

// Config is the static configuration of the Whisper adapter. A base URL set
// in settings takes precedence over URL.
type Config struct {
	URL                string        `mapstructure:"url"`
	Model              string        `mapstructure:"model"`
	Timeout            time.Duration `mapstructure:"timeout"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	CircuitBreaker     bool          `mapstructure:"circuit_breaker"`
}

// Provider is the self-hosted Whisper adapter.
type Provider struct {
	client   *httpclient.Client
	endpoint compat.Endpoint
}

var _ transcription.Adapter = (*Provider)(nil)

// NewProvider creates a Whisper adapter.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	clientCfg := httpclient.Config{
		BaseURL:            cfg.URL,
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
	if cfg.CircuitBreaker {
		clientCfg.CircuitBreaker = httpclient.DefaultCircuitBreakerConfig(string(transcription.ProviderWhisper))
	}
	client, err := httpclient.New(clientCfg)
	if err != nil {
		return nil, err
	}
	return &Provider{
		client: client,
		endpoint: compat.Endpoint{
			Client:       client,
			Provider:     transcription.ProviderWhisper,
			Path:         transcriptionsPath,
			DefaultModel: cfg.Model,
		},
	}, nil
}

// Factory builds Whisper adapters from a config section.
func Factory() provider.Factory[transcription.Adapter] {
	return func(raw map[string]any) (transcription.Adapter, error) {
		var cfg Config
		if err := transcription.DecodeConfig(raw, &cfg); err != nil {
			return nil, err
		}
		return NewProvider(cfg)
	}
}

func (p *Provider) Name() string { return string(transcription.ProviderWhisper) }

// IsAvailable checks the server's health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	resp, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: healthPath})
	return err == nil && resp.IsSuccess()
}

// Execute transcribes req.Audio. An API key is optional and sent as a
// bearer token when present.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (string, error) {
	req.Config.BaseURL = strings.TrimSpace(req.Config.BaseURL)
	return p.endpoint.Transcribe(ctx, req)
}
