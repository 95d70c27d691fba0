// Package groq transcribes audio with Groq's hosted Whisper models.
package groq

import (
	"context"
	"time"

	"github.com/kbukum/scribe/httpclient"
	"github.com/kbukum/scribe/provider"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/transcription/compat"
)

const (
	defaultBaseURL = "https://api.groq.com"
	defaultModel   = "whisper-large-v3"
	defaultTimeout = 120 * time.Second

	transcriptionsPath = "/openai/v1/audio/transcriptions"
)

// Config is the static configuration of the Groq adapter. The API key and
// model normally come from settings on each call.
type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
	// CircuitBreaker enables fail-fast after repeated outages.
	CircuitBreaker bool `mapstructure:"circuit_breaker"`
}

// Provider is the Groq transcription adapter.
type Provider struct {
	endpoint compat.Endpoint
}

var _ transcription.Adapter = (*Provider)(nil)

// NewProvider creates a Groq adapter.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	clientCfg := httpclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}
	if cfg.CircuitBreaker {
		clientCfg.CircuitBreaker = httpclient.DefaultCircuitBreakerConfig(string(transcription.ProviderGroq))
	}
	client, err := httpclient.New(clientCfg)
	if err != nil {
		return nil, err
	}
	return &Provider{endpoint: compat.Endpoint{
		Client:       client,
		Provider:     transcription.ProviderGroq,
		Path:         transcriptionsPath,
		DefaultModel: cfg.Model,
		RequireKey:   true,
	}}, nil
}

// Factory builds Groq adapters from a config section.
func Factory() provider.Factory[transcription.Adapter] {
	return func(raw map[string]any) (transcription.Adapter, error) {
		var cfg Config
		if err := transcription.DecodeConfig(raw, &cfg); err != nil {
			return nil, err
		}
		return NewProvider(cfg)
	}
}

func (p *Provider) Name() string { return string(transcription.ProviderGroq) }

// IsAvailable reports true; credentials are checked per call.
func (p *Provider) IsAvailable(context.Context) bool { return true }

// Execute transcribes req.Audio.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (string, error) {
	return p.endpoint.Transcribe(ctx, req)
}
