// Package openai transcribes audio with the OpenAI audio API. The hosted API
// goes through the go-openai SDK; a custom endpoint is called directly over
// httpclient as an OpenAI-compatible server.
package openai

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/scribe/httpclient"
	"github.com/kbukum/scribe/provider"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/transcription/compat"
)

const (
	defaultTimeout = 120 * time.Second

	transcriptionsPath = "audio/transcriptions"
)

// Config is the static configuration of the OpenAI adapter. Settings
// supply the API key, and may override Model and BaseURL per call.
type Config struct {
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	Organization string        `mapstructure:"organization"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// Provider is the OpenAI transcription adapter.
type Provider struct {
	cfg        Config
	httpClient *http.Client
	// direct serves requests with an endpoint override.
	direct compat.Endpoint
	sdk    func(transcription.ProviderConfig) *goopenai.Client
}

var _ transcription.Adapter = (*Provider)(nil)

// NewProvider creates an OpenAI adapter.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Model == "" {
		cfg.Model = goopenai.Whisper1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	client, err := httpclient.New(httpclient.Config{Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}
	p := &Provider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		direct: compat.Endpoint{
			Client:       client,
			Provider:     transcription.ProviderOpenAI,
			Path:         transcriptionsPath,
			DefaultModel: cfg.Model,
			RequireKey:   true,
		},
	}
	p.sdk = p.client
	return p, nil
}

// Factory builds OpenAI adapters from a config section.
func Factory() provider.Factory[transcription.Adapter] {
	return func(raw map[string]any) (transcription.Adapter, error) {
		var cfg Config
		if err := transcription.DecodeConfig(raw, &cfg); err != nil {
			return nil, err
		}
		return NewProvider(cfg)
	}
}

func (p *Provider) Name() string { return string(transcription.ProviderOpenAI) }

// IsAvailable reports true; credentials are checked per call.
func (p *Provider) IsAvailable(context.Context) bool { return true }

// Execute transcribes req.Audio. A base URL from settings or config sends
// the call to that endpoint without the SDK.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (string, error) {
	cfg := req.Config
	if strings.TrimSpace(cfg.APIKey) == "" {
		return "", transcription.ProviderFailure(transcription.ProviderOpenAI, transcription.ProviderAuthentication, nil)
	}
	if base := firstNonEmpty(cfg.BaseURL, p.cfg.BaseURL); base != "" {
		req.Config.BaseURL = base
		return p.direct.Transcribe(ctx, req)
	}

	resp, err := p.sdk(cfg).CreateTranscription(ctx, goopenai.AudioRequest{
		Model:       firstNonEmpty(cfg.Model, p.cfg.Model),
		FilePath:    transcription.AudioFileName(req.Audio),
		Reader:      bytes.NewReader(req.Audio),
		Prompt:      cfg.Prompt,
		Temperature: float32(cfg.Temperature),
		Language:    cfg.Language,
		Format:      goopenai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", transcription.ProviderFailure(transcription.ProviderOpenAI, classify(err), err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (p *Provider) client(cfg transcription.ProviderConfig) *goopenai.Client {
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	clientCfg.OrgID = p.cfg.Organization
	clientCfg.HTTPClient = p.httpClient
	return goopenai.NewClientWithConfig(clientCfg)
}

// classify maps SDK errors onto provider failure kinds.
func classify(err error) transcription.ProviderKind {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return transcription.StatusKind(apiErr.HTTPStatusCode)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return transcription.StatusKind(reqErr.HTTPStatusCode)
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return transcription.ProviderNetwork
	}
	return transcription.ProviderUnknown
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
