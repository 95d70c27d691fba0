package transcription

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()
	reg.Register(ProviderOpenAI, newFakeAdapter("openai"), nil)
	reg.Register(ProviderGroq, newFakeAdapter("groq"), nil)

	tests := []struct {
		id   ProviderID
		want bool
	}{
		{ProviderGroq, true},
		{ProviderOpenAI, true},
		{"", false},
		{ProviderWhisper, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			a, ok := reg.Resolve(tt.id)
			if ok != tt.want || (ok && a.Name() != string(tt.id)) {
				t.Errorf("Resolve(%q) = %v, %v", tt.id, a, ok)
			}
		})
	}

	got := reg.Providers()
	if len(got) != 2 || got[0] != ProviderGroq || got[1] != ProviderOpenAI {
		t.Errorf("Providers() = %v", got)
	}
}

func TestExtractConfig(t *testing.T) {
	s := Settings{
		Language:    LanguageAuto,
		Prompt:      "names: Ada",
		Temperature: 0.4,
		Groq:        HostedSettings{APIKey: "gsk", Model: "turbo"},
		OpenAI:      HostedSettings{APIKey: "sk", Model: "whisper-1", BaseURL: "https://proxy.example"},
		Whisper:     SelfHostedSettings{BaseURL: "http://whisper:9000", Model: "large"},
		WhisperCpp:  LocalSettings{ModelPath: "/models/ggml-base.bin"},
	}
	base := ProviderConfig{Prompt: "names: Ada", Temperature: 0.4}

	reg := NewRegistry()
	for id := range DefaultExtractors {
		reg.Register(id, newFakeAdapter(string(id)), nil)
	}
	custom := ProviderID("custom")
	reg.Register(custom, newFakeAdapter("custom"), func(s Settings) ProviderConfig {
		return ProviderConfig{Model: "fixed", Prompt: s.Prompt}
	})

	with := func(f func(*ProviderConfig)) ProviderConfig {
		c := base
		f(&c)
		return c
	}
	tests := []struct {
		id   ProviderID
		want ProviderConfig
	}{
		{ProviderGroq, with(func(c *ProviderConfig) { c.APIKey, c.Model = "gsk", "turbo" })},
		{ProviderOpenAI, with(func(c *ProviderConfig) { c.APIKey, c.Model, c.BaseURL = "sk", "whisper-1", "https://proxy.example" })},
		{ProviderWhisper, with(func(c *ProviderConfig) { c.Model, c.BaseURL = "large", "http://whisper:9000" })},
		{ProviderWhisperCpp, with(func(c *ProviderConfig) { c.Model = "/models/ggml-base.bin" })},
		{custom, ProviderConfig{Model: "fixed", Prompt: "names: Ada"}},
		{"unregistered", base},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := reg.ExtractConfig(tt.id, s); got != tt.want {
				t.Errorf("ExtractConfig(%q) = %+v, want %+v", tt.id, got, tt.want)
			}
		})
	}
}

func TestExtractConfigExplicitLanguage(t *testing.T) {
	got := DefaultExtractors[ProviderGroq](Settings{Language: "tr"})
	if got.Language != "tr" {
		t.Errorf("language = %q", got.Language)
	}
}

func TestRegistryMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) AdapterMiddleware {
		return func(next Adapter) Adapter {
			return &taggedAdapter{next: next, before: func() { order = append(order, name) }}
		}
	}
	reg := NewRegistry(WithMiddleware(tag("outer"), tag("inner")))
	reg.Register(ProviderGroq, newFakeAdapter("groq"), nil)

	a, _ := reg.Resolve(ProviderGroq)
	if _, err := a.Execute(context.Background(), Request{RecordingID: "r1"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("order = %v", order)
	}
}

type taggedAdapter struct {
	next   Adapter
	before func()
}

func (a *taggedAdapter) Name() string                         { return a.next.Name() }
func (a *taggedAdapter) IsAvailable(ctx context.Context) bool { return a.next.IsAvailable(ctx) }

func (a *taggedAdapter) Execute(ctx context.Context, req Request) (string, error) {
	a.before()
	return a.next.Execute(ctx, req)
}

func TestRegisterFactories(t *testing.T) {
	factories := NewFactoryRegistry()
	factories.RegisterFactory("groq", func(map[string]any) (Adapter, error) {
		return newFakeAdapter("groq"), nil
	})
	factories.RegisterFactory("openai", func(map[string]any) (Adapter, error) {
		return newFakeAdapter("openai"), nil
	})
	factories.RegisterFactory("whisper", func(map[string]any) (Adapter, error) {
		return nil, errors.New("base_url is required")
	})

	reg := NewRegistry()
	err := reg.RegisterFactories(factories, map[string]map[string]any{
		"groq":   {},
		"openai": {"timeout": "30s"},
	})
	if err != nil {
		t.Fatalf("RegisterFactories: %v", err)
	}
	if got := reg.Providers(); len(got) != 2 {
		t.Errorf("providers = %v", got)
	}

	err = NewRegistry().RegisterFactories(factories, map[string]map[string]any{"whisper": {}})
	if err == nil {
		t.Fatal("expected factory error")
	}
}
