package transcription

import "context"

// LanguageAuto lets the provider detect the spoken language.
const LanguageAuto = "auto"

// Settings is an immutable snapshot of the user's transcription settings.
// It holds only value fields so copies never alias.
type Settings struct {
	Provider ProviderID `json:"provider" validate:"omitempty,oneof=groq openai whisper whispercpp"`

	// Shared options applied to every provider.
	Language    string  `json:"language" validate:"omitempty,max=16"`
	Prompt      string  `json:"prompt" validate:"max=2000"`
	Temperature float64 `json:"temperature" validate:"gte=0,lte=1"`

	Groq       HostedSettings     `json:"groq"`
	OpenAI     HostedSettings     `json:"openai"`
	Whisper    SelfHostedSettings `json:"whisper"`
	WhisperCpp LocalSettings      `json:"whispercpp"`
}

// HostedSettings configures a hosted API with credentials.
type HostedSettings struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
	// BaseURL routes requests to a custom OpenAI-compatible endpoint.
	BaseURL string `json:"base_url" validate:"omitempty,url"`
}

// SelfHostedSettings configures a self-hosted OpenAI-compatible server.
type SelfHostedSettings struct {
	BaseURL string `json:"base_url" validate:"omitempty,url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

// LocalSettings configures the offline engine.
type LocalSettings struct {
	ModelPath string `json:"model_path"`
}

// SettingsSource yields a settings snapshot. Orchestrator calls read it
// exactly once per invocation.
type SettingsSource interface {
	Snapshot(ctx context.Context) (Settings, error)
}

// SettingsFunc adapts a function to SettingsSource.
type SettingsFunc func(ctx context.Context) (Settings, error)

func (f SettingsFunc) Snapshot(ctx context.Context) (Settings, error) { return f(ctx) }
