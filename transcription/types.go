package transcription

import (
	"time"

	"github.com/kbukum/scribe/provider"
)

// ProviderID identifies a registered transcription backend.
type ProviderID string

// Built-in providers.
const (
	ProviderGroq       ProviderID = "groq"
	ProviderOpenAI     ProviderID = "openai"
	ProviderWhisper    ProviderID = "whisper"
	ProviderWhisperCpp ProviderID = "whispercpp"
)

// Recording is one captured audio artifact and its transcription state.
type Recording struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	// Audio is the raw payload. Empty means the recording is not finalized yet.
	Audio []byte `json:"-"`
	// AudioKey locates the payload in blob storage.
	AudioKey        string    `json:"audio_key,omitempty"`
	Status          Status    `json:"transcription_status"`
	TranscribedText string    `json:"transcribed_text,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasAudio reports whether the recording carries a payload.
func (r Recording) HasAudio() bool {
	return len(r.Audio) > 0
}

// ProviderConfig is the per-call configuration assembled for one adapter.
type ProviderConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the provider's default endpoint when set.
	BaseURL     string
	Language    string
	Prompt      string
	Temperature float64
}

// Request is the uniform adapter input.
type Request struct {
	RecordingID string
	Audio       []byte
	Config      ProviderConfig
}

// Adapter is the single capability every backend implements: audio in, text out.
// Errors should be *Failure values; anything else is classified by FailureFromError.
type Adapter = provider.RequestResponse[Request, string]

// AdapterMiddleware wraps adapters with cross-cutting behavior.
type AdapterMiddleware = provider.Middleware[Request, string]

// BatchSuccess pairs a recording with its transcribed text.
type BatchSuccess struct {
	Recording Recording `json:"recording"`
	Text      string    `json:"text"`
}

// BatchFailure pairs a recording with the failure it produced.
type BatchFailure struct {
	Recording Recording `json:"recording"`
	Failure   *Failure  `json:"failure"`
}

// BatchOutcome partitions batch results; both slices keep input order.
type BatchOutcome struct {
	Succeeded []BatchSuccess `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}
