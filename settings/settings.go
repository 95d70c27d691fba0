package settings

import (
	"context"

	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/validation"
)

// Mask replaces API keys in responses. Sending it back in an update keeps
// the stored key.
const Mask = "********"

// Manager reads and replaces the current settings.
type Manager interface {
	transcription.SettingsSource
	Update(ctx context.Context, next transcription.Settings) (transcription.Settings, error)
}

// Redact returns s with every non-empty API key replaced by Mask.
func Redact(s transcription.Settings) transcription.Settings {
	for _, k := range apiKeys(&s) {
		if *k != "" {
			*k = Mask
		}
	}
	return s
}

// apiKeys points at every secret in s.
func apiKeys(s *transcription.Settings) []*string {
	return []*string{&s.Groq.APIKey, &s.OpenAI.APIKey, &s.Whisper.APIKey}
}

// merge validates next and restores masked keys from current.
func merge(current, next transcription.Settings) (transcription.Settings, error) {
	if err := validation.Validate(next); err != nil {
		return transcription.Settings{}, err
	}
	cur := apiKeys(&current)
	for i, k := range apiKeys(&next) {
		if *k == Mask {
			*k = *cur[i]
		}
	}
	return next, nil
}
