package transcription

// ConfigExtractor picks the settings fields one provider needs.
type ConfigExtractor func(Settings) ProviderConfig

// DefaultExtractors is the lookup table from provider to its settings fields.
// Provider-specific configuration assembly lives here and nowhere else.
var DefaultExtractors = map[ProviderID]ConfigExtractor{
	ProviderGroq: func(s Settings) ProviderConfig {
		c := shared(s)
		c.APIKey, c.Model = s.Groq.APIKey, s.Groq.Model
		return c
	},
	ProviderOpenAI: func(s Settings) ProviderConfig {
		c := shared(s)
		c.APIKey, c.Model, c.BaseURL = s.OpenAI.APIKey, s.OpenAI.Model, s.OpenAI.BaseURL
		return c
	},
	ProviderWhisper: func(s Settings) ProviderConfig {
		c := shared(s)
		c.APIKey, c.Model, c.BaseURL = s.Whisper.APIKey, s.Whisper.Model, s.Whisper.BaseURL
		return c
	},
	ProviderWhisperCpp: func(s Settings) ProviderConfig {
		c := shared(s)
		c.Model = s.WhisperCpp.ModelPath
		return c
	},
}

// shared copies the options every provider receives.
func shared(s Settings) ProviderConfig {
	lang := s.Language
	if lang == LanguageAuto {
		lang = ""
	}
	return ProviderConfig{Language: lang, Prompt: s.Prompt, Temperature: s.Temperature}
}
