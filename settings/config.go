package settings

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/scribe/encryption"
	"github.com/kbukum/scribe/transcription"
)

// Backends.
const (
	BackendRedis  = "redis"
	BackendStatic = "static"
)

// Config selects where settings live and how API keys are sealed.
type Config struct {
	Backend       string `yaml:"backend" mapstructure:"backend"`
	EncryptionKey string `yaml:"encryption_key" mapstructure:"encryption_key"`
	Algorithm     string `yaml:"algorithm" mapstructure:"algorithm"`
	// Defaults is the settings document used until the user saves one.
	// Keys follow the JSON names of transcription.Settings.
	Defaults map[string]any `yaml:"defaults" mapstructure:"defaults"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendStatic
	}
	if c.Algorithm == "" {
		c.Algorithm = string(encryption.AlgorithmChaCha20)
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendStatic:
	case BackendRedis:
		if c.EncryptionKey == "" {
			return fmt.Errorf("settings.encryption_key is required for the redis backend")
		}
	default:
		return fmt.Errorf("settings.backend must be %q or %q (got: %q)", BackendRedis, BackendStatic, c.Backend)
	}
	switch encryption.Algorithm(c.Algorithm) {
	case encryption.AlgorithmChaCha20, encryption.AlgorithmAESGCM:
	default:
		return fmt.Errorf("settings.algorithm %q is not supported", c.Algorithm)
	}
	return nil
}

// DefaultSettings decodes Defaults into a Settings value.
func (c *Config) DefaultSettings() (transcription.Settings, error) {
	var s transcription.Settings
	if len(c.Defaults) == 0 {
		return s, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &s,
	})
	if err != nil {
		return s, err
	}
	if err := dec.Decode(c.Defaults); err != nil {
		return s, fmt.Errorf("settings.defaults: %w", err)
	}
	return s, nil
}

// NewEncryptor builds the sealer for stored API keys.
func (c *Config) NewEncryptor() (encryption.Encryptor, error) {
	return encryption.New(c.EncryptionKey, encryption.WithAlgorithm(encryption.Algorithm(c.Algorithm)))
}
