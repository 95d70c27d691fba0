package transcription

import "fmt"

// Config is the static transcription section of the service config.
type Config struct {
	// BatchConcurrency caps concurrent adapter calls in a batch. Zero runs
	// every item at once.
	BatchConcurrency int `yaml:"batch_concurrency" mapstructure:"batch_concurrency"`
	// Providers maps a provider id to its factory config. Only listed
	// providers are registered.
	Providers map[string]map[string]any `yaml:"providers" mapstructure:"providers"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Providers == nil {
		c.Providers = map[string]map[string]any{}
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BatchConcurrency < 0 {
		return fmt.Errorf("transcription.batch_concurrency must not be negative (got: %d)", c.BatchConcurrency)
	}
	for id := range c.Providers {
		if _, ok := DefaultExtractors[ProviderID(id)]; !ok {
			return fmt.Errorf("transcription.providers: unknown provider %q", id)
		}
	}
	return nil
}
