package storage

import (
	"errors"
	"fmt"
)

// Supported backends.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// Default configuration values.
const (
	DefaultBasePath    = "./data/audio"
	DefaultRegion      = "us-east-1"
	DefaultMaxFileSize = int64(100 * 1024 * 1024)
)

// Config holds storage configuration.
type Config struct {
	// Provider selects the backend: "local" or "s3".
	Provider string `yaml:"provider" mapstructure:"provider"`

	// BasePath is the root directory for local storage.
	BasePath string `yaml:"base_path" mapstructure:"base_path"`

	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	Region    string `yaml:"region" mapstructure:"region"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	// ForcePathStyle is implied when Endpoint is set.
	ForcePathStyle bool `yaml:"force_path_style" mapstructure:"force_path_style"`

	// MaxFileSize is the largest accepted object in bytes.
	MaxFileSize int64 `yaml:"max_file_size" mapstructure:"max_file_size"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
}

// Validate checks the configuration for the selected provider.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			return errors.New("storage: base_path is required for local provider")
		}
	case ProviderS3:
		var errs []error
		if c.Bucket == "" {
			errs = append(errs, errors.New("bucket is required"))
		}
		if c.Region == "" {
			errs = append(errs, errors.New("region is required"))
		}
		if (c.AccessKey == "") != (c.SecretKey == "") {
			errs = append(errs, errors.New("access_key and secret_key must be set together"))
		}
		if len(errs) > 0 {
			return fmt.Errorf("storage: invalid s3 config: %w", errors.Join(errs...))
		}
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	return nil
}
