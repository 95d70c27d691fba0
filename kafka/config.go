package kafka

import (
	"fmt"
	"time"

	"github.com/kbukum/scribe/security"
)

// Config holds Kafka connection and producer settings.
type Config struct {
	Enabled bool     `yaml:"enabled" mapstructure:"enabled"`
	Brokers []string `yaml:"brokers" mapstructure:"brokers"`
	// Topic receives transcription analytics events.
	Topic string `yaml:"topic" mapstructure:"topic"`

	// TLS is used when any of its fields is set.
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// SASL
	EnableSASL    bool   `yaml:"enable_sasl" mapstructure:"enable_sasl"`
	SASLMechanism string `yaml:"sasl_mechanism" mapstructure:"sasl_mechanism"` // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	Username      string `yaml:"username" mapstructure:"username"`
	Password      string `yaml:"password" mapstructure:"password"`

	// Producer
	Compression  string        `yaml:"compression" mapstructure:"compression"` // none, gzip, snappy, lz4, zstd
	Retries      int           `yaml:"retries" mapstructure:"retries"`
	BatchSize    int           `yaml:"batch_size" mapstructure:"batch_size"`
	BatchTimeout time.Duration `yaml:"batch_timeout" mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	RequiredAcks int           `yaml:"required_acks" mapstructure:"required_acks"`

	// Connection
	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	IdleTimeout time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MetadataTTL time.Duration `yaml:"metadata_ttl" mapstructure:"metadata_ttl"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	if c.Topic == "" {
		c.Topic = "scribe.transcription-events"
	}
	if c.Compression == "" {
		c.Compression = "snappy"
	}
	if c.Retries <= 0 {
		c.Retries = 3
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = -1 // all replicas
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 30 * time.Second
	}
	if c.MetadataTTL <= 0 {
		c.MetadataTTL = 6 * time.Second
	}
	if c.SASLMechanism == "" && c.EnableSASL {
		c.SASLMechanism = "PLAIN"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required")
	}
	if c.Topic == "" {
		return fmt.Errorf("kafka topic is required")
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	if c.EnableSASL {
		switch c.SASLMechanism {
		case "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
		default:
			return fmt.Errorf("unsupported SASL mechanism: %s", c.SASLMechanism)
		}
		if c.Username == "" {
			return fmt.Errorf("SASL username is required")
		}
	}
	switch c.Compression {
	case "none", "gzip", "snappy", "lz4", "zstd":
	default:
		return fmt.Errorf("unsupported compression: %s", c.Compression)
	}
	if c.Retries <= 0 {
		return fmt.Errorf("retries must be > 0")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0")
	}
	return nil
}
