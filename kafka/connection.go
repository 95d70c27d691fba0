package kafka

import (
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// newTransport builds the writer transport with optional TLS and SASL.
func newTransport(cfg *Config) (*kafka.Transport, error) {
	t := &kafka.Transport{
		DialTimeout: cfg.DialTimeout,
		IdleTimeout: cfg.IdleTimeout,
		MetadataTTL: cfg.MetadataTTL,
	}
	var err error
	if t.TLS, err = cfg.TLS.Build(); err != nil {
		return nil, fmt.Errorf("TLS config: %w", err)
	}
	if cfg.EnableSASL {
		if t.SASL, err = saslMechanism(cfg); err != nil {
			return nil, fmt.Errorf("SASL config: %w", err)
		}
	}
	return t, nil
}

// newDialer builds the dialer used by health checks.
func newDialer(cfg *Config) (*kafka.Dialer, error) {
	d := &kafka.Dialer{Timeout: cfg.DialTimeout, DualStack: true}
	var err error
	if d.TLS, err = cfg.TLS.Build(); err != nil {
		return nil, fmt.Errorf("TLS config: %w", err)
	}
	if cfg.EnableSASL {
		if d.SASLMechanism, err = saslMechanism(cfg); err != nil {
			return nil, fmt.Errorf("SASL config: %w", err)
		}
	}
	return d, nil
}

func saslMechanism(cfg *Config) (sasl.Mechanism, error) {
	switch cfg.SASLMechanism {
	case "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
	}
}

func compression(name string) kafka.Compression {
	switch name {
	case "gzip":
		return kafka.Gzip
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	case "none":
		return 0
	default:
		return kafka.Snappy
	}
}
