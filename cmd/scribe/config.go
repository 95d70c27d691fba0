package main

import (
	"fmt"

	"github.com/kbukum/scribe/config"
	"github.com/kbukum/scribe/database"
	"github.com/kbukum/scribe/kafka"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/redis"
	"github.com/kbukum/scribe/server"
	"github.com/kbukum/scribe/settings"
	"github.com/kbukum/scribe/storage"
	"github.com/kbukum/scribe/transcription"
)

// AppConfig is the scribe service configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Database      database.Config      `yaml:"database" mapstructure:"database"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Kafka         kafka.Config         `yaml:"kafka" mapstructure:"kafka"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Settings      settings.Config      `yaml:"settings" mapstructure:"settings"`
	Transcription transcription.Config `yaml:"transcription" mapstructure:"transcription"`
}

// ApplyDefaults fills zero values in every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Kafka.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Settings.ApplyDefaults()
	c.Transcription.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if !c.Database.Enabled {
		return fmt.Errorf("database.enabled must be true: recordings are stored there")
	}
	if c.Settings.Backend == settings.BackendRedis && !c.Redis.Enabled {
		return fmt.Errorf("settings.backend %q requires redis.enabled", settings.BackendRedis)
	}
	sections := []struct {
		name     string
		validate func() error
	}{
		{"server", c.Server.Validate},
		{"database", c.Database.Validate},
		{"redis", c.Redis.Validate},
		{"storage", c.Storage.Validate},
		{"kafka", c.Kafka.Validate},
		{"observability", c.Observability.Validate},
		{"settings", c.Settings.Validate},
		{"transcription", c.Transcription.Validate},
	}
	for _, s := range sections {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}
