// Package config loads service configuration with Viper.
//
// Sources, lowest precedence first: config.yml, the .env file, then
// SCRIBE_* environment variables (SCRIBE_REDIS_ADDR sets redis.addr).
//
//	var cfg AppConfig
//	if err := config.LoadConfig("scribe", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
package config
