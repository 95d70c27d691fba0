// Package settings holds the user's transcription settings.
//
// Store persists one document in redis with API keys sealed by an
// encryption.Encryptor; Static keeps settings in memory. Both satisfy
// transcription.SettingsSource, so the orchestrator reads one snapshot per call.
package settings
