// Package logger provides structured logging on top of zerolog.
//
// Fields are passed as maps so call sites stay independent of zerolog:
//
//	log := logger.Get("orchestrator")
//	log.Info("transcription completed", map[string]interface{}{
//	    logger.FieldProvider: "groq",
//	    logger.FieldDuration: d.Milliseconds(),
//	})
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
package logger
