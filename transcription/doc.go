// Package transcription is the orchestration engine that turns a recording's
// audio into text.
//
// An Orchestrator resolves the active provider from a Settings snapshot,
// invokes the provider's Adapter, and drives the recording through
// UNTRANSCRIBED → TRANSCRIBING → DONE|FAILED via a StatusStore. Status
// writes are best effort: a failed write becomes a Notifier warning and
// never changes the returned Result.
//
// # Backends
//
//   - transcription/groq: hosted Groq Whisper API
//   - transcription/openai: OpenAI or any OpenAI-compatible endpoint
//   - transcription/whisper: self-hosted OpenAI-compatible server (speaches)
//   - transcription/whispercpp: local whisper.cpp binary
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.Register(transcription.ProviderGroq, groq.NewProvider(groq.Config{}), nil)
//	orch := transcription.NewOrchestrator(reg, settingsStore, recordingStore,
//	    transcription.WithNotifier(notifier))
//	res := orch.TranscribeRecording(ctx, rec)
package transcription
