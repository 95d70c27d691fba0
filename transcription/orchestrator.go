package transcription

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/resilience"
)

// Orchestrator runs transcriptions against the registry and keeps recording
// status in step with the outcome.
type Orchestrator struct {
	registry *Registry
	settings SettingsSource
	store    StatusStore
	sink     EventSink
	notifier Notifier
	log      *logger.Logger
	gate     *resilience.Bulkhead

	mu       sync.Mutex
	inFlight map[string]int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithEventSink sets the analytics sink.
func WithEventSink(sink EventSink) Option {
	return func(o *Orchestrator) { o.sink = sink }
}

// WithNotifier sets where best-effort write failures are reported.
func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

// WithLogger sets the orchestrator logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithBatchConcurrency caps concurrent adapter calls in TranscribeRecordings.
// Zero or less leaves the fan-out unbounded.
func WithBatchConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n <= 0 {
			o.gate = nil
			return
		}
		o.gate = resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          "transcription-batch",
			MaxConcurrent: n,
			MaxWait:       resilience.WaitForever,
		})
	}
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(registry *Registry, settings SettingsSource, store StatusStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		settings: settings,
		store:    store,
		notifier: nopNotifier{},
		log:      logger.Get("orchestrator"),
		inFlight: make(map[string]int),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TranscribeRecording transcribes one recording and drives its status.
// The returned Result reflects the transcription only; status write failures
// are reported through the Notifier and never change it.
func (o *Orchestrator) TranscribeRecording(ctx context.Context, rec Recording) Result {
	if !rec.HasAudio() {
		return Fail(MissingBlob())
	}

	settings, err := o.settings.Snapshot(ctx)
	if err != nil {
		o.log.Error("settings snapshot failed", map[string]interface{}{
			logger.FieldRecordingID: rec.ID,
			logger.FieldError:       err.Error(),
		})
		return Fail(SettingsUnavailable(err))
	}

	o.track(rec.ID, 1)
	defer o.track(rec.ID, -1)

	o.write(ctx, MarkTranscribing(rec))

	adapter, ok := o.registry.Resolve(settings.Provider)
	if !ok {
		failure := NoProviderSelected()
		o.write(ctx, MarkFailed(rec))
		return Fail(failure)
	}

	res := o.invoke(ctx, settings, settings.Provider, adapter, rec, false)
	if !res.OK() {
		o.write(ctx, MarkFailed(rec))
		return res
	}
	o.write(ctx, MarkDone(rec, res.Text))
	return res
}

// InFlight reports whether a single-item transcription for id is running.
// It is observational only and never used for mutual exclusion.
func (o *Orchestrator) InFlight(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight[id] > 0
}

// Registry returns the provider registry.
func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

func (o *Orchestrator) track(id string, delta int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight[id] += delta
	if o.inFlight[id] <= 0 {
		delete(o.inFlight, id)
	}
}

// invoke calls the adapter once, bracketed by requested and terminal events.
func (o *Orchestrator) invoke(ctx context.Context, settings Settings, id ProviderID, adapter Adapter, rec Recording, batch bool) Result {
	req := Request{
		RecordingID: rec.ID,
		Audio:       rec.Audio,
		Config:      o.registry.ExtractConfig(id, settings),
	}

	o.emit(ctx, Event{Type: EventRequested, Provider: id, RecordingID: rec.ID, Batch: batch})

	start := time.Now()
	text, err := execute(ctx, adapter, req)
	elapsed := time.Since(start)

	if err != nil {
		failure := FailureFromError(id, err)
		o.log.Warn("transcription failed", map[string]interface{}{
			logger.FieldProvider:    string(id),
			logger.FieldRecordingID: rec.ID,
			logger.FieldDuration:    elapsed.Milliseconds(),
			logger.FieldError:       failure.Error(),
		})
		o.emit(ctx, Event{
			Type:             EventFailed,
			Provider:         id,
			RecordingID:      rec.ID,
			Batch:            batch,
			Duration:         elapsed,
			ErrorTitle:       failure.Title,
			ErrorDescription: failure.Description,
		})
		return Fail(failure)
	}

	o.log.Info("transcription completed", map[string]interface{}{
		logger.FieldProvider:    string(id),
		logger.FieldRecordingID: rec.ID,
		logger.FieldDuration:    elapsed.Milliseconds(),
	})
	o.emit(ctx, Event{Type: EventCompleted, Provider: id, RecordingID: rec.ID, Batch: batch, Duration: elapsed})
	return Success(text)
}

// execute runs the adapter, turning a panic into an error for this call only.
func execute(ctx context.Context, adapter Adapter, req Request) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("adapter %s panicked: %v", adapter.Name(), r)
		}
	}()
	return adapter.Execute(ctx, req)
}

// write is a best-effort status update. It outlives caller cancellation and
// reports failures through the notifier only.
func (o *Orchestrator) write(ctx context.Context, rec Recording) {
	ctx = context.WithoutCancel(ctx)
	if err := o.store.Update(ctx, rec); err != nil {
		f := StorageWriteFailure(rec.Status, err)
		o.log.Warn("status update failed", map[string]interface{}{
			logger.FieldRecordingID: rec.ID,
			logger.FieldStatus:      string(rec.Status),
			logger.FieldError:       err.Error(),
		})
		o.notifier.Warn(ctx, f.Title, f.Description, err.Error())
	}
}

// emit sends an event; sink errors are dropped.
func (o *Orchestrator) emit(ctx context.Context, e Event) {
	if o.sink == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if err := o.sink.Send(context.WithoutCancel(ctx), e); err != nil {
		o.log.Debug("event sink error", map[string]interface{}{
			"event":           string(e.Type),
			logger.FieldError: err.Error(),
		})
	}
}
