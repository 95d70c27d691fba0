package transcription

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kbukum/scribe/logger"
)

// TranscribeRecordings transcribes every recording concurrently without
// touching their status. Per-item failures land in BatchOutcome.Failed,
// including items whose context ended while they waited on the concurrency
// gate. The error return is reserved for a fan-out defect: an item goroutine
// that panicked outside the adapter call.
func (o *Orchestrator) TranscribeRecordings(ctx context.Context, recs []Recording) (BatchOutcome, error) {
	if len(recs) == 0 {
		return BatchOutcome{}, nil
	}

	settings, settingsErr := o.settings.Snapshot(ctx)
	if settingsErr != nil {
		o.log.Error("settings snapshot failed", map[string]interface{}{
			"batch_size":      len(recs),
			logger.FieldError: settingsErr.Error(),
		})
	}

	results := make([]Result, len(recs))
	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		panicErr error
	)
	for i := range recs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errMu.Lock()
					panicErr = errors.Join(panicErr, fmt.Errorf("item %s panicked: %v", recs[i].ID, r))
					errMu.Unlock()
				}
			}()
			results[i] = o.transcribeItem(ctx, settings, settingsErr, recs[i])
		}(i)
	}
	wg.Wait()

	if panicErr != nil {
		return BatchOutcome{}, fmt.Errorf("batch fan-out: %w", panicErr)
	}
	return partition(recs, results), nil
}

// transcribeItem is the single-item flow without status writes. Only the
// adapter call passes through the gate.
func (o *Orchestrator) transcribeItem(ctx context.Context, settings Settings, settingsErr error, rec Recording) Result {
	if !rec.HasAudio() {
		return Fail(MissingBlob())
	}
	if settingsErr != nil {
		return Fail(SettingsUnavailable(settingsErr))
	}
	adapter, ok := o.registry.Resolve(settings.Provider)
	if !ok {
		return Fail(NoProviderSelected())
	}
	if o.gate == nil {
		return o.invoke(ctx, settings, settings.Provider, adapter, rec, true)
	}

	var res Result
	err := o.gate.Execute(ctx, func() error {
		res = o.invoke(ctx, settings, settings.Provider, adapter, rec, true)
		return nil
	})
	if err != nil {
		o.log.Debug("batch item never reached the adapter", map[string]interface{}{
			logger.FieldRecordingID: rec.ID,
			logger.FieldError:       err.Error(),
		})
		return Fail(FailureFromError(settings.Provider, err))
	}
	return res
}

func partition(recs []Recording, results []Result) BatchOutcome {
	out := BatchOutcome{
		Succeeded: make([]BatchSuccess, 0, len(recs)),
		Failed:    make([]BatchFailure, 0),
	}
	for i, res := range results {
		if res.OK() {
			out.Succeeded = append(out.Succeeded, BatchSuccess{Recording: recs[i], Text: res.Text})
			continue
		}
		out.Failed = append(out.Failed, BatchFailure{Recording: recs[i], Failure: res.Failure})
	}
	return out
}
