package transcription

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/scribe/logger"
)

var audio = []byte("RIFF\x24\x00\x00\x00WAVEfmt ")

type fakeAdapter struct {
	name string

	mu      sync.Mutex
	calls   []Request
	texts   map[string]string
	errs    map[string]error
	panics  bool
	started chan string
	release chan struct{}
}

func newFakeAdapter(name string) *fakeAdapter {
	return &fakeAdapter{name: name, texts: map[string]string{}, errs: map[string]error{}}
}

func (a *fakeAdapter) Name() string                     { return a.name }
func (a *fakeAdapter) IsAvailable(context.Context) bool { return true }

func (a *fakeAdapter) Execute(ctx context.Context, req Request) (string, error) {
	a.mu.Lock()
	a.calls = append(a.calls, req)
	a.mu.Unlock()
	if a.started != nil {
		a.started <- req.RecordingID
	}
	if a.release != nil {
		select {
		case <-a.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if a.panics {
		panic("decoder exploded")
	}
	if err := a.errs[req.RecordingID]; err != nil {
		return "", err
	}
	if text, ok := a.texts[req.RecordingID]; ok {
		return text, nil
	}
	return "text for " + req.RecordingID, nil
}

func (a *fakeAdapter) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

type memStore struct {
	mu      sync.Mutex
	updates []Recording
	ctxErrs []error
	err     error
}

func (s *memStore) Update(ctx context.Context, r Recording) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, r)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return s.err
}

func (s *memStore) statuses() []Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Status, len(s.updates))
	for i, u := range s.updates {
		out[i] = u.Status
	}
	return out
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) Name() string                     { return "test" }
func (l *eventLog) IsAvailable(context.Context) bool { return true }

func (l *eventLog) Send(_ context.Context, e Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *eventLog) types() []EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]EventType, len(l.events))
	for i, e := range l.events {
		out[i] = e.Type
	}
	return out
}

type warning struct{ title, description, detail string }

type fixture struct {
	adapter  *fakeAdapter
	store    *memStore
	events   *eventLog
	warnings *[]warning
	settings Settings
	orch     *Orchestrator
}

func newFixture(t *testing.T, settingsErr error, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		adapter:  newFakeAdapter("groq"),
		store:    &memStore{},
		events:   &eventLog{},
		warnings: &[]warning{},
		settings: Settings{
			Provider:    ProviderGroq,
			Language:    "de",
			Temperature: 0.2,
			Groq:        HostedSettings{APIKey: "gsk-1", Model: "whisper-large-v3"},
			OpenAI:      HostedSettings{APIKey: "sk-other"},
		},
	}
	reg := NewRegistry()
	reg.Register(ProviderGroq, f.adapter, nil)

	source := SettingsFunc(func(context.Context) (Settings, error) {
		if settingsErr != nil {
			return Settings{}, settingsErr
		}
		return f.settings, nil
	})
	warnings := f.warnings
	base := []Option{
		WithEventSink(f.events),
		WithNotifier(NotifierFunc(func(_ context.Context, title, description, detail string) {
			*warnings = append(*warnings, warning{title, description, detail})
		})),
		WithLogger(logger.Nop()),
	}
	f.orch = NewOrchestrator(reg, source, f.store, append(base, opts...)...)
	return f
}

func equalSlices[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTranscribeRecordingSuccess(t *testing.T) {
	f := newFixture(t, nil)
	f.adapter.texts["r1"] = "hallo welt"

	res := f.orch.TranscribeRecording(context.Background(), Recording{ID: "r1", Audio: audio, TranscribedText: "stale"})
	if !res.OK() || res.Text != "hallo welt" {
		t.Fatalf("result = %+v", res)
	}

	if got := f.store.statuses(); !equalSlices(got, []Status{StatusTranscribing, StatusDone}) {
		t.Errorf("writes = %v", got)
	}
	if f.store.updates[0].TranscribedText != "" || f.store.updates[1].TranscribedText != "hallo welt" {
		t.Errorf("texts = %q, %q", f.store.updates[0].TranscribedText, f.store.updates[1].TranscribedText)
	}
	if got := f.events.types(); !equalSlices(got, []EventType{EventRequested, EventCompleted}) {
		t.Errorf("events = %v", got)
	}
	for _, e := range f.events.events {
		if e.Provider != ProviderGroq || e.RecordingID != "r1" || e.Batch || e.Timestamp.IsZero() {
			t.Errorf("event = %+v", e)
		}
	}

	req := f.adapter.calls[0]
	want := ProviderConfig{APIKey: "gsk-1", Model: "whisper-large-v3", Language: "de", Temperature: 0.2}
	if req.Config != want || string(req.Audio) != string(audio) {
		t.Errorf("request config = %+v", req.Config)
	}
	if f.orch.InFlight("r1") {
		t.Error("still in flight after return")
	}
}

func TestTranscribeRecordingEmptyTextIsSuccess(t *testing.T) {
	f := newFixture(t, nil)
	f.adapter.texts["r1"] = ""
	res := f.orch.TranscribeRecording(context.Background(), Recording{ID: "r1", Audio: audio})
	if !res.OK() || res.Text != "" {
		t.Fatalf("result = %+v", res)
	}
	if got := f.store.statuses(); !equalSlices(got, []Status{StatusTranscribing, StatusDone}) {
		t.Errorf("writes = %v", got)
	}
}

func TestTranscribeRecordingEarlyFailures(t *testing.T) {
	tests := []struct {
		name        string
		settingsErr error
		provider    ProviderID
		rec         Recording
		wantKind    Kind
		wantWrites  []Status
	}{
		{
			name:     "missing audio",
			provider: ProviderGroq,
			rec:      Recording{ID: "r1"},
			wantKind: KindMissingBlob,
		},
		{
			name:        "settings unavailable",
			settingsErr: errors.New("redis down"),
			rec:         Recording{ID: "r1", Audio: audio},
			wantKind:    KindSettingsUnavailable,
		},
		{
			name:       "no provider selected",
			rec:        Recording{ID: "r1", Audio: audio},
			wantKind:   KindNoProviderSelected,
			wantWrites: []Status{StatusTranscribing, StatusFailed},
		},
		{
			name:       "unregistered provider",
			provider:   ProviderWhisper,
			rec:        Recording{ID: "r1", Audio: audio},
			wantKind:   KindNoProviderSelected,
			wantWrites: []Status{StatusTranscribing, StatusFailed},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.settingsErr)
			f.settings.Provider = tt.provider

			res := f.orch.TranscribeRecording(context.Background(), tt.rec)
			if res.OK() || res.Failure.Kind != tt.wantKind {
				t.Fatalf("result = %+v", res)
			}
			if got := f.store.statuses(); !equalSlices(got, tt.wantWrites) {
				t.Errorf("writes = %v, want %v", got, tt.wantWrites)
			}
			if f.adapter.callCount() != 0 {
				t.Error("adapter was called")
			}
			if len(f.events.types()) != 0 {
				t.Errorf("events = %v", f.events.types())
			}
		})
	}
}

func TestTranscribeRecordingProviderFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		panics   bool
		wantKind ProviderKind
	}{
		{"typed failure", ProviderFailure(ProviderGroq, ProviderRateLimit, nil), false, ProviderRateLimit},
		{"deadline", context.DeadlineExceeded, false, ProviderNetwork},
		{"unknown error", errors.New("boom"), false, ProviderUnknown},
		{"panic", nil, true, ProviderUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.adapter.errs["r1"] = tt.err
			f.adapter.panics = tt.panics

			res := f.orch.TranscribeRecording(context.Background(), Recording{ID: "r1", Audio: audio, TranscribedText: "old"})
			if res.OK() || res.Failure.Kind != KindProvider || res.Failure.ProviderKind != tt.wantKind {
				t.Fatalf("result = %+v", res.Failure)
			}
			if got := f.store.statuses(); !equalSlices(got, []Status{StatusTranscribing, StatusFailed}) {
				t.Errorf("writes = %v", got)
			}
			if last := f.store.updates[1]; last.TranscribedText != "" {
				t.Errorf("failed recording kept text %q", last.TranscribedText)
			}
			events := f.events.events
			if len(events) != 2 || events[1].Type != EventFailed || events[1].ErrorTitle != res.Failure.Title {
				t.Errorf("events = %+v", events)
			}
		})
	}
}

func TestStatusWriteFailureOnlyWarns(t *testing.T) {
	f := newFixture(t, nil)
	f.store.err = errors.New("disk full")

	res := f.orch.TranscribeRecording(context.Background(), Recording{ID: "r1", Audio: audio})
	if !res.OK() {
		t.Fatalf("write failure changed the result: %+v", res)
	}
	if len(*f.warnings) != 2 {
		t.Fatalf("warnings = %+v", *f.warnings)
	}
	w := (*f.warnings)[1]
	if w.title != "Unable to update recording" || w.detail != "disk full" {
		t.Errorf("warning = %+v", w)
	}
}

func TestStatusWritesOutliveCancellation(t *testing.T) {
	f := newFixture(t, nil)
	f.adapter.started = make(chan string, 1)
	f.adapter.release = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Result, 1)
	go func() { done <- f.orch.TranscribeRecording(ctx, Recording{ID: "r1", Audio: audio}) }()

	<-f.adapter.started
	if !f.orch.InFlight("r1") {
		t.Error("InFlight = false during the adapter call")
	}
	cancel()

	select {
	case res := <-done:
		if res.OK() || res.Failure.ProviderKind != ProviderNetwork {
			t.Errorf("result = %+v", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("transcription did not return after cancel")
	}

	if got := f.store.statuses(); !equalSlices(got, []Status{StatusTranscribing, StatusFailed}) {
		t.Errorf("writes = %v", got)
	}
	for i, err := range f.store.ctxErrs {
		if err != nil {
			t.Errorf("write %d saw canceled context: %v", i, err)
		}
	}
	if f.orch.InFlight("r1") {
		t.Error("still in flight")
	}
}

type slowAdapter struct{ delay time.Duration }

func (a slowAdapter) Name() string                     { return "slow" }
func (a slowAdapter) IsAvailable(context.Context) bool { return true }

func (a slowAdapter) Execute(context.Context, Request) (string, error) {
	time.Sleep(a.delay)
	return "hello", nil
}

func TestEventsMeasureAdapterDuration(t *testing.T) {
	reg := NewRegistry()
	reg.Register(ProviderGroq, slowAdapter{delay: 50 * time.Millisecond}, nil)
	events := &eventLog{}
	settings := SettingsFunc(func(context.Context) (Settings, error) {
		return Settings{Provider: ProviderGroq}, nil
	})
	orch := NewOrchestrator(reg, settings, &memStore{}, WithEventSink(events), WithLogger(logger.Nop()))

	res := orch.TranscribeRecording(context.Background(), Recording{ID: "r1", Audio: audio})
	if !res.OK() || res.Text != "hello" {
		t.Fatalf("result = %+v", res)
	}
	if got := events.types(); !equalSlices(got, []EventType{EventRequested, EventCompleted}) {
		t.Fatalf("events = %v", got)
	}
	if d := events.events[1].Duration; d < 50*time.Millisecond {
		t.Errorf("duration = %v, want >= 50ms", d)
	}
}

func TestRetranscribeOverwritesText(t *testing.T) {
	f := newFixture(t, nil)
	rec := Recording{ID: "r1", Audio: audio, Status: StatusDone, TranscribedText: "first"}
	f.adapter.texts["r1"] = "second"

	res := f.orch.TranscribeRecording(context.Background(), rec)
	if !res.OK() {
		t.Fatalf("result = %+v", res)
	}
	last := f.store.updates[len(f.store.updates)-1]
	if last.Status != StatusDone || last.TranscribedText != "second" {
		t.Errorf("final write = %+v", last)
	}
	for _, u := range f.store.updates {
		if u.TranscribedText == "first" {
			t.Error("stale text was written")
		}
	}
}
