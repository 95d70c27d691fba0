package settings

import (
	"context"
	"sync"

	"github.com/kbukum/scribe/transcription"
)

// Static keeps settings in memory, seeded from configuration.
type Static struct {
	mu sync.RWMutex
	s  transcription.Settings
}

// NewStatic returns a Static holding s.
func NewStatic(s transcription.Settings) *Static {
	return &Static{s: s}
}

// Snapshot returns a copy of the current settings.
func (st *Static) Snapshot(context.Context) (transcription.Settings, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s, nil
}

// Update validates and replaces the settings.
func (st *Static) Update(_ context.Context, next transcription.Settings) (transcription.Settings, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	merged, err := merge(st.s, next)
	if err != nil {
		return transcription.Settings{}, err
	}
	st.s = merged
	return merged, nil
}
