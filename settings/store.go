package settings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/scribe/encryption"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/redis"
	"github.com/kbukum/scribe/transcription"
)

const currentKey = "current"

type document struct {
	Settings  transcription.Settings `json:"settings"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Store keeps one settings document in redis with API keys sealed.
type Store struct {
	docs     *redis.TypedStore[document]
	sealer   encryption.Encryptor
	defaults transcription.Settings
	log      *logger.Logger
	mu       sync.Mutex
}

// NewStore creates a Store. defaults are returned until a document is saved.
func NewStore(client *redis.Client, sealer encryption.Encryptor, defaults transcription.Settings) *Store {
	return &Store{
		docs:     redis.NewTypedStore[document](client, "settings"),
		sealer:   sealer,
		defaults: defaults,
		log:      logger.Get("settings"),
	}
}

// Snapshot loads and unseals the current settings.
func (s *Store) Snapshot(ctx context.Context) (transcription.Settings, error) {
	doc, err := s.docs.Load(ctx, currentKey)
	if err != nil {
		return transcription.Settings{}, err
	}
	if doc == nil {
		return s.defaults, nil
	}
	out := doc.Settings
	for _, k := range apiKeys(&out) {
		if *k == "" {
			continue
		}
		plain, err := s.sealer.Decrypt(*k)
		if err != nil {
			return transcription.Settings{}, fmt.Errorf("unseal api key: %w", err)
		}
		*k = plain
	}
	return out, nil
}

// Update validates next, seals its API keys and saves it.
func (s *Store) Update(ctx context.Context, next transcription.Settings) (transcription.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Snapshot(ctx)
	if err != nil {
		return transcription.Settings{}, err
	}
	merged, err := merge(current, next)
	if err != nil {
		return transcription.Settings{}, err
	}

	sealed := merged
	for _, k := range apiKeys(&sealed) {
		if *k == "" {
			continue
		}
		if *k, err = s.sealer.Encrypt(*k); err != nil {
			return transcription.Settings{}, fmt.Errorf("seal api key: %w", err)
		}
	}
	if err := s.docs.Save(ctx, currentKey, &document{Settings: sealed, UpdatedAt: time.Now().UTC()}, 0); err != nil {
		return transcription.Settings{}, err
	}
	s.log.Info("settings updated", logger.Fields("provider", string(merged.Provider)))
	return merged, nil
}

// Reset drops the saved document so defaults apply again.
func (s *Store) Reset(ctx context.Context) error {
	return s.docs.Delete(ctx, currentKey)
}
