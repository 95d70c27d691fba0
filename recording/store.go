package recording

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kbukum/scribe/database"
	"github.com/kbukum/scribe/database/query"
	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/storage"
	"github.com/kbukum/scribe/transcription"
)

// ListQuery is what GET /recordings may filter, search and sort on.
var ListQuery = query.Config{
	SearchFields:      []string{"title", "transcribed_text"},
	AllowedSortFields: []string{"created_at", "updated_at", "title", "status"},
	AllowedFilters:    []string{"status", "created_at"},
	DefaultSort:       "created_at DESC",
}

// Store keeps recording rows in the database and their audio in blob storage.
// It implements transcription.StatusStore.
type Store struct {
	db    *database.DB
	blobs *storage.ByteClient
	log   *logger.Logger
}

var _ transcription.StatusStore = (*Store)(nil)

// NewStore creates a Store.
func NewStore(db *database.DB, blobs *storage.ByteClient) *Store {
	return &Store{db: db, blobs: blobs, log: logger.Get("recording")}
}

// Create stores audio (if any) and inserts an UNTRANSCRIBED recording.
func (s *Store) Create(ctx context.Context, title string, audio []byte) (transcription.Recording, error) {
	m := Model{
		BaseModel: database.BaseModel{ID: uuid.NewString()},
		Title:     title,
		Status:    string(transcription.StatusUntranscribed),
	}
	if len(audio) > 0 {
		key, err := s.putAudio(ctx, m.ID, audio)
		if err != nil {
			return transcription.Recording{}, err
		}
		m.AudioKey = key
	}

	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		s.dropAudio(ctx, m.AudioKey)
		return transcription.Recording{}, database.FromDatabase(err, "recording")
	}

	rec := m.toRecording()
	rec.Audio = audio
	s.log.Info("Recording created", logger.Fields(logger.FieldRecordingID, rec.ID, "bytes", len(audio)))
	return rec, nil
}

// AttachAudio finalizes a recording created without audio.
// Replacing existing audio is a conflict.
func (s *Store) AttachAudio(ctx context.Context, id string, audio []byte) (transcription.Recording, error) {
	if len(audio) == 0 {
		return transcription.Recording{}, apperrors.InvalidInput("audio", "audio is empty")
	}
	m, err := s.find(s.db.WithContext(ctx), id)
	if err != nil {
		return transcription.Recording{}, err
	}
	if m.AudioKey != "" {
		return transcription.Recording{}, apperrors.Conflict("The recording already has audio.")
	}

	key, err := s.putAudio(ctx, id, audio)
	if err != nil {
		return transcription.Recording{}, err
	}
	res := s.db.WithContext(ctx).Model(&Model{}).
		Where("id = ? AND audio_key = ''", id).
		Updates(map[string]any{"audio_key": key, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		s.dropAudio(ctx, key)
		return transcription.Recording{}, database.FromDatabase(res.Error, "recording")
	}
	if res.RowsAffected == 0 {
		s.dropAudio(ctx, key)
		return transcription.Recording{}, apperrors.Conflict("The recording already has audio.")
	}

	m.AudioKey = key
	rec := m.toRecording()
	rec.Audio = audio
	return rec, nil
}

// Get returns recording metadata without audio.
func (s *Store) Get(ctx context.Context, id string) (transcription.Recording, error) {
	m, err := s.find(s.db.WithContext(ctx), id)
	if err != nil {
		return transcription.Recording{}, err
	}
	return m.toRecording(), nil
}

// Load returns the recording with its audio. Audio that is missing from
// blob storage loads as empty, which the orchestrator reports as a missing blob.
func (s *Store) Load(ctx context.Context, id string) (transcription.Recording, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return transcription.Recording{}, err
	}
	return s.hydrate(ctx, rec)
}

// LoadMany loads recordings in the order of ids. Any unknown id fails the call.
func (s *Store) LoadMany(ctx context.Context, ids []string) ([]transcription.Recording, error) {
	var rows []Model
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, database.FromDatabase(err, "recording")
	}
	byID := make(map[string]Model, len(rows))
	for _, m := range rows {
		byID[m.ID] = m
	}

	out := make([]transcription.Recording, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, apperrors.NotFound("recording", id)
		}
		rec, err := s.hydrate(ctx, m.toRecording())
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// List returns one page of recordings without audio.
func (s *Store) List(ctx context.Context, params query.Params) (*query.Result[transcription.Recording], error) {
	page, err := query.Apply[Model](s.db.WithContext(ctx), params, ListQuery)
	if err != nil {
		return nil, database.FromDatabase(err, "recording")
	}
	out := &query.Result[transcription.Recording]{
		Data:       make([]transcription.Recording, len(page.Data)),
		Pagination: page.Pagination,
	}
	for i, m := range page.Data {
		out.Data[i] = m.toRecording()
	}
	return out, nil
}

// Update writes r's status and text. The last write wins so a terminal
// status lands even when an earlier write was lost; only a reset to
// UNTRANSCRIBED is refused. Writes the transition table would not produce
// are logged.
func (s *Store) Update(ctx context.Context, r transcription.Recording) error {
	if !r.Status.Valid() {
		return apperrors.InvalidInput("status", "unknown status "+string(r.Status))
	}
	return s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		m, err := s.find(tx, r.ID)
		if err != nil {
			return err
		}
		from := transcription.Status(m.Status)
		if r.Status == transcription.StatusUntranscribed && from != transcription.StatusUntranscribed {
			return apperrors.InvalidTransition(string(from), string(r.Status))
		}
		if !transcription.CanTransition(from, r.Status) {
			s.log.Warn("out-of-order status write", logger.Fields(
				logger.FieldRecordingID, r.ID,
				"from", string(from),
				"to", string(r.Status),
			))
		}

		text := r.TranscribedText
		if r.Status != transcription.StatusDone {
			text = ""
		}
		err = tx.Model(&Model{}).Where("id = ?", r.ID).Updates(map[string]any{
			"status":           string(r.Status),
			"transcribed_text": text,
			"updated_at":       time.Now().UTC(),
		}).Error
		if err != nil {
			return database.FromDatabase(err, "recording")
		}
		return nil
	})
}

// Delete removes the recording and its audio.
func (s *Store) Delete(ctx context.Context, id string) error {
	m, err := s.find(s.db.WithContext(ctx), id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&Model{}, "id = ?", id).Error; err != nil {
		return database.FromDatabase(err, "recording")
	}
	s.dropAudio(ctx, m.AudioKey)
	return nil
}

func (s *Store) find(db *gorm.DB, id string) (Model, error) {
	var m Model
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		if database.IsNotFoundError(err) {
			return Model{}, apperrors.NotFound("recording", id)
		}
		return Model{}, database.FromDatabase(err, "recording")
	}
	return m, nil
}

func (s *Store) hydrate(ctx context.Context, rec transcription.Recording) (transcription.Recording, error) {
	if rec.AudioKey == "" {
		return rec, nil
	}
	audio, err := s.blobs.Get(ctx, rec.AudioKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("Recording audio missing from storage", logger.Fields(
				logger.FieldRecordingID, rec.ID, "key", rec.AudioKey,
			))
			return rec, nil
		}
		return transcription.Recording{}, apperrors.ExternalServiceError("storage", err)
	}
	rec.Audio = audio
	return rec, nil
}

func (s *Store) putAudio(ctx context.Context, id string, audio []byte) (string, error) {
	ext, mime := transcription.AudioFormat(audio)
	key := "recordings/" + id + ext
	if err := s.blobs.Put(ctx, key, audio, mime); err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return "", apperrors.InvalidInput("audio", err.Error())
		}
		return "", apperrors.ExternalServiceError("storage", err)
	}
	return key, nil
}

func (s *Store) dropAudio(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.log.Warn("Failed to delete recording audio", logger.Fields("key", key, "error", err.Error()))
	}
}
