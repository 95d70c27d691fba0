package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/scribe/database/query"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/settings"
	"github.com/kbukum/scribe/sse"
	"github.com/kbukum/scribe/transcription"
)

// Limits for request payloads.
const (
	maxTitleLength = 200
	maxBatchSize   = 100
)

// Recordings is the recording persistence the handlers need.
type Recordings interface {
	Create(ctx context.Context, title string, audio []byte) (transcription.Recording, error)
	AttachAudio(ctx context.Context, id string, audio []byte) (transcription.Recording, error)
	Get(ctx context.Context, id string) (transcription.Recording, error)
	Load(ctx context.Context, id string) (transcription.Recording, error)
	LoadMany(ctx context.Context, ids []string) ([]transcription.Recording, error)
	List(ctx context.Context, params query.Params) (*query.Result[transcription.Recording], error)
	Delete(ctx context.Context, id string) error
}

// Handler serves the /api/v1 routes.
type Handler struct {
	recordings   Recordings
	listQuery    query.Config
	orchestrator *transcription.Orchestrator
	settings     settings.Manager
	hub          *sse.Hub
	maxAudioSize int64
	log          *logger.Logger
}

// Deps are the collaborators of a Handler.
type Deps struct {
	Recordings   Recordings
	ListQuery    query.Config
	Orchestrator *transcription.Orchestrator
	Settings     settings.Manager
	// Hub backs GET /events. Nil leaves the route unregistered.
	Hub          *sse.Hub
	MaxAudioSize int64
}

// NewHandler creates a Handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		recordings:   d.Recordings,
		listQuery:    d.ListQuery,
		orchestrator: d.Orchestrator,
		settings:     d.Settings,
		hub:          d.Hub,
		maxAudioSize: d.MaxAudioSize,
		log:          logger.Get("api"),
	}
}

// Register mounts the routes under /api/v1.
func (h *Handler) Register(r gin.IRouter) {
	v1 := r.Group("/api/v1")

	rec := v1.Group("/recordings")
	rec.POST("", h.CreateRecording)
	rec.GET("", h.ListRecordings)
	rec.POST("/transcribe", h.TranscribeBatch)
	rec.GET("/:id", h.GetRecording)
	rec.DELETE("/:id", h.DeleteRecording)
	rec.PUT("/:id/audio", h.AttachAudio)
	rec.GET("/:id/audio", h.GetAudio)
	rec.POST("/:id/transcribe", h.TranscribeRecording)

	v1.GET("/settings", h.GetSettings)
	v1.PUT("/settings", h.UpdateSettings)
	v1.GET("/providers", h.ListProviders)

	if h.hub != nil {
		v1.GET("/events", h.Events)
	}
}
