package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/scribe/database/query"
	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/server"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/validation"
)

// recordingView adds live state to a stored recording.
type recordingView struct {
	transcription.Recording
	InFlight bool `json:"in_flight"`
}

func (h *Handler) view(r transcription.Recording) recordingView {
	return recordingView{Recording: r, InFlight: h.orchestrator.InFlight(r.ID)}
}

// CreateRecording handles POST /recordings (multipart: title, audio).
func (h *Handler) CreateRecording(c *gin.Context) {
	title := c.PostForm("title")
	v := validation.New().MaxLength("title", title, maxTitleLength)
	if appErr := v.Validate(); appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	audio, err := h.readAudio(c, false)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	rec, err := h.recordings.Create(c.Request.Context(), title, audio)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, h.view(rec))
}

// ListRecordings handles GET /recordings.
func (h *Handler) ListRecordings(c *gin.Context) {
	params := query.Parse(c.Request.URL.Query(), h.listQuery)
	page, err := h.recordings.List(c.Request.Context(), params)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	views := make([]recordingView, len(page.Data))
	for i, r := range page.Data {
		views[i] = h.view(r)
	}
	p := page.Pagination
	server.RespondOKWithMeta(c, views, &server.Meta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	})
}

// GetRecording handles GET /recordings/:id.
func (h *Handler) GetRecording(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := h.recordings.Get(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, h.view(rec))
}

// DeleteRecording handles DELETE /recordings/:id.
func (h *Handler) DeleteRecording(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if h.orchestrator.InFlight(id) {
		server.RespondWithError(c, apperrors.Conflict("recording is being transcribed"))
		return
	}
	if err := h.recordings.Delete(c.Request.Context(), id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

// AttachAudio handles PUT /recordings/:id/audio, finalizing a recording
// that was created without audio.
func (h *Handler) AttachAudio(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	audio, err := h.readAudio(c, true)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	rec, err := h.recordings.AttachAudio(c.Request.Context(), id, audio)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, h.view(rec))
}

// GetAudio handles GET /recordings/:id/audio.
func (h *Handler) GetAudio(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := h.recordings.Load(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if !rec.HasAudio() {
		server.RespondWithError(c, transcription.MissingBlob().AppError())
		return
	}
	_, mime := transcription.AudioFormat(rec.Audio)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", transcription.AudioFileName(rec.Audio)))
	c.Data(http.StatusOK, mime, rec.Audio)
}

// readAudio reads the "audio" multipart file.
func (h *Handler) readAudio(c *gin.Context, required bool) ([]byte, error) {
	fh, err := c.FormFile("audio")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && !required {
			return nil, nil
		}
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, apperrors.InvalidInput("audio", "file is too large")
		}
		return nil, apperrors.InvalidInput("audio", "a multipart file field named audio is required")
	}
	if h.maxAudioSize > 0 && fh.Size > h.maxAudioSize {
		return nil, apperrors.InvalidInput("audio", fmt.Sprintf("file exceeds %d bytes", h.maxAudioSize))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.InvalidInput("audio", "unreadable upload")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.InvalidInput("audio", "unreadable upload")
	}
	if len(data) == 0 && required {
		return nil, apperrors.InvalidInput("audio", "file is empty")
	}
	return data, nil
}

// pathID validates :id and writes the error response when it is bad.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if appErr := validation.New().UUID("id", id).Validate(); appErr != nil {
		server.RespondWithError(c, appErr)
		return "", false
	}
	return id, true
}
