package api

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/server"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/validation"
)

type transcribeResponse struct {
	Recording recordingView `json:"recording"`
	Text      string        `json:"text"`
}

// TranscribeRecording handles POST /recordings/:id/transcribe. Failures
// answer with the failure's status and an ErrorResponse whose details carry
// the display description.
func (h *Handler) TranscribeRecording(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	rec, err := h.recordings.Load(ctx, id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	res := h.orchestrator.TranscribeRecording(ctx, rec)
	if !res.OK() {
		server.RespondWithError(c, res.Failure.AppError())
		return
	}

	// Re-read so the response carries the stored status.
	if stored, err := h.recordings.Get(ctx, id); err == nil {
		rec = stored
	} else {
		rec = transcription.MarkDone(rec, res.Text)
	}
	server.RespondOK(c, transcribeResponse{Recording: h.view(rec), Text: res.Text})
}

type batchRequest struct {
	IDs []string `json:"ids"`
}

// TranscribeBatch handles POST /recordings/transcribe. Per-item failures
// are part of the 200 body; recording status is left untouched.
func (h *Handler) TranscribeBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}
	if appErr := validation.New().UUIDs("ids", req.IDs, maxBatchSize).Validate(); appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	ctx := c.Request.Context()
	recs, err := h.recordings.LoadMany(ctx, req.IDs)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	outcome, err := h.orchestrator.TranscribeRecordings(ctx, recs)
	if err != nil {
		server.RespondWithError(c, apperrors.ServiceUnavailable("transcription batch").WithCause(err))
		return
	}
	server.RespondOK(c, outcome)
}
