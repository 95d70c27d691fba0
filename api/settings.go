package api

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/server"
	"github.com/kbukum/scribe/settings"
	"github.com/kbukum/scribe/transcription"
)

// GetSettings handles GET /settings. API keys are masked.
func (h *Handler) GetSettings(c *gin.Context) {
	s, err := h.settings.Snapshot(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, transcription.SettingsUnavailable(err).AppError())
		return
	}
	server.RespondOK(c, settings.Redact(s))
}

// UpdateSettings handles PUT /settings. Sending the mask for an API key
// keeps the stored key.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var next transcription.Settings
	if err := c.ShouldBindJSON(&next); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}
	if next.Provider != "" {
		if _, ok := h.orchestrator.Registry().Resolve(next.Provider); !ok {
			server.RespondWithError(c, apperrors.InvalidInput("provider", "provider "+string(next.Provider)+" is not registered"))
			return
		}
	}
	saved, err := h.settings.Update(c.Request.Context(), next)
	if err != nil {
		if _, ok := apperrors.AsAppError(err); !ok {
			err = transcription.SettingsUnavailable(err).AppError()
		}
		server.RespondWithError(c, err)
		return
	}
	h.log.Info("settings changed", map[string]interface{}{"provider": string(saved.Provider)})
	server.RespondOK(c, settings.Redact(saved))
}

type providerView struct {
	ID        transcription.ProviderID `json:"id"`
	Available bool                     `json:"available"`
	Selected  bool                     `json:"selected"`
}

// ListProviders handles GET /providers.
func (h *Handler) ListProviders(c *gin.Context) {
	ctx := c.Request.Context()
	var selected transcription.ProviderID
	if s, err := h.settings.Snapshot(ctx); err == nil {
		selected = s.Provider
	}

	reg := h.orchestrator.Registry()
	ids := reg.Providers()
	out := make([]providerView, 0, len(ids))
	for _, id := range ids {
		adapter, _ := reg.Resolve(id)
		out = append(out, providerView{
			ID:        id,
			Available: adapter != nil && adapter.IsAvailable(ctx),
			Selected:  id == selected,
		})
	}
	server.RespondOK(c, out)
}
