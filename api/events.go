package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/scribe/sse"
)

// Events handles GET /events. ?topics=notifications,transcriptions narrows
// the stream; the default is every topic.
func (h *Handler) Events(c *gin.Context) {
	var topics []string
	if raw := c.Query("topics"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
	}
	sse.Serve(h.hub, c.Writer, c.Request, uuid.NewString(), topics...)
}
