package sse

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/scribe/logger"
)

// KeepAliveInterval stays below common proxy idle timeouts.
var KeepAliveInterval = 30 * time.Second

// Serve streams hub events to w until the request ends or the hub stops.
func Serve(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string, topics ...string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Long-lived stream; the server WriteTimeout must not apply.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		logger.Debug("sse: could not clear write deadline", logger.Fields("client_id", clientID, "error", err.Error()))
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	client := NewClient(clientID, topics...)
	if !hub.Register(client) {
		http.Error(w, "event stream unavailable", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	writeFrame(w, Frame{Event: "connected", Data: []byte(fmt.Sprintf(`{"client_id":%q}`, clientID))})
	flusher.Flush()

	keepAlive := time.NewTicker(KeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case f, ok := <-client.Frames():
			if !ok {
				return
			}
			writeFrame(w, f)
			flusher.Flush()
		case <-keepAlive.C:
			_, _ = fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}

func writeFrame(w http.ResponseWriter, f Frame) {
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", f.Event, f.Data)
}
