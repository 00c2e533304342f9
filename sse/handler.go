package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/signup/logger"
)

// KeepAliveInterval stays below common proxy idle timeouts.
var KeepAliveInterval = 30 * time.Second

// ConnectedEvent is the first event of every stream.
type ConnectedEvent struct {
	ClientID  string            `json:"client_id"`
	SessionID string            `json:"session_id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// ServeSSE streams the events of a new client with id clientID until the
// request context ends or the hub drops the client.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string, opts ...ClientOption) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	log := hub.log.WithContext(r.Context())

	// The server WriteTimeout would otherwise cut long-lived streams.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("sse write deadline not cleared", logger.Fields("client_id", clientID, logger.FieldError, err.Error()))
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	client := NewClient(clientID, opts...)
	hub.Register(client)
	defer hub.Unregister(client)

	hello, _ := json.Marshal(ConnectedEvent{
		ClientID:  clientID,
		SessionID: client.SessionID(),
		Metadata:  client.Metadata(),
	})
	writeEvent(w, Event{Type: EventConnected, Data: hello})
	flusher.Flush()

	keepAlive := time.NewTicker(KeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug("sse client disconnected", logger.Fields("client_id", clientID))
			return
		case ev, ok := <-client.Events():
			if !ok {
				return
			}
			writeEvent(w, ev)
			flusher.Flush()
		case <-keepAlive.C:
			_, _ = fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev Event) {
	typ := ev.Type
	if typ == "" {
		typ = EventMessage
	}
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", typ, ev.Data)
}
