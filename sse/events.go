package sse

import "encoding/json"

// Event types the package itself emits.
const (
	EventConnected = "connected"
	EventMessage   = "message"
)

// Event is one SSE frame. An empty Type is sent as "message".
type Event struct {
	Type string
	Data []byte
}

// JSONEvent marshals v into an event of type typ.
func JSONEvent(typ string, v any) (Event, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: typ, Data: data}, nil
}

// Publisher sends events to the clients matching a pattern.
type Publisher interface {
	Publish(pattern string, ev Event)
}
