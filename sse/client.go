package sse

// clientBuffer is how many events a slow client may lag behind.
const clientBuffer = 64

// Client is one connected event stream.
type Client struct {
	id       string
	metadata map[string]string
	events   chan Event
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMetadata attaches a key/value pair reported in the connected event.
func WithMetadata(key, value string) ClientOption {
	return func(c *Client) { c.metadata[key] = value }
}

// WithSessionID attaches the browser session id.
func WithSessionID(id string) ClientOption {
	return WithMetadata("session_id", id)
}

// NewClient creates a client with a buffered event channel.
func NewClient(id string, opts ...ClientOption) *Client {
	c := &Client{
		id:       id,
		metadata: make(map[string]string),
		events:   make(chan Event, clientBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the client id.
func (c *Client) ID() string { return c.id }

// SessionID returns the session_id metadata.
func (c *Client) SessionID() string { return c.metadata["session_id"] }

// Metadata returns the client metadata.
func (c *Client) Metadata() map[string]string { return c.metadata }

// Events is closed when the hub drops the client.
func (c *Client) Events() <-chan Event { return c.events }

// send reports false when the client's buffer is full.
func (c *Client) send(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}
