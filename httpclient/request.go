package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Request describes an outbound call.
type Request struct {
	Method string
	// Path is joined to the client's BaseURL unless it is absolute.
	Path    string
	Query   map[string]string
	Headers map[string]string
	// Body is sent as-is for []byte and JSON-encoded otherwise.
	Body any
	// Auth replaces the client's auth for this request.
	Auth *AuthConfig
	// RetryIf replaces the client's retry predicate for this request.
	RetryIf func(error) bool
}

// Response is a fully read response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("httpclient: decode response: %w", err)
	}
	return nil
}
