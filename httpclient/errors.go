package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	KindTimeout ErrorKind = iota
	KindConnection
	KindAuth
	KindNotFound
	KindRateLimit
	KindClient
	KindServer
	KindInvalidRequest
)

var kindNames = map[ErrorKind]string{
	KindTimeout:        "timeout",
	KindConnection:     "connection",
	KindAuth:           "auth",
	KindNotFound:       "not_found",
	KindRateLimit:      "rate_limit",
	KindClient:         "client",
	KindServer:         "server",
	KindInvalidRequest: "invalid_request",
}

func (k ErrorKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Error is a classified failure. Body holds the response body when there
// was one.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Retryable  bool
	// Sent is set once the whole request was written to the server.
	Sent bool
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode > 0:
		return fmt.Sprintf("httpclient: %s (HTTP %d)", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("httpclient: %s: %v", e.Kind, e.Err)
	}
	return "httpclient: " + e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// ClassifyStatus returns nil for 2xx and a classified *Error otherwise.
func ClassifyStatus(status int, body []byte) *Error {
	e := &Error{StatusCode: status, Body: body, Sent: true}
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindAuth
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusTooManyRequests:
		e.Kind, e.Retryable = KindRateLimit, true
	case status >= 500:
		e.Kind, e.Retryable = KindServer, true
	default:
		e.Kind = KindClient
	}
	return e
}

// IsRetryable reports whether err is a retryable *Error.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

// IsUndelivered reports whether the server cannot have acted on the
// request: it was never fully written, or it was turned away with 429.
// Non-idempotent calls retry on this instead of IsRetryable.
func IsUndelivered(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return e.Kind == KindConnection && !e.Sent
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// BodyOf returns the response body carried by err.
func BodyOf(err error) []byte {
	var e *Error
	if errors.As(err, &e) {
		return e.Body
	}
	return nil
}
