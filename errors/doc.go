// Package errors provides the structured error type shared by the signup
// service: machine-readable codes, an HTTP status hint, retryable
// detection, and the JSON envelope returned by the HTTP API.
package errors
