// Package server provides the HTTP server: a gin engine mounted on a
// ServeMux, wrapped by server-level middleware and served with h2c.
//
// Middleware (server/middleware) runs in front of every route:
//
//   - Recovery turns panics into a JSON 500
//   - RequestID propagates X-Request-ID into the logger context
//   - CORS and BodySizeLimit
//   - Metrics and RequestLogger
//
// RateLimit is applied per route by callers.
//
// Endpoints (server/endpoint) are registered by RegisterDefaultEndpoints:
// /health, /ready, /alive, /info, /version and /metrics.
package server
