package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/signup/logger"
	"github.com/kbukum/signup/observability"
)

var probePaths = map[string]bool{
	"/health": true,
	"/alive":  true,
	"/ready":  true,
	"/info":   true,
}

// RequestLogger logs each request at a level chosen by its status. Probe
// paths are not logged.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if probePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			rec := newResponseRecorder(w)
			next.ServeHTTP(rec, r)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, rec.status(),
				logger.FieldBytes, rec.written,
				logger.FieldDuration, time.Since(start).Milliseconds(),
			)
			l := log.WithContext(r.Context())
			switch {
			case rec.status() >= 500:
				l.Error("request completed", fields)
			case rec.status() >= 400:
				l.Warn("request completed", fields)
			default:
				l.Debug("request completed", fields)
			}
		})
	}
}

// Metrics records request count, latency and in-flight requests.
func Metrics(m *observability.HTTPMetrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if probePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			m.RequestStarted(r.Context())
			rec := newResponseRecorder(w)
			next.ServeHTTP(rec, r)
			m.RequestFinished(r.Context(), r.Method, r.URL.Path, rec.status(), time.Since(start))
		})
	}
}
