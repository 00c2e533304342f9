package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// Gauge is a named point-in-time value reported by /metrics, such as the
// number of live registration sessions.
type Gauge struct {
	Name  string
	Value func() int
}

// Metrics reports process stats plus the given gauges. Request and
// registration counters are exported over OTLP, not here.
func Metrics(gauges ...Gauge) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		values := make(gin.H, len(gauges))
		for _, g := range gauges {
			values[g.Name] = g.Value()
		}
		c.JSON(http.StatusOK, gin.H{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"goroutines": runtime.NumGoroutine(),
			"heap_mb":    m.HeapAlloc / 1024 / 1024,
			"gc_runs":    m.NumGC,
			"gauges":     values,
		})
	}
}
