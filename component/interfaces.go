package component

import "context"

// HealthStatus is the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's health report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of the service.
type Component interface {
	// Name returns the unique registration name.
	Name() string

	// Start brings the component up. It must not block for the lifetime of
	// the component.
	Start(ctx context.Context) error

	// Stop releases resources. ctx carries the shutdown deadline.
	Stop(ctx context.Context) error

	Health(ctx context.Context) Health
}

// Description is what a component reports for the startup summary.
type Description struct {
	// Name is the display name. Empty means Component.Name.
	Name string
	// Type is a category such as "server", "sse" or "provider".
	Type    string
	Details string
	Port    int
}

// Describable is implemented by components that describe themselves in the
// startup summary.
type Describable interface {
	Describe() Description
}

// Route is one HTTP route for the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is implemented by components that serve HTTP routes.
type RouteProvider interface {
	Routes() []Route
}

// Aggregate folds component reports into one status: any unhealthy
// component makes the service unhealthy, any degraded one degrades it.
func Aggregate(results []Health) HealthStatus {
	status := StatusHealthy
	for _, h := range results {
		switch h.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}
