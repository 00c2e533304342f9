// Package component defines lifecycle-managed parts of the service: the
// HTTP server, the SSE hub, the session sweeper, the auth provider and the
// telemetry exporters.
//
// Components are registered in a Registry, started in registration order
// and stopped in reverse. Components may also implement Describable and
// RouteProvider to show up in the startup summary.
package component
