// Package observability wires OpenTelemetry tracing and metrics.
//
//	tel := observability.NewComponent(cfg.Observability, service, version.Get().Version, env)
//	registry.Register(tel)
//	metrics, _ := observability.NewRegistrationMetrics(observability.Meter(observability.InstrumentationName))
//
// When disabled, the global providers stay no-op and every instrument
// created from them is free to call.
package observability
