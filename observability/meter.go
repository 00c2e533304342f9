package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
func InitMeter(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns a meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// RegistrationMetrics records submission outcomes and provider latency.
type RegistrationMetrics struct {
	submissions      metric.Int64Counter
	providerDuration metric.Float64Histogram
}

// NewRegistrationMetrics creates the instruments on meter.
func NewRegistrationMetrics(meter metric.Meter) (*RegistrationMetrics, error) {
	submissions, err := meter.Int64Counter("registration.submissions",
		metric.WithDescription("Registration submissions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating registration.submissions counter: %w", err)
	}
	providerDuration, err := meter.Float64Histogram("registration.provider.duration",
		metric.WithDescription("Duration of auth provider signup calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating registration.provider.duration histogram: %w", err)
	}
	return &RegistrationMetrics{submissions: submissions, providerDuration: providerDuration}, nil
}

// RecordSubmission counts one finished submission. code is the error code
// of a failed one.
func (m *RegistrationMetrics) RecordSubmission(ctx context.Context, outcome, code string) {
	attrs := []attribute.KeyValue{attribute.String("outcome", outcome)}
	if code != "" {
		attrs = append(attrs, attribute.String("code", code))
	}
	m.submissions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordProviderCall records the latency of one provider call.
func (m *RegistrationMetrics) RecordProviderCall(ctx context.Context, elapsed time.Duration, failed bool) {
	m.providerDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.Bool("failed", failed)))
}

// HTTPMetrics holds the request instruments used by the server middleware.
type HTTPMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestActive   metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the instruments on meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requestTotal, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.requests counter: %w", err)
	}
	requestDuration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("Duration of requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.duration histogram: %w", err)
	}
	requestActive, err := meter.Int64UpDownCounter("http.server.active",
		metric.WithDescription("Number of in-flight requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.active counter: %w", err)
	}
	return &HTTPMetrics{requestTotal: requestTotal, requestDuration: requestDuration, requestActive: requestActive}, nil
}

// RequestStarted increments the in-flight gauge.
func (m *HTTPMetrics) RequestStarted(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RequestFinished decrements the in-flight gauge and records the request.
func (m *HTTPMetrics) RequestFinished(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
	m.requestDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
	))
}
