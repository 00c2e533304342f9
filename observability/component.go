package observability

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/signup/component"
	"github.com/kbukum/signup/logger"
)

// Component owns the tracer and meter providers. Stop flushes them.
type Component struct {
	cfg         Config
	service     string
	version     string
	environment string

	mu     sync.Mutex
	tp     *sdktrace.TracerProvider
	mp     *sdkmetric.MeterProvider
	active bool
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the telemetry component.
func NewComponent(cfg Config, service, version, environment string) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, service: service, version: version, environment: environment}
}

func (c *Component) Name() string { return "telemetry" }

// Start installs the global providers when enabled. The propagator is set
// either way so incoming trace headers are honored.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	SetPropagator()
	if !c.cfg.Enabled {
		return nil
	}
	res, err := NewResource(c.service, c.version, c.environment)
	if err != nil {
		return fmt.Errorf("creating resource: %w", err)
	}
	if c.tp, err = InitTracer(ctx, c.cfg, res); err != nil {
		return err
	}
	if c.mp, err = InitMeter(ctx, c.cfg, res); err != nil {
		_ = c.tp.Shutdown(ctx)
		return err
	}
	c.active = true
	logger.Info("telemetry initialized", logger.Fields(
		"endpoint", c.cfg.Endpoint,
		"sample_rate", c.cfg.SampleRate,
		"metric_interval", c.cfg.MetricInterval.String(),
	))
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return nil
	}
	c.active = false
	return errors.Join(c.tp.Shutdown(ctx), c.mp.Shutdown(ctx))
}

func (c *Component) Health(context.Context) component.Health {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := "disabled"
	if c.active {
		msg = "exporting to " + c.cfg.Endpoint
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: msg}
}

func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp/http %s sample=%.2f", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: "Telemetry", Type: "otel", Details: details}
}
