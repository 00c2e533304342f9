package registration

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/signup/i18n"
	"github.com/kbukum/signup/logger"
	"github.com/kbukum/signup/observability"
)

// Defaults for a Controller.
const (
	DefaultRedirectDelay = 3 * time.Second
	DefaultLoginRoute    = "/login"
)

// Submission outcomes reported to Metrics.
const (
	OutcomeValidationFailed = "validation_failed"
	OutcomeSucceeded        = "succeeded"
	OutcomeProviderFailed   = "provider_failed"
	OutcomeAborted          = "aborted"
)

// Metrics receives submission measurements.
type Metrics interface {
	RecordSubmission(ctx context.Context, outcome, code string)
	RecordProviderCall(ctx context.Context, elapsed time.Duration, failed bool)
}

type nopMetrics struct{}

func (nopMetrics) RecordSubmission(context.Context, string, string)        {}
func (nopMetrics) RecordProviderCall(context.Context, time.Duration, bool) {}

type options struct {
	redirectDelay time.Duration
	loginRoute    string
	policy        ProviderErrorPolicy
	localizer     *i18n.Localizer
	log           *logger.Logger
	metrics       Metrics
	tracer        trace.Tracer
	sleep         func(ctx context.Context, d time.Duration) error
	now           func() time.Time
}

func defaultOptions() options {
	return options{
		redirectDelay: DefaultRedirectDelay,
		loginRoute:    DefaultLoginRoute,
		policy:        PolicySurface,
		metrics:       nopMetrics{},
		sleep:         sleepContext,
		now:           time.Now,
	}
}

// Option configures a Controller.
type Option func(*options)

// WithRedirectDelay sets the pause between success and the redirect.
func WithRedirectDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.redirectDelay = d
		}
	}
}

// WithLoginRoute sets the redirect target.
func WithLoginRoute(route string) Option {
	return func(o *options) {
		if route != "" {
			o.loginRoute = route
		}
	}
}

// WithProviderErrorPolicy sets how provider failures are reported.
func WithProviderErrorPolicy(p ProviderErrorPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithLocalizer sets the language of user-visible messages. Spanish is used
// when unset.
func WithLocalizer(l *i18n.Localizer) Option {
	return func(o *options) { o.localizer = l }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTracer sets the tracer used for the registration.submit span.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithSleep replaces the redirect wait. Tests use it to run without real
// delays.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) {
		if fn != nil {
			o.sleep = fn
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *options) finalize() {
	if o.localizer == nil {
		o.localizer = i18n.Spanish()
	}
	if o.log == nil {
		o.log = logger.WithComponent("registration")
	}
	if o.tracer == nil {
		o.tracer = observability.Tracer(observability.InstrumentationName)
	}
}
