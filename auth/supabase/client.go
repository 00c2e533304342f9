package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/signup/auth"
	"github.com/kbukum/signup/httpclient"
	"github.com/kbukum/signup/logger"
	"github.com/kbukum/signup/observability"
	"github.com/kbukum/signup/resilience"
	"github.com/kbukum/signup/util"
	"github.com/kbukum/signup/validation"
	"github.com/kbukum/signup/version"
)

const (
	signupPath = "/auth/v1/signup"
	healthPath = "/auth/v1/health"
)

// Client calls the GoTrue API of one Supabase project.
type Client struct {
	cfg    Config
	http   *httpclient.Client
	tracer trace.Tracer
	log    *logger.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	transport http.RoundTripper
	tracer    trace.Tracer
	log       *logger.Logger
	backoff   time.Duration
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.transport = rt }
}

// WithTracer sets the tracer for supabase.signup spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *clientOptions) { o.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *clientOptions) { o.log = l }
}

// WithRetryBackoff sets the first retry wait.
func WithRetryBackoff(d time.Duration) Option {
	return func(o *clientOptions) { o.backoff = d }
}

var _ auth.Provider = (*Client)(nil)

// New validates cfg and creates a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := clientOptions{backoff: 200 * time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = observability.Tracer(observability.InstrumentationName)
	}
	if o.log == nil {
		o.log = logger.WithComponent("supabase")
	}

	retry := httpclient.DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxAttempts
	retry.InitialBackoff = o.backoff
	breaker := httpclient.DefaultCircuitBreakerConfig("supabase")
	breaker.MaxFailures = cfg.CircuitBreaker.MaxFailures
	breaker.Timeout = cfg.CircuitBreaker.Timeout
	if cfg.CircuitBreaker.HalfOpenMaxCalls > 0 {
		breaker.HalfOpenMaxCalls = cfg.CircuitBreaker.HalfOpenMaxCalls
	}
	log := o.log
	breaker.OnStateChange = func(name string, from, to resilience.BreakerState) {
		log.Warn("circuit breaker state changed", logger.Fields("breaker", name, "from", from.String(), "to", to.String()))
	}

	var httpOpts []httpclient.Option
	if o.transport != nil {
		httpOpts = append(httpOpts, httpclient.WithTransport(o.transport))
	}
	hc, err := httpclient.New(httpclient.Config{
		BaseURL:        cfg.URL,
		Timeout:        cfg.Timeout,
		Auth:           httpclient.APIKeyAuth("apikey", cfg.Key).With(httpclient.BearerAuth(cfg.Key)),
		UserAgent:      "signup/" + version.Get().Version,
		Retry:          retry,
		CircuitBreaker: breaker,
		MaxConcurrent:  cfg.MaxConcurrent,
		TLS:            &cfg.TLS,
	}, httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("supabase: %w", err)
	}
	return &Client{cfg: cfg, http: hc, tracer: o.tracer, log: o.log}, nil
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required,regemail,max=320"`
	Password string `json:"password" validate:"required,max=1024"`
}

type user struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	ConfirmationSentAt *time.Time `json:"confirmation_sent_at"`
	EmailConfirmedAt   *time.Time `json:"email_confirmed_at"`
}

// signUpResponse is a bare user when email confirmation is on, or a
// session with an embedded user when it is off.
type signUpResponse struct {
	user
	AccessToken string `json:"access_token"`
	User        *user  `json:"user"`
}

// SignUp registers email with password.
func (c *Client) SignUp(ctx context.Context, email, password string) (*auth.SignUpResult, error) {
	ctx, span := c.tracer.Start(ctx, observability.SpanSupabaseSignup, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	body := signUpRequest{Email: email, Password: password}
	if err := validation.Validate(body); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, fmt.Errorf("supabase: %w", err)
	}

	// A signup the server received may already have created the account,
	// so only requests it never acted on are sent again.
	req := httpclient.Request{Method: http.MethodPost, Path: signupPath, Body: body, RetryIf: httpclient.IsUndelivered}
	if c.cfg.EmailRedirectTo != "" {
		req.Query = map[string]string{"redirect_to": c.cfg.EmailRedirectTo}
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		err = c.translate(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "signup failed")
		if status := httpclient.StatusOf(err); status > 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", status))
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	var out signUpResponse
	if err := resp.JSON(&out); err != nil {
		span.SetStatus(codes.Error, "decode")
		return nil, fmt.Errorf("supabase: %w", err)
	}
	u := out.user
	if out.User != nil {
		u = *out.User
	}
	res := &auth.SignUpResult{
		UserID:            u.ID,
		Email:             u.Email,
		NeedsConfirmation: u.EmailConfirmedAt == nil && out.AccessToken == "",
	}
	if u.ConfirmationSentAt != nil {
		res.ConfirmationSentAt = *u.ConfirmationSentAt
	}
	c.log.WithContext(ctx).Debug("supabase signup accepted", logger.Fields(
		logger.FieldEmailHash, util.EmailFingerprint(email),
		logger.FieldProviderID, res.UserID,
		"needs_confirmation", res.NeedsConfirmation))
	return res, nil
}

// translate turns a refused response into *APIError and leaves transport
// failures wrapped.
func (c *Client) translate(err error) error {
	if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrBulkheadFull) {
		return fmt.Errorf("supabase: %w", err)
	}
	if status := httpclient.StatusOf(err); status > 0 {
		return &wrapped{api: parseAPIError(status, httpclient.BodyOf(err)), cause: err}
	}
	return fmt.Errorf("supabase: %w", err)
}

// wrapped keeps both the API error and the transport error reachable with
// errors.As.
type wrapped struct {
	api   *APIError
	cause error
}

func (w *wrapped) Error() string   { return w.api.Error() }
func (w *wrapped) Unwrap() []error { return []error{w.api, w.cause} }
func (w *wrapped) Reason() string  { return w.api.Reason() }

// Health probes the GoTrue health endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: healthPath})
	if err != nil {
		return fmt.Errorf("supabase: health: %w", err)
	}
	return nil
}

// BreakerState reports the circuit breaker guarding the API.
func (c *Client) BreakerState() resilience.BreakerState {
	return c.http.Breaker().State()
}

// URL returns the project URL.
func (c *Client) URL() string { return c.cfg.URL }
