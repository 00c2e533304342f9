package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/kbukum/signup/resilience"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 4 << 20

// Client sends requests with the configured auth and resilience.
type Client struct {
	http     *http.Client
	cfg      Config
	breaker  *resilience.CircuitBreaker
	bulkhead *resilience.Bulkhead
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// New creates a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, fmt.Errorf("httpclient: %w", err)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}
	c := &Client{
		http: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		cfg:  cfg,
	}
	if cfg.CircuitBreaker != nil {
		c.breaker = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	if cfg.MaxConcurrent > 0 {
		c.bulkhead = resilience.NewBulkhead("httpclient", cfg.MaxConcurrent, cfg.Timeout)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Breaker returns the circuit breaker, or nil when disabled.
func (c *Client) Breaker() *resilience.CircuitBreaker { return c.breaker }

// Do sends req. A non-2xx response is returned together with an *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	call := func() (*Response, error) { return c.attempt(ctx, req) }
	if c.cfg.Retry != nil {
		retry := *c.cfg.Retry
		if req.RetryIf != nil {
			retry.RetryIf = req.RetryIf
		}
		inner := call
		call = func() (*Response, error) { return resilience.Retry(ctx, retry, inner) }
	}
	if c.bulkhead == nil {
		return call()
	}
	var resp *Response
	err := c.bulkhead.Execute(ctx, func() error {
		var err error
		resp, err = call()
		return err
	})
	return resp, err
}

func (c *Client) attempt(ctx context.Context, req Request) (*Response, error) {
	if c.breaker == nil {
		return c.send(ctx, req)
	}
	var resp *Response
	err := c.breaker.Execute(func() error {
		var err error
		resp, err = c.send(ctx, req)
		return err
	})
	return resp, err
}

func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Err: err}
	}

	var sent atomic.Bool
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(httpReq.Context(), &httptrace.ClientTrace{
		WroteRequest: func(info httptrace.WroteRequestInfo) {
			if info.Err == nil {
				sent.Store(true)
			}
		},
	}))

	res, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &Error{Kind: KindTimeout, Sent: sent.Load(), Err: ctx.Err()}
		}
		return nil, &Error{Kind: KindConnection, Retryable: true, Sent: sent.Load(), Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, &Error{Kind: KindConnection, Retryable: true, Sent: true, Err: fmt.Errorf("read body: %w", err)}
	}
	resp := &Response{StatusCode: res.StatusCode, Header: res.Header, Body: body}
	if e := ClassifyStatus(res.StatusCode, body); e != nil {
		return resp, e
	}
	return resp, nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	target, err := c.resolve(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	contentType := ""
	switch b := req.Body.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	for k, v := range c.cfg.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	auth := c.cfg.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))
	return httpReq, nil
}

func (c *Client) resolve(path string, query map[string]string) (string, error) {
	target := path
	if c.cfg.BaseURL != "" && !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
