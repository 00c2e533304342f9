package httpclient

import (
	"context"
	"encoding/pem"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/signup/resilience"
	"github.com/kbukum/signup/security"
)

func TestDoSendsJSONWithAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("redirect_to") != "https://app/welcome" {
			t.Errorf("missing query, got %q", r.URL.RawQuery)
		}
		if r.Header.Get("apikey") != "anon" || r.Header.Get("Authorization") != "Bearer anon" {
			t.Errorf("missing auth headers: %v", r.Header)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"email":"a@b.co"}` {
			t.Errorf("unexpected body %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u-1"}`))
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL + "/",
		Auth:    APIKeyAuth("apikey", "anon").With(BearerAuth("anon")),
	})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/auth/v1/signup",
		Query:  map[string]string{"redirect_to": "https://app/welcome"},
		Body:   map[string]string{"email": "a@b.co"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	var out struct{ ID string }
	if err := resp.JSON(&out); err != nil || out.ID != "u-1" {
		t.Errorf("decode: %v %+v", err, out)
	}
	if !resp.IsSuccess() {
		t.Error("expected success")
	}
}

func TestDoClassifiesStatus(t *testing.T) {
	tests := []struct {
		status    int
		kind      ErrorKind
		retryable bool
	}{
		{http.StatusBadRequest, KindClient, false},
		{http.StatusUnprocessableEntity, KindClient, false},
		{http.StatusUnauthorized, KindAuth, false},
		{http.StatusNotFound, KindNotFound, false},
		{http.StatusTooManyRequests, KindRateLimit, true},
		{http.StatusServiceUnavailable, KindServer, true},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"msg":"nope"}`))
			}))
			defer srv.Close()

			c, _ := New(Config{BaseURL: srv.URL})
			resp, err := c.Do(context.Background(), Request{Path: "/x"})
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if e.Kind != tc.kind || e.Retryable != tc.retryable || e.StatusCode != tc.status {
				t.Errorf("got kind=%s retryable=%v status=%d", e.Kind, e.Retryable, e.StatusCode)
			}
			if resp == nil || string(resp.Body) != `{"msg":"nope"}` {
				t.Errorf("response should be returned with the error")
			}
			if string(BodyOf(err)) != `{"msg":"nope"}` || StatusOf(err) != tc.status {
				t.Error("error should carry body and status")
			}
		})
	}
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	retry := DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	c, _ := New(Config{BaseURL: srv.URL, Retry: retry})
	if _, err := c.Do(context.Background(), Request{Path: "/"}); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	retry := DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	c, _ := New(Config{BaseURL: srv.URL, Retry: retry})
	_, err := c.Do(context.Background(), Request{Path: "/"})
	if StatusOf(err) != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("client errors must not be retried, got %d calls", calls.Load())
	}
}

func TestDoCircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cb := DefaultCircuitBreakerConfig("test")
	cb.MaxFailures = 2
	cb.Timeout = time.Hour
	c, _ := New(Config{BaseURL: srv.URL, CircuitBreaker: cb})
	for range 2 {
		_, _ = c.Do(context.Background(), Request{Path: "/"})
	}
	_, err := c.Do(context.Background(), Request{Path: "/"})
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Errorf("expected open circuit, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls to reach the server, got %d", calls.Load())
	}
	if c.Breaker().State() != resilience.StateOpen {
		t.Error("breaker should report open")
	}
}

func TestDoConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := New(Config{BaseURL: url, Timeout: time.Second})
	_, err := c.Do(context.Background(), Request{Path: "/"})
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindConnection || !e.Retryable {
		t.Fatalf("expected retryable connection error, got %v", err)
	}
	if e.Sent || !IsUndelivered(err) {
		t.Errorf("a refused dial never reaches the server, got sent=%v", e.Sent)
	}
}

func TestIsUndelivered(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	c, _ := New(Config{BaseURL: slow.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/", Body: map[string]string{"a": "b"}})
	var e *Error
	if !errors.As(err, &e) || !e.Sent {
		t.Fatalf("expected a sent request to time out, got %v", err)
	}
	if IsUndelivered(err) {
		t.Error("a request the server read is delivered")
	}

	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusServiceUnavailable, false},
		{http.StatusBadRequest, false},
	}
	for _, tc := range tests {
		if got := IsUndelivered(ClassifyStatus(tc.status, nil)); got != tc.want {
			t.Errorf("IsUndelivered(%d) = %v, want %v", tc.status, got, tc.want)
		}
	}
	if IsUndelivered(errors.New("plain")) {
		t.Error("plain errors are not classified")
	}
}

func TestDoRequestRetryIfOverridesClient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	retry := DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	c, _ := New(Config{BaseURL: srv.URL, Retry: retry})
	_, _ = c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/", RetryIf: IsUndelivered})
	if calls.Load() != 1 {
		t.Errorf("expected one attempt, got %d", calls.Load())
	}
}

func TestDoContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.Do(ctx, Request{Path: "/"})
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindTimeout || IsRetryable(err) {
		t.Errorf("expected non-retryable timeout, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"valid url", Config{BaseURL: "https://x.supabase.co"}, false},
		{"relative url", Config{BaseURL: "x.supabase.co"}, true},
		{"negative concurrency", Config{MaxConcurrent: -1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
	if _, err := New(Config{BaseURL: "::"}); err == nil {
		t.Error("New should reject an invalid config")
	}
}

func TestAuthWith(t *testing.T) {
	a := APIKeyAuth("apikey", "k").With(BearerAuth("t"))
	if a.Bearer != "t" || a.Headers["apikey"] != "k" {
		t.Errorf("unexpected merge %+v", a)
	}
	var nilAuth *AuthConfig
	if merged := nilAuth.With(nil); merged.Bearer != "" || len(merged.Headers) != 0 {
		t.Errorf("nil merge should be empty, got %+v", merged)
	}
}

func TestErrorString(t *testing.T) {
	if got := ClassifyStatus(503, nil).Error(); got != "httpclient: server (HTTP 503)" {
		t.Errorf("unexpected message %q", got)
	}
	if ClassifyStatus(204, nil) != nil {
		t.Error("2xx should not be an error")
	}
	if ErrorKind(99).String() != "unknown" {
		t.Error("unexpected kind name")
	}
}

func TestDoTrustsConfiguredCA(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	caFile := filepath.Join(t.TempDir(), "ca.pem")
	caPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(caFile, caPEM, 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := New(Config{BaseURL: srv.URL, TLS: &security.TLSConfig{CAFile: caFile}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/auth/v1/health"}); err != nil {
		t.Fatalf("expected private CA to be trusted: %v", err)
	}

	if _, err := New(Config{TLS: &security.TLSConfig{CertFile: "cert.pem"}}); err == nil {
		t.Error("expected cert without key to be rejected")
	}
}
