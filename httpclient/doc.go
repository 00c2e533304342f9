// Package httpclient is the outbound HTTP client used for the signup
// provider. It encodes JSON bodies, applies authentication headers,
// classifies failed responses into *Error, and optionally wraps each call
// in retry, circuit breaker and bulkhead from package resilience.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://project.supabase.co",
//	    Timeout: 10 * time.Second,
//	    Retry:   httpclient.DefaultRetryConfig(),
//	})
//	resp, err := client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/auth/v1/health"})
package httpclient
