// Package resilience holds the failure-handling patterns used around the
// signup provider and the public HTTP surface: Retry with exponential
// backoff, a CircuitBreaker, a Bulkhead bounding concurrent calls, and
// token-bucket rate limiters (single and per key).
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("supabase"))
//	user, err := resilience.Retry(ctx, retryCfg, func() (*User, error) {
//	    var u *User
//	    err := cb.Execute(func() error {
//	        var err error
//	        u, err = call(ctx)
//	        return err
//	    })
//	    return u, err
//	})
package resilience
