package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRateLimiterRefill(t *testing.T) {
	clk := &clock{t: time.Unix(0, 0)}
	l := newRateLimiter(1, 2, clk.now)

	if !l.Allow() || !l.Allow() {
		t.Fatal("burst of 2 should be allowed")
	}
	if l.Allow() {
		t.Fatal("third call should be limited")
	}
	clk.advance(time.Second)
	if !l.Allow() {
		t.Error("one token should refill after a second")
	}
}

func TestKeyedLimiter(t *testing.T) {
	clk := &clock{t: time.Unix(0, 0)}
	k := NewKeyedLimiter(60, 1)
	k.now = clk.now

	if !k.Allow("1.2.3.4") {
		t.Fatal("first request allowed")
	}
	if k.Allow("1.2.3.4") {
		t.Error("second request from the same key should be limited")
	}
	if !k.Allow("5.6.7.8") {
		t.Error("other keys have their own bucket")
	}
	if k.Len() != 2 {
		t.Errorf("expected 2 buckets, got %d", k.Len())
	}

	clk.advance(time.Second)
	if removed := k.Sweep(); removed != 2 {
		t.Errorf("expected both refilled buckets to be swept, got %d", removed)
	}
	if k.Len() != 0 {
		t.Errorf("expected no buckets, got %d", k.Len())
	}
}

func TestBulkhead(t *testing.T) {
	b := NewBulkhead("signup", 1, 0)
	hold := make(chan struct{})
	started := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-hold
			return nil
		})
	}()
	<-started

	if b.InUse() != 1 || b.Capacity() != 1 {
		t.Errorf("unexpected usage %d/%d", b.InUse(), b.Capacity())
	}
	if err := b.Execute(context.Background(), func() error { return nil }); !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("expected ErrBulkheadFull, got %v", err)
	}
	close(hold)
	wg.Wait()
	if err := b.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Errorf("slot should be free again, got %v", err)
	}
}

func TestBulkheadWaitsForSlot(t *testing.T) {
	b := NewBulkhead("signup", 1, time.Second)
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()
	if err := b.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Errorf("expected to get a slot after waiting, got %v", err)
	}
}
