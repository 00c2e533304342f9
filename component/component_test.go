package component

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockComponent{name: "sse"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "sse"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "sessions"})

	got := r.Get("sessions")
	if got == nil || got.Name() != "sessions" {
		t.Fatalf("expected registered component, got %v", got)
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unregistered component")
	}
	if len(r.All()) != 1 {
		t.Errorf("expected 1 component, got %d", len(r.All()))
	}
}

func TestStartAllInOrder(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	_ = r.Register(&mockComponent{name: "sse", startOrder: &order})
	_ = r.Register(&mockComponent{name: "sessions", startOrder: &order})
	_ = r.Register(&mockComponent{name: "http-server", startOrder: &order})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	want := []string{"sse", "sessions", "http-server"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("expected start order %v, got %v", want, order)
	}
}

func TestStartAllStopsAtFirstError(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	_ = r.Register(&mockComponent{name: "supabase", startOrder: &order, startErr: fmt.Errorf("invalid key")})
	_ = r.Register(&mockComponent{name: "http-server", startOrder: &order})

	if err := r.StartAll(context.Background()); err == nil {
		t.Fatal("expected error from StartAll")
	}
	if len(order) != 1 {
		t.Errorf("expected start to stop after the failure, got %v", order)
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	_ = r.Register(&mockComponent{name: "sse", stopOrder: &order})
	_ = r.Register(&mockComponent{name: "sessions", stopOrder: &order})
	_ = r.Register(&mockComponent{name: "http-server", stopOrder: &order})

	_ = r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	want := []string{"http-server", "sessions", "sse"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("expected stop order %v, got %v", want, order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	_ = r.Register(&mockComponent{name: "sse", stopOrder: &order})

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected no stops for unstarted components, got %v", order)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "a", stopErr: fmt.Errorf("a failed")})
	_ = r.Register(&mockComponent{name: "b", stopErr: fmt.Errorf("b failed")})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected error from StopAll")
	}
	for _, want := range []string{"a failed", "b failed"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}

func TestHealthAllFillsNames(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "sse", health: Health{Status: StatusHealthy}})
	_ = r.Register(&mockComponent{name: "supabase", health: Health{Name: "supabase", Status: StatusDegraded, Message: "breaker half-open"}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "sse" {
		t.Errorf("expected name to default to component name, got %q", results[0].Name)
	}
	if got := Aggregate(results); got != StatusDegraded {
		t.Errorf("expected degraded, got %s", got)
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name string
		in   []HealthStatus
		want HealthStatus
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []HealthStatus{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"degraded", []HealthStatus{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []HealthStatus{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var hs []Health
			for _, s := range tc.in {
				hs = append(hs, Health{Status: s})
			}
			if got := Aggregate(hs); got != tc.want {
				t.Errorf("Aggregate = %s, want %s", got, tc.want)
			}
		})
	}
}
