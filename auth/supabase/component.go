package supabase

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/signup/component"
	"github.com/kbukum/signup/logger"
	"github.com/kbukum/signup/resilience"
	"github.com/kbukum/signup/util"
)

const healthTimeout = 3 * time.Second

// Component exposes a Client to the lifecycle registry. It owns no
// resources; Start checks that the project answers.
type Component struct {
	client *Client
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent wraps client.
func NewComponent(client *Client) *Component {
	return &Component{client: client}
}

func (c *Component) Name() string { return "supabase" }

// Start probes the health endpoint. An unreachable project is logged, not
// fatal: the breaker takes over once signups start failing.
func (c *Component) Start(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := c.client.Health(ctx); err != nil {
		c.client.log.Warn("supabase not reachable at startup", logger.Fields(
			"url", c.client.URL(), logger.FieldError, err.Error()))
	}
	return nil
}

func (c *Component) Stop(context.Context) error { return nil }

// Health is degraded while the breaker is not closed and unhealthy when
// the project does not answer.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if state := c.client.BreakerState(); state != resilience.StateClosed {
		h.Status = component.StatusDegraded
		h.Message = "circuit breaker " + state.String()
		return h
	}
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := c.client.Health(ctx); err != nil {
		h.Status = component.StatusUnhealthy
		h.Message = err.Error()
	}
	return h
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Supabase Auth",
		Type:    "provider",
		Details: fmt.Sprintf("%s (key %s)", c.client.URL(), util.MaskSecret(c.client.cfg.Key, 6)),
	}
}
