package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/nixopus/installer/internal/retry"
	"github.com/nixopus/installer/internal/ui"
)

// HealthChecker performs a single health check
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthPoller waits for the API to report healthy
type HealthPoller struct {
	ui      *ui.UI
	checker HealthChecker
	policy  retry.Policy
	clock   retry.Clock
	settle  time.Duration
	target  string
}

// NewHealthPoller creates a new HealthPoller instance. settle is waited once
// before the first check.
func NewHealthPoller(ui *ui.UI, checker HealthChecker, policy retry.Policy, clock retry.Clock, settle time.Duration, target string) *HealthPoller {
	if clock == nil {
		clock = retry.RealClock{}
	}
	return &HealthPoller{
		ui:      ui,
		checker: checker,
		policy:  policy,
		clock:   clock,
		settle:  settle,
		target:  target,
	}
}

// Run returns nil once a check succeeds and an error wrapping
// retry.ErrExhausted when every attempt failed.
func (h *HealthPoller) Run(ctx context.Context) error {
	if h.settle > 0 {
		h.ui.Infof("Waiting %s for services to settle...", h.settle)
		if err := h.clock.Sleep(ctx, h.settle); err != nil {
			return err
		}
	}

	check := func(ctx context.Context, attempt int) bool {
		h.ui.Infof("Checking API status at %s...", h.target)
		return h.checker.Healthy(ctx)
	}
	notify := func(next int, wait time.Duration) {
		h.ui.Infof("Retrying API status check (attempt %d/%d)...", next, h.policy.MaxAttempts)
	}

	attempts, err := retry.Do(ctx, h.policy, h.clock, check, notify)
	if err != nil {
		h.ui.Warningf("API did not become healthy after %d attempts", attempts)
		return fmt.Errorf("API health check: %w", err)
	}

	h.ui.Success("API is up")
	return nil
}
