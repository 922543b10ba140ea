// Package retry runs a boolean check under a bounded retry policy. Waiting is
// delegated to a Clock so callers can run the loop without real sleeps.
package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrExhausted is returned when every attempt failed
var ErrExhausted = errors.New("retry attempts exhausted")

// Strategy selects how the wait between attempts evolves
type Strategy string

const (
	Fixed       Strategy = "fixed"
	Exponential Strategy = "exponential"
)

// ParseStrategy accepts "fixed" or "exponential"
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case Fixed, "":
		return Fixed, nil
	case Exponential:
		return Exponential, nil
	default:
		return "", fmt.Errorf("unknown retry strategy %q (expected fixed or exponential)", s)
	}
}

// Policy bounds a retry loop
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	MaxDelay    time.Duration
	Strategy    Strategy
}

// Validate reports a policy that could never run a check
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.Delay < 0 {
		return fmt.Errorf("delay cannot be negative: %v", p.Delay)
	}
	return nil
}

// Delays returns the waits that separate the policy's attempts. The
// exponential strategy doubles the wait after each attempt up to MaxDelay,
// or up to Delay when MaxDelay is smaller.
func (p Policy) Delays() []time.Duration {
	if p.MaxAttempts <= 1 {
		return nil
	}
	ceiling := max(p.MaxDelay, p.Delay)

	delays := make([]time.Duration, 0, p.MaxAttempts-1)
	wait := p.Delay
	for i := 1; i < p.MaxAttempts; i++ {
		delays = append(delays, wait)
		if p.Strategy != Exponential {
			continue
		}
		if wait > ceiling/2 {
			wait = ceiling
		} else {
			wait *= 2
		}
	}
	return delays
}

// Clock suspends the retry loop between attempts
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock sleeps on a timer and wakes early when ctx is done
type RealClock struct{}

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Check reports whether the awaited condition holds. attempt is 1-based.
type Check func(ctx context.Context, attempt int) bool

// Notify is told about each upcoming attempt and the wait before it
type Notify func(next int, wait time.Duration)

// Do runs check until it reports true or the policy is exhausted. It returns
// the number of attempts made. A nil clock means RealClock, a nil notify is
// ignored.
func Do(ctx context.Context, p Policy, clock Clock, check Check, notify Notify) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if clock == nil {
		clock = RealClock{}
	}

	delays := p.Delays()
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}
		if check(ctx, attempt) {
			return attempt, nil
		}
		if attempt == p.MaxAttempts {
			break
		}

		wait := delays[attempt-1]
		if notify != nil {
			notify(attempt+1, wait)
		}
		if err := clock.Sleep(ctx, wait); err != nil {
			return attempt, err
		}
	}

	return p.MaxAttempts, fmt.Errorf("%w after %d attempts", ErrExhausted, p.MaxAttempts)
}
