package cli

import (
	"context"
	"fmt"
)

// StepPolicy decides what a step failure means for the run
type StepPolicy int

const (
	// Fatal failures stop the installation
	Fatal StepPolicy = iota
	// BestEffort failures are reported and the installation continues
	BestEffort
)

func (p StepPolicy) String() string {
	if p == BestEffort {
		return "best-effort"
	}
	return "fatal"
}

// StepStatus is the outcome of one step
type StepStatus string

const (
	StatusOK       StepStatus = "ok"
	StatusDegraded StepStatus = "degraded"
	StatusSkipped  StepStatus = "skipped"
	StatusFailed   StepStatus = "failed"
)

// StepResult records how a step ended
type StepResult struct {
	Step   string
	Status StepStatus
	Err    error
}

// Detail is the human readable note shown next to the status
func (r StepResult) Detail() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return ""
}

// step is one unit of the installation. run returns StatusSkipped when
// there was nothing to do.
type step struct {
	name   string
	title  string
	policy StepPolicy
	run    func(ctx context.Context) (StepStatus, error)
}

// resolve applies the termination policy to a step's outcome
func resolve(s step, status StepStatus, err error) (StepResult, error) {
	if err == nil {
		if status == "" {
			status = StatusOK
		}
		return StepResult{Step: s.name, Status: status}, nil
	}
	if s.policy == BestEffort {
		return StepResult{Step: s.name, Status: StatusDegraded, Err: err}, nil
	}
	return StepResult{Step: s.name, Status: StatusFailed, Err: err}, fmt.Errorf("step %s failed: %w", s.name, err)
}
