package ecs

import "time"

// SurplusPolicy decides what a FixedStep does with wall-clock time beyond one step.
type SurplusPolicy int

const (
	// DropSurplus runs at most one step per Advance. Up to one step of backlog is
	// kept for the next Advance; whole steps beyond that are discarded.
	DropSurplus SurplusPolicy = iota
	// Accumulate runs as many whole steps as have elapsed, up to MaxSteps, and
	// carries the remainder into the next Advance.
	Accumulate
)

func (p SurplusPolicy) String() string {
	switch p {
	case DropSurplus:
		return "drop"
	case Accumulate:
		return "accumulate"
	default:
		return "unknown"
	}
}

// FixedStep turns variable wall-clock intervals into a count of fixed-duration steps.
type FixedStep struct {
	Step   time.Duration
	Policy SurplusPolicy
	// MaxSteps caps the steps returned by one Advance under Accumulate; 0 means no cap.
	MaxSteps int

	carry time.Duration
}

// NewFixedStep creates a clock with the given step and policy.
func NewFixedStep(step time.Duration, policy SurplusPolicy, maxSteps int) *FixedStep {
	if step <= 0 {
		panic("fixed step must be positive")
	}
	return &FixedStep{Step: step, Policy: policy, MaxSteps: maxSteps}
}

// Seconds returns the step duration in seconds.
func (c *FixedStep) Seconds() float64 {
	return c.Step.Seconds()
}

// Advance records elapsed wall-clock time and returns how many fixed steps to run.
func (c *FixedStep) Advance(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	c.carry += elapsed

	if c.carry < c.Step {
		return 0
	}

	if c.Policy == DropSurplus {
		c.carry -= c.Step
		if c.carry > c.Step {
			c.carry %= c.Step
		}
		return 1
	}

	steps := int(c.carry / c.Step)
	if c.MaxSteps > 0 && steps > c.MaxSteps {
		steps = c.MaxSteps
		c.carry %= c.Step
		return steps
	}
	c.carry -= time.Duration(steps) * c.Step
	return steps
}

// Pending returns the carried time not yet consumed by a step.
func (c *FixedStep) Pending() time.Duration {
	return c.carry
}
