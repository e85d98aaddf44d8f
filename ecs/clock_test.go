package ecs_test

import (
	"testing"
	"time"

	"github.com/plus3/skirmish/ecs"
	"github.com/stretchr/testify/assert"
)

func TestFixedStepDropSurplus(t *testing.T) {
	clock := ecs.NewFixedStep(16*time.Millisecond, ecs.DropSurplus, 0)

	assert.Equal(t, 0, clock.Advance(10*time.Millisecond))
	assert.Equal(t, 10*time.Millisecond, clock.Pending())

	assert.Equal(t, 1, clock.Advance(10*time.Millisecond))
	assert.Equal(t, 4*time.Millisecond, clock.Pending())

	// a long stall still produces a single step and keeps only the fraction
	assert.Equal(t, 1, clock.Advance(time.Second))
	assert.Equal(t, 12*time.Millisecond, clock.Pending())
}

func TestFixedStepDropSurplusKeepsRateUnderJitter(t *testing.T) {
	step := 16 * time.Millisecond
	clock := ecs.NewFixedStep(step, ecs.DropSurplus, 0)

	steps := 0
	for i := range 60 {
		wake := step - time.Microsecond
		if i%2 == 1 {
			wake = step + time.Microsecond
		}
		steps += clock.Advance(wake)
	}

	// only the first, early wake-up comes up short
	assert.Equal(t, 59, steps)
	assert.Equal(t, step, clock.Pending())
}

func TestFixedStepDropSurplusKeepsOneStepOfBacklog(t *testing.T) {
	clock := ecs.NewFixedStep(10*time.Millisecond, ecs.DropSurplus, 0)

	assert.Equal(t, 1, clock.Advance(20*time.Millisecond))
	assert.Equal(t, 10*time.Millisecond, clock.Pending())
	assert.Equal(t, 1, clock.Advance(0))
	assert.Zero(t, clock.Pending())
	assert.Equal(t, 0, clock.Advance(0))
}

func TestFixedStepAccumulate(t *testing.T) {
	clock := ecs.NewFixedStep(10*time.Millisecond, ecs.Accumulate, 0)

	assert.Equal(t, 3, clock.Advance(35*time.Millisecond))
	assert.Equal(t, 5*time.Millisecond, clock.Pending())

	assert.Equal(t, 1, clock.Advance(5*time.Millisecond))
	assert.Zero(t, clock.Pending())
}

func TestFixedStepAccumulateCap(t *testing.T) {
	clock := ecs.NewFixedStep(10*time.Millisecond, ecs.Accumulate, 4)

	assert.Equal(t, 4, clock.Advance(time.Second+3*time.Millisecond))
	assert.Equal(t, 3*time.Millisecond, clock.Pending(), "capped backlog is discarded")
}

func TestFixedStepIgnoresNegativeElapsed(t *testing.T) {
	clock := ecs.NewFixedStep(10*time.Millisecond, ecs.Accumulate, 0)
	assert.Equal(t, 0, clock.Advance(-time.Second))
	assert.Zero(t, clock.Pending())
}

func TestFixedStepRejectsNonPositiveStep(t *testing.T) {
	assert.Panics(t, func() { ecs.NewFixedStep(0, ecs.DropSurplus, 0) })
	assert.Panics(t, func() { ecs.NewFixedStep(-time.Millisecond, ecs.Accumulate, 0) })
}

func TestSurplusPolicyString(t *testing.T) {
	assert.Equal(t, "drop", ecs.DropSurplus.String())
	assert.Equal(t, "accumulate", ecs.Accumulate.String())
	assert.Equal(t, "unknown", ecs.SurplusPolicy(9).String())
}

func TestFixedStepSeconds(t *testing.T) {
	clock := ecs.NewFixedStep(20*time.Millisecond, ecs.DropSurplus, 0)
	assert.InDelta(t, 0.02, clock.Seconds(), 1e-12)
}
