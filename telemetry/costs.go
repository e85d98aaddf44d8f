package telemetry

import (
	"math"
	"math/rand/v2"
	"slices"
)

// CostSampleSize bounds the tick costs kept for the session quantiles. Sessions up
// to this many ticks are summarized exactly.
const CostSampleSize = 1 << 14

// costSample is a reservoir of tick costs in microseconds. Mean, deviation and max
// are tracked over every tick; only the quantiles come from the reservoir.
type costSample struct {
	values []float64
	seen   int
	rng    *rand.Rand

	mean float64
	m2   float64
	max  float64
}

func newCostSample() costSample {
	return costSample{rng: rand.New(rand.NewPCG(0x5eed, 0xc057))}
}

func (c *costSample) add(us float64) {
	c.seen++
	delta := us - c.mean
	c.mean += delta / float64(c.seen)
	c.m2 += delta * (us - c.mean)
	c.max = math.Max(c.max, us)

	if len(c.values) < CostSampleSize {
		c.values = append(c.values, us)
		return
	}
	if i := c.rng.IntN(c.seen); i < CostSampleSize {
		c.values[i] = us
	}
}

func (c *costSample) stdDev() float64 {
	if c.seen < 2 {
		return 0
	}
	return math.Sqrt(c.m2 / float64(c.seen-1))
}

func (c *costSample) sorted() []float64 {
	out := slices.Clone(c.values)
	slices.Sort(out)
	return out
}
