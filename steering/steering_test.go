package steering_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/skirmish/kinematics"
	"github.com/plus3/skirmish/steering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = float32(1.0 / 60.0)

// angleTo is the unsigned angle between t's forward axis and the direction to target.
func angleTo(t kinematics.Transform, target mgl32.Vec2) float64 {
	f := t.Forward()
	d := target.Sub(t.Position)
	cross := float64(f[0])*float64(d[1]) - float64(f[1])*float64(d[0])
	dot := float64(f[0])*float64(d[0]) + float64(f[1])*float64(d[1])
	return math.Abs(math.Atan2(cross, dot))
}

func TestSnapFacesTarget(t *testing.T) {
	targets := []mgl32.Vec2{
		{10, 0}, {-10, 0}, {0, 10}, {0, -10}, {3, 4}, {-7, 2}, {-0.001, -500},
	}

	for _, target := range targets {
		tr := kinematics.Facing(mgl32.Vec2{0, 0}, 1.3)
		q, changed := steering.Snap(tr, target)
		require.True(t, changed)
		tr.Rotation = q

		want, _ := steering.Direction(tr.Position, target)
		got := tr.Forward()
		assert.InDelta(t, want[0], got[0], 1e-5, "target %v", target)
		assert.InDelta(t, want[1], got[1], 1e-5, "target %v", target)
		assert.InDelta(t, 1, q.Len(), 1e-5)
	}
}

func TestSnapIsIdempotent(t *testing.T) {
	tr := kinematics.At(5, 5)
	target := mgl32.Vec2{-20, 13}

	steering.Apply(steering.NewInstantSnap(), &tr, target, dt)
	first := tr.Rotation
	steering.Apply(steering.NewInstantSnap(), &tr, target, dt)
	assert.True(t, first.ApproxEqualThreshold(tr.Rotation, 1e-6))
}

func TestSnapDirectlyBehindStaysInPlane(t *testing.T) {
	tr := kinematics.At(0, 0)
	q, changed := steering.Snap(tr, mgl32.Vec2{0, -10})
	require.True(t, changed)
	tr.Rotation = q

	assert.InDelta(t, 0, q.V[0], 1e-6)
	assert.InDelta(t, 0, q.V[1], 1e-6)
	assert.InDelta(t, -1, tr.Forward()[1], 1e-5)
}

func TestZeroLengthDirectionIsNoOp(t *testing.T) {
	start := kinematics.Facing(mgl32.Vec2{2, 2}, 0.7)

	for _, b := range []steering.Behavior{steering.NewInstantSnap(), steering.NewPursuit(math.Pi)} {
		t.Run(b.Kind.String(), func(t *testing.T) {
			tr := start
			changed := steering.Apply(b, &tr, mgl32.Vec2{2, 2}, dt)
			assert.False(t, changed)
			assert.Equal(t, start, tr)
		})
	}
}

func TestPursueAlignedIsUnchanged(t *testing.T) {
	tr := kinematics.At(0, 0)
	q, changed := steering.Pursue(tr, mgl32.Vec2{0, 100}, math.Pi, dt)
	assert.False(t, changed)
	assert.Equal(t, tr.Rotation, q)
}

func TestPursueRotationSign(t *testing.T) {
	tests := []struct {
		name   string
		target mgl32.Vec2
		// sign of the heading change; positive is counter-clockwise
		wantSign float32
	}{
		{"target on +X turns clockwise", mgl32.Vec2{10, 0}, -1},
		{"target on -X turns counter-clockwise", mgl32.Vec2{-10, 0}, 1},
		{"target directly behind turns clockwise", mgl32.Vec2{0, -10}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := kinematics.At(0, 0)
			changed := steering.Apply(steering.NewPursuit(math.Pi/2), &tr, tt.target, dt)
			require.True(t, changed)

			step := float64(math.Pi / 2 * dt)
			assert.InDelta(t, float64(tt.wantSign)*step, tr.Heading(), 1e-5)
		})
	}
}

func TestPursueConvergesWithoutOvershoot(t *testing.T) {
	target := mgl32.Vec2{-40, -25}
	speed := float32(math.Pi / 4)
	tr := kinematics.Facing(mgl32.Vec2{0, 0}, 0.2)

	prev := angleTo(tr, target)
	for i := 0; i < 1000; i++ {
		steering.Apply(steering.NewPursuit(speed), &tr, target, dt)
		cur := angleTo(tr, target)
		// float32 acos near 1 limits resolution to roughly 5e-4 rad
		require.LessOrEqual(t, cur, prev+1e-3, "angle must not grow at tick %d", i)
		require.LessOrEqual(t, prev-cur, float64(speed*dt)+1e-3, "step exceeds rate limit at tick %d", i)
		prev = cur
	}
	assert.InDelta(t, 0, prev, 1e-3)

	// once aligned further ticks keep it aligned
	before := tr.Rotation
	steering.Apply(steering.NewPursuit(speed), &tr, target, dt)
	assert.True(t, before.ApproxEqualThreshold(tr.Rotation, 1e-3))
}

func TestPursueClampsToRemainingAngle(t *testing.T) {
	tr := kinematics.At(0, 0)
	target := mgl32.Vec2{-1, 10}

	// a huge speed lands exactly on target rather than past it
	steering.Apply(steering.NewPursuit(1000), &tr, target, dt)
	want, _ := steering.Direction(tr.Position, target)
	got := tr.Forward()
	assert.InDelta(t, want[0], got[0], 1e-4)
	assert.InDelta(t, want[1], got[1], 1e-4)
}

func TestSteeringNeverMovesPosition(t *testing.T) {
	tr := kinematics.At(7, -3)
	steering.Apply(steering.NewPursuit(2), &tr, mgl32.Vec2{100, 100}, dt)
	steering.Apply(steering.NewInstantSnap(), &tr, mgl32.Vec2{-100, 100}, dt)
	assert.Equal(t, mgl32.Vec2{7, -3}, tr.Position)
}

func TestUnknownKindPanics(t *testing.T) {
	tr := kinematics.At(0, 0)
	assert.Panics(t, func() {
		steering.Apply(steering.Behavior{Kind: 42}, &tr, mgl32.Vec2{1, 1}, dt)
	})
	assert.Equal(t, "Kind(42)", steering.Kind(42).String())
}

func BenchmarkPursue(b *testing.B) {
	tr := kinematics.Facing(mgl32.Vec2{0, 0}, 2)
	target := mgl32.Vec2{30, -12}
	for b.Loop() {
		q, _ := steering.Pursue(tr, target, 1, dt)
		_ = q
	}
}
