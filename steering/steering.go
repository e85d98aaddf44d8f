// Package steering turns a tracking entity toward a target position. It only ever
// changes orientation; position and collision state are untouched.
package steering

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/skirmish/kinematics"
)

// Epsilon is the float32 machine epsilon, the tolerance for "already facing".
const Epsilon float32 = 1.1920929e-7

// Kind selects a steering behavior.
type Kind uint8

const (
	// InstantSnap faces the target immediately, every tick.
	InstantSnap Kind = iota
	// RateLimitedPursuit turns toward the target at a bounded angular speed.
	RateLimitedPursuit
)

func (k Kind) String() string {
	switch k {
	case InstantSnap:
		return "snap"
	case RateLimitedPursuit:
		return "pursuit"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Behavior is a steering component. RotationSpeed, in radians per second, is only
// read for RateLimitedPursuit.
type Behavior struct {
	Kind          Kind
	RotationSpeed float32
}

// NewInstantSnap returns an InstantSnap behavior.
func NewInstantSnap() Behavior {
	return Behavior{Kind: InstantSnap}
}

// NewPursuit returns a RateLimitedPursuit behavior turning at rotationSpeed rad/s.
func NewPursuit(rotationSpeed float32) Behavior {
	return Behavior{Kind: RateLimitedPursuit, RotationSpeed: rotationSpeed}
}

// Direction returns the unit vector from `from` to `to`. It reports false when the
// two points coincide and no direction exists.
func Direction(from, to mgl32.Vec2) (mgl32.Vec2, bool) {
	d := to.Sub(from)
	l := d.Len()
	if l == 0 {
		return mgl32.Vec2{}, false
	}
	return d.Mul(1 / l), true
}

// Snap returns the rotation about +Z that maps the forward axis onto the direction to
// target. When t already sits on target it returns t.Rotation and false.
func Snap(t kinematics.Transform, target mgl32.Vec2) (mgl32.Quat, bool) {
	d, ok := Direction(t.Position, target)
	if !ok {
		return t.Rotation, false
	}
	angle := float32(math.Atan2(float64(-d[0]), float64(d[1])))
	return kinematics.FromHeading(angle), true
}

// Pursue turns t toward target by at most rotationSpeed*dt radians without
// overshooting. It returns t.Rotation and false when t is already facing the target
// or sits on it.
func Pursue(t kinematics.Transform, target mgl32.Vec2, rotationSpeed, dt float32) (mgl32.Quat, bool) {
	d, ok := Direction(t.Position, target)
	if !ok {
		return t.Rotation, false
	}

	forwardDot := t.Forward().Dot(d)
	if mgl32.Abs(forwardDot-1) < Epsilon {
		return t.Rotation, false
	}

	// positive rotation about +Z is counter-clockwise; a target to the right
	// (or dead behind) turns clockwise
	sign := float32(1)
	if t.Right().Dot(d) >= 0 {
		sign = -1
	}

	maxAngle := float32(math.Acos(float64(mgl32.Clamp(forwardDot, -1, 1))))
	step := sign * min(rotationSpeed*dt, maxAngle)

	return mgl32.QuatRotate(step, kinematics.Normal).Mul(t.Rotation).Normalize(), true
}

// Apply updates t.Rotation according to b and reports whether it changed.
func Apply(b Behavior, t *kinematics.Transform, target mgl32.Vec2, dt float32) bool {
	var (
		q       mgl32.Quat
		changed bool
	)
	switch b.Kind {
	case InstantSnap:
		q, changed = Snap(*t, target)
	case RateLimitedPursuit:
		q, changed = Pursue(*t, target, b.RotationSpeed, dt)
	default:
		panic(fmt.Sprintf("steering: unknown behavior %v", b.Kind))
	}
	t.Rotation = q
	return changed
}
