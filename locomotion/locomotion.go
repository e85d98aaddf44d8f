// Package locomotion moves self-propelled entities along their forward axis.
package locomotion

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/skirmish/kinematics"
)

// Profile is a locomotion component. MovementSpeed is in units per second.
type Profile struct {
	MovementSpeed float32
}

// Displacement returns how far t moves in one tick of dt seconds.
func Displacement(t kinematics.Transform, p Profile, dt float32) mgl32.Vec2 {
	return t.Forward().Mul(p.MovementSpeed * dt)
}

// Advance moves t along its forward axis. Orientation is never touched.
func Advance(t *kinematics.Transform, p Profile, dt float32) {
	t.Position = t.Position.Add(Displacement(*t, p, dt))
}
