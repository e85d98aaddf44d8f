// Package kinematics holds the planar position and orientation shared by every moving
// entity. Orientation is a unit quaternion about the plane normal (+Z); the canonical
// forward axis is +Y and the right axis is +X.
package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ForwardAxis is the direction an unrotated entity faces.
	ForwardAxis = mgl32.Vec3{0, 1, 0}
	// RightAxis is the direction to the right of an unrotated entity.
	RightAxis = mgl32.Vec3{1, 0, 0}
	// Normal is the plane normal all rotations happen about.
	Normal = mgl32.Vec3{0, 0, 1}
)

// Transform is an entity's kinematic state.
type Transform struct {
	Position mgl32.Vec2
	Rotation mgl32.Quat
}

// At returns an unrotated transform at (x, y).
func At(x, y float32) Transform {
	return Transform{
		Position: mgl32.Vec2{x, y},
		Rotation: mgl32.QuatIdent(),
	}
}

// Facing returns a transform at pos whose forward axis is rotated by heading radians
// counter-clockwise from +Y.
func Facing(pos mgl32.Vec2, heading float32) Transform {
	return Transform{Position: pos, Rotation: FromHeading(heading)}
}

// FromHeading returns the rotation of heading radians about +Z.
func FromHeading(heading float32) mgl32.Quat {
	return mgl32.QuatRotate(heading, Normal)
}

// Heading returns the signed angle, in (-π, π], of a rotation about +Z.
func Heading(q mgl32.Quat) float32 {
	h := 2 * math.Atan2(float64(q.V[2]), float64(q.W))
	if h > math.Pi {
		h -= 2 * math.Pi
	} else if h <= -math.Pi {
		h += 2 * math.Pi
	}
	return float32(h)
}

// Forward returns the unit forward vector in the plane.
func (t Transform) Forward() mgl32.Vec2 {
	return t.Rotation.Rotate(ForwardAxis).Vec2()
}

// Right returns the unit right vector in the plane.
func (t Transform) Right() mgl32.Vec2 {
	return t.Rotation.Rotate(RightAxis).Vec2()
}

// Heading returns the transform's angle about +Z.
func (t Transform) Heading() float32 {
	return Heading(t.Rotation)
}

// RotateZ applies a further rotation of angle radians about +Z and renormalizes.
func (t *Transform) RotateZ(angle float32) {
	t.Rotation = mgl32.QuatRotate(angle, Normal).Mul(t.Rotation).Normalize()
}

// Translate moves the transform by delta.
func (t *Transform) Translate(delta mgl32.Vec2) {
	t.Position = t.Position.Add(delta)
}

// DistanceTo returns the euclidean distance between two positions.
func (t Transform) DistanceTo(other mgl32.Vec2) float32 {
	return other.Sub(t.Position).Len()
}
