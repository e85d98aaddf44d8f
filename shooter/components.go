// Package shooter wires the motion and collision core into an ECS world: components,
// systems in their fixed tick order, spawning and the per-tick player lookup.
package shooter

import (
	"time"

	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/kinematics"
	"github.com/plus3/skirmish/locomotion"
	"github.com/plus3/skirmish/steering"
)

// Player tags the single player ship.
type Player struct{}

// Enemy tags hostile entities.
type Enemy struct{}

// Projectile tags shots fired by the player.
type Projectile struct{}

// Collidable gives an entity a collision circle.
type Collidable struct {
	Radius float32
}

// PlayerControl holds the player's handling. Cooldown counts the ticks left before
// the next shot is allowed.
type PlayerControl struct {
	MovementSpeed float32 // units/sec
	RotationSpeed float32 // rad/sec
	FireCooldown  int     // ticks between shots
	Cooldown      int
}

// Lifetime despawns an entity once Remaining seconds have elapsed.
type Lifetime struct {
	Remaining float32
}

// Score is the session's running tally.
type Score struct {
	Kills   int
	Fired   int
	Spawned int
	Expired int
}

// Clock tracks simulated time.
type Clock struct {
	Tick        uint64
	Elapsed     float64
	TickStarted time.Time
}

// Target is the player's state as resolved at the start of steering this tick.
type Target struct {
	Id        ecs.EntityId
	Transform kinematics.Transform
	Tick      uint64
}

// NewRegistry registers every component the game spawns.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Enemy](registry)
	ecs.RegisterComponent[Projectile](registry)
	ecs.RegisterComponent[Collidable](registry)
	ecs.RegisterComponent[PlayerControl](registry)
	ecs.RegisterComponent[Lifetime](registry)
	ecs.RegisterComponent[kinematics.Transform](registry)
	ecs.RegisterComponent[steering.Behavior](registry)
	ecs.RegisterComponent[locomotion.Profile](registry)
	return registry
}
