package shooter

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/skirmish/config"
	"github.com/plus3/skirmish/kinematics"
	"github.com/plus3/skirmish/locomotion"
	"github.com/plus3/skirmish/steering"
)

var (
	ErrInvalidRadius        = errors.New("collision radius must be positive")
	ErrInvalidSpeed         = errors.New("movement speed must not be negative")
	ErrInvalidRotationSpeed = errors.New("rotation speed must be positive")
)

// EnemySpec describes an enemy to spawn.
type EnemySpec struct {
	Behavior      steering.Behavior
	MovementSpeed float32
	Radius        float32
}

// Validate rejects specs the per-tick systems cannot handle.
func (s EnemySpec) Validate() error {
	if !(s.Radius > 0) {
		return fmt.Errorf("enemy radius %v: %w", s.Radius, ErrInvalidRadius)
	}
	if !(s.MovementSpeed >= 0) {
		return fmt.Errorf("enemy speed %v: %w", s.MovementSpeed, ErrInvalidSpeed)
	}
	if s.Behavior.Kind == steering.RateLimitedPursuit && !(s.Behavior.RotationSpeed > 0) {
		return fmt.Errorf("pursuer turn rate %v: %w", s.Behavior.RotationSpeed, ErrInvalidRotationSpeed)
	}
	return nil
}

// ProjectileSpec describes the player's shots. A zero Lifetime never expires.
type ProjectileSpec struct {
	Speed    float32
	Radius   float32
	Lifetime float32
}

func (s ProjectileSpec) Validate() error {
	if !(s.Radius > 0) {
		return fmt.Errorf("projectile radius %v: %w", s.Radius, ErrInvalidRadius)
	}
	if !(s.Speed >= 0) {
		return fmt.Errorf("projectile speed %v: %w", s.Speed, ErrInvalidSpeed)
	}
	return nil
}

// PlayerSpec describes the player ship.
type PlayerSpec struct {
	MovementSpeed float32
	RotationSpeed float32
	Radius        float32
	FireCooldown  int
}

func (s PlayerSpec) Validate() error {
	if !(s.Radius > 0) {
		return fmt.Errorf("player radius %v: %w", s.Radius, ErrInvalidRadius)
	}
	if !(s.MovementSpeed >= 0) {
		return fmt.Errorf("player speed %v: %w", s.MovementSpeed, ErrInvalidSpeed)
	}
	if !(s.RotationSpeed > 0) {
		return fmt.Errorf("player turn rate %v: %w", s.RotationSpeed, ErrInvalidRotationSpeed)
	}
	return nil
}

// EnemyComponents validates spec and returns the components of an enemy at `at`.
func EnemyComponents(at kinematics.Transform, spec EnemySpec) ([]any, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return enemyComponents(at, spec), nil
}

func enemyComponents(at kinematics.Transform, spec EnemySpec) []any {
	return []any{
		Enemy{},
		at,
		spec.Behavior,
		locomotion.Profile{MovementSpeed: spec.MovementSpeed},
		Collidable{Radius: spec.Radius},
	}
}

// ProjectileComponents validates spec and returns a projectile leaving `from`.
func ProjectileComponents(from kinematics.Transform, spec ProjectileSpec) ([]any, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return projectileComponents(from, spec), nil
}

func projectileComponents(from kinematics.Transform, spec ProjectileSpec) []any {
	components := []any{
		Projectile{},
		from,
		locomotion.Profile{MovementSpeed: spec.Speed},
		Collidable{Radius: spec.Radius},
	}
	if spec.Lifetime > 0 {
		components = append(components, Lifetime{Remaining: spec.Lifetime})
	}
	return components
}

// PlayerComponents validates spec and returns the player ship at `at`.
func PlayerComponents(at kinematics.Transform, spec PlayerSpec) ([]any, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return []any{
		Player{},
		at,
		PlayerControl{
			MovementSpeed: spec.MovementSpeed,
			RotationSpeed: spec.RotationSpeed,
			FireCooldown:  spec.FireCooldown,
		},
		Collidable{Radius: spec.Radius},
	}, nil
}

// Spawner owns the validated specs everything is spawned from, so per-tick code
// never has to validate.
type Spawner struct {
	Player     PlayerSpec
	Projectile ProjectileSpec
	Snapper    EnemySpec
	Pursuer    EnemySpec
	RingRadius float32
	MaxAlive   int

	rng *rand.Rand
}

// NewSpawner builds and validates every spec from cfg.
func NewSpawner(cfg *config.Config, seed uint64) (*Spawner, error) {
	s := &Spawner{
		Player: PlayerSpec{
			MovementSpeed: cfg.Player.MovementSpeed,
			RotationSpeed: cfg.Derived.PlayerRotation,
			Radius:        cfg.Player.Radius,
			FireCooldown:  cfg.Derived.FireCooldownTicks,
		},
		Projectile: ProjectileSpec{
			Speed:    cfg.Projectile.Speed,
			Radius:   cfg.Projectile.Radius,
			Lifetime: cfg.Derived.ProjectileLifetime,
		},
		Snapper: EnemySpec{
			Behavior:      steering.NewInstantSnap(),
			MovementSpeed: cfg.Enemies.Snapper.MovementSpeed,
			Radius:        cfg.Enemies.Snapper.Radius,
		},
		Pursuer: EnemySpec{
			Behavior:      steering.NewPursuit(cfg.Derived.PursuerRotation),
			MovementSpeed: cfg.Enemies.Pursuer.MovementSpeed,
			Radius:        cfg.Enemies.Pursuer.Radius,
		},
		RingRadius: cfg.Enemies.Spawn.RingRadius,
		MaxAlive:   cfg.Enemies.Spawn.MaxAlive,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}

	if err := s.Player.Validate(); err != nil {
		return nil, err
	}
	if err := s.Projectile.Validate(); err != nil {
		return nil, err
	}
	if err := s.Snapper.Validate(); err != nil {
		return nil, fmt.Errorf("snapper: %w", err)
	}
	if err := s.Pursuer.Validate(); err != nil {
		return nil, fmt.Errorf("pursuer: %w", err)
	}
	return s, nil
}

// Shot returns the components of a projectile fired from the player's transform.
func (s *Spawner) Shot(from kinematics.Transform) []any {
	return projectileComponents(from, s.Projectile)
}

// RingPosition returns a random point RingRadius away from center.
func (s *Spawner) RingPosition(center mgl32.Vec2) mgl32.Vec2 {
	angle := s.rng.Float64() * 2 * math.Pi
	offset := mgl32.Vec2{
		float32(math.Cos(angle)) * s.RingRadius,
		float32(math.Sin(angle)) * s.RingRadius,
	}
	return center.Add(offset)
}

// Wave returns one pursuer and one snapper on the ring around center, or nothing
// when alive enemies leave no room for both under MaxAlive.
func (s *Spawner) Wave(center mgl32.Vec2, alive int) [][]any {
	if s.MaxAlive > 0 && alive+2 > s.MaxAlive {
		return nil
	}
	return [][]any{
		enemyComponents(s.facing(s.RingPosition(center), center), s.Pursuer),
		enemyComponents(s.facing(s.RingPosition(center), center), s.Snapper),
	}
}

// facing returns a transform at pos looking at target.
func (s *Spawner) facing(pos, target mgl32.Vec2) kinematics.Transform {
	t := kinematics.Transform{Position: pos, Rotation: mgl32.QuatIdent()}
	t.Rotation, _ = steering.Snap(t, target)
	return t
}

// InitialEncounter returns the opening enemies: snappers at the left and bottom
// margins and up to two pursuers at the right and top margins.
func InitialEncounter(cfg *config.Config) ([][]any, error) {
	initial := cfg.Enemies.Initial
	if !initial.Enabled {
		return nil, nil
	}

	h, v := cfg.Derived.InitialHorizontalSlot, cfg.Derived.InitialVerticalSlot
	snapSlots := []mgl32.Vec2{{-h, 0}, {0, -v}}
	pursuitSlots := []mgl32.Vec2{{h, 0}, {0, v}}

	var out [][]any
	for _, pos := range snapSlots {
		components, err := EnemyComponents(
			kinematics.Transform{Position: pos, Rotation: mgl32.QuatIdent()},
			EnemySpec{Behavior: steering.NewInstantSnap(), MovementSpeed: initial.MovementSpeed, Radius: initial.Radius},
		)
		if err != nil {
			return nil, fmt.Errorf("initial snapper: %w", err)
		}
		out = append(out, components)
	}
	for i, turn := range cfg.Derived.InitialPursuerTurns {
		if i >= len(pursuitSlots) {
			break
		}
		components, err := EnemyComponents(
			kinematics.Transform{Position: pursuitSlots[i], Rotation: mgl32.QuatIdent()},
			EnemySpec{Behavior: steering.NewPursuit(turn), MovementSpeed: initial.MovementSpeed, Radius: initial.Radius},
		)
		if err != nil {
			return nil, fmt.Errorf("initial pursuer: %w", err)
		}
		out = append(out, components)
	}
	return out, nil
}
