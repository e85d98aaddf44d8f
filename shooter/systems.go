package shooter

import (
	"time"

	"github.com/plus3/skirmish/collision"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/kinematics"
	"github.com/plus3/skirmish/locomotion"
	"github.com/plus3/skirmish/steering"
	"github.com/plus3/skirmish/telemetry"
	"go.uber.org/zap"
)

// PlayerControlSystem turns, thrusts and fires the player ship from the input source.
type PlayerControlSystem struct {
	Input   InputSource
	Spawner *Spawner

	Players ecs.Query[struct {
		*Player
		*PlayerControl
		*kinematics.Transform
	}]
	Score ecs.Singleton[Score]
}

func (s *PlayerControlSystem) Execute(frame *ecs.UpdateFrame) {
	dt := frame.DT()
	input := s.Input
	if input == nil {
		input = NoInput{}
	}

	for player := range s.Players.Values() {
		ctl := player.PlayerControl
		if ctl.Cooldown > 0 {
			ctl.Cooldown--
		}

		// shots leave from the transform the ship had at the start of the tick
		if input.Pressed(Fire) && ctl.Cooldown == 0 {
			frame.Commands.Spawn(s.Spawner.Shot(*player.Transform)...)
			s.Score.Get().Fired++
			ctl.Cooldown = ctl.FireCooldown
		}

		var turn float32
		if input.Pressed(TurnLeft) {
			turn++
		}
		if input.Pressed(TurnRight) {
			turn--
		}
		if turn != 0 {
			player.Transform.RotateZ(turn * ctl.RotationSpeed * dt)
		}

		if input.Pressed(Thrust) {
			locomotion.Advance(player.Transform, locomotion.Profile{MovementSpeed: ctl.MovementSpeed}, dt)
		}
	}
}

// SteeringSystem resolves the player once and turns every tracking entity toward it.
type SteeringSystem struct {
	Players  ecs.Query[PlayerView]
	Trackers ecs.Query[struct {
		*steering.Behavior
		*kinematics.Transform
	}]
	Target ecs.Singleton[Target]
}

func (s *SteeringSystem) Execute(frame *ecs.UpdateFrame) {
	id, player := ResolvePlayer(&s.Players)
	*s.Target.Get() = Target{Id: id, Transform: player, Tick: frame.Tick}

	dt := frame.DT()
	for tracker := range s.Trackers.Values() {
		steering.Apply(*tracker.Behavior, tracker.Transform, player.Position, dt)
	}
}

// LocomotionSystem moves every self-propelled entity along its forward axis.
type LocomotionSystem struct {
	Movers ecs.Query[struct {
		*locomotion.Profile
		*kinematics.Transform
	}]
}

func (s *LocomotionSystem) Execute(frame *ecs.UpdateFrame) {
	dt := frame.DT()
	for mover := range s.Movers.Values() {
		locomotion.Advance(mover.Transform, *mover.Profile, dt)
	}
}

type projectileBody struct {
	ecs.EntityId
	*Projectile
	*kinematics.Transform
	*Collidable
}

type enemyBody struct {
	ecs.EntityId
	*Enemy
	*kinematics.Transform
	*Collidable
}

// CollisionSystem despawns overlapping projectile/enemy pairs. It scans a snapshot of
// post-locomotion positions and queues deletes for the end of the tick.
type CollisionSystem struct {
	Policy collision.Policy
	// Grid enables the broad phase when set.
	Grid *collision.Grid[ecs.EntityId]
	Log  *zap.Logger

	Projectiles ecs.Query[projectileBody]
	Enemies     ecs.Query[enemyBody]
	Score       ecs.Singleton[Score]

	projectiles []collision.Body[ecs.EntityId]
	enemies     []collision.Body[ecs.EntityId]
	killed      map[ecs.EntityId]struct{}
}

func (s *CollisionSystem) Execute(frame *ecs.UpdateFrame) {
	s.projectiles = s.projectiles[:0]
	for id, p := range s.Projectiles.Iter() {
		s.projectiles = append(s.projectiles, collision.Body[ecs.EntityId]{
			Handle: id, Position: p.Transform.Position, Radius: p.Collidable.Radius,
		})
	}
	s.enemies = s.enemies[:0]
	for id, e := range s.Enemies.Iter() {
		s.enemies = append(s.enemies, collision.Body[ecs.EntityId]{
			Handle: id, Position: e.Transform.Position, Radius: e.Collidable.Radius,
		})
	}

	var pairs []collision.Pair[ecs.EntityId]
	if s.Grid != nil {
		pairs = s.Grid.Detect(s.projectiles, s.enemies, s.Policy)
	} else {
		pairs = collision.Detect(s.projectiles, s.enemies, s.Policy)
	}
	if len(pairs) == 0 {
		return
	}

	if s.killed == nil {
		s.killed = make(map[ecs.EntityId]struct{})
	}
	clear(s.killed)
	for _, pair := range pairs {
		s.killed[pair.Enemy] = struct{}{}
		if s.Log != nil {
			s.Log.Debug("hit",
				zap.Uint64("tick", frame.Tick),
				zap.Uint64("projectile", uint64(pair.Projectile)),
				zap.Uint64("enemy", uint64(pair.Enemy)))
		}
	}
	for _, h := range collision.Despawns(pairs) {
		frame.Commands.Delete(h)
	}
	s.Score.Get().Kills += len(s.killed)
}

// LifetimeSystem expires entities whose Lifetime has run out. An entity already
// queued for deletion this tick, such as a shot that just hit, is not counted as expired.
type LifetimeSystem struct {
	Mortal ecs.Query[struct {
		ecs.EntityId
		*Lifetime
	}]
	Score ecs.Singleton[Score]
}

func (s *LifetimeSystem) Execute(frame *ecs.UpdateFrame) {
	dt := frame.DT()
	for id, m := range s.Mortal.Iter() {
		m.Lifetime.Remaining -= dt
		if m.Lifetime.Remaining <= 0 && !frame.Commands.Deleting(id) {
			frame.Commands.Delete(id)
			s.Score.Get().Expired++
		}
	}
}

// SpawnerSystem adds a pursuer and a snapper around the player every Interval ticks.
type SpawnerSystem struct {
	Spawner  *Spawner
	Interval int
	Log      *zap.Logger

	Enemies ecs.Query[struct{ *Enemy }]
	Target  ecs.Singleton[Target]
	Score   ecs.Singleton[Score]
}

func (s *SpawnerSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Interval <= 0 || frame.Tick%uint64(s.Interval) != 0 {
		return
	}

	alive := s.Enemies.Count()
	wave := s.Spawner.Wave(s.Target.Get().Transform.Position, alive)
	for _, components := range wave {
		frame.Commands.Spawn(components...)
	}
	s.Score.Get().Spawned += len(wave)

	if s.Log != nil {
		s.Log.Info("wave",
			zap.Uint64("tick", frame.Tick),
			zap.Int("alive", alive),
			zap.Int("spawned", len(wave)))
	}
}

// TelemetrySystem samples the world once the tick's structural changes have landed.
type TelemetrySystem struct {
	Recorder *telemetry.Recorder

	Enemies     ecs.Query[struct{ *Enemy }]
	Projectiles ecs.Query[struct{ *Projectile }]
	Score       ecs.Singleton[Score]
	Clock       ecs.Singleton[Clock]

	last Score
}

func (s *TelemetrySystem) Execute(frame *ecs.UpdateFrame) {
	if s.Recorder == nil {
		return
	}
	tick := frame.Tick
	frame.Commands.Defer(func() {
		score := *s.Score.Get()
		var cost time.Duration
		if started := s.Clock.Get().TickStarted; !started.IsZero() {
			cost = time.Since(started)
		}

		s.Recorder.Record(telemetry.Sample{
			Tick:        tick,
			Enemies:     s.Enemies.Count(),
			Projectiles: s.Projectiles.Count(),
			Kills:       score.Kills - s.last.Kills,
			Fired:       score.Fired - s.last.Fired,
			Spawned:     score.Spawned - s.last.Spawned,
			Expired:     score.Expired - s.last.Expired,
			Cost:        cost,
		})
		s.last = score
	})
}
