package shooter

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/skirmish/collision"
	"github.com/plus3/skirmish/config"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/kinematics"
	"github.com/plus3/skirmish/telemetry"
	"go.uber.org/zap"
)

// World is a running game session: the entity storage, the systems in tick order and
// the collaborators they share.
type World struct {
	cfg       *config.Config
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	spawner   *Spawner
	recorder  *telemetry.Recorder
	log       *zap.Logger
	input     InputSource
	player    ecs.EntityId

	score *ecs.Singleton[Score]
	clock *ecs.Singleton[Clock]
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

// WithInput sets the input source the player is driven by.
func WithInput(input InputSource) Option {
	return func(w *World) {
		w.input = input
	}
}

// NewWorld builds a session from cfg: the player at the origin, the opening
// encounter and every system. Spawn parameters are validated here, once.
func NewWorld(cfg *config.Config, opts ...Option) (*World, error) {
	w := &World{
		cfg:   cfg,
		log:   zap.NewNop(),
		input: NoInput{},
	}
	for _, opt := range opts {
		opt(w)
	}

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	spawner, err := NewSpawner(cfg, seed)
	if err != nil {
		return nil, fmt.Errorf("spawner: %w", err)
	}
	w.spawner = spawner

	initial, err := InitialEncounter(cfg)
	if err != nil {
		return nil, err
	}

	w.storage = ecs.NewStorage(NewRegistry())
	w.scheduler = ecs.NewScheduler(w.storage)
	w.score = ecs.NewSingleton[Score](w.storage)
	w.clock = ecs.NewSingleton[Clock](w.storage)
	ecs.NewSingleton[Target](w.storage)

	player, err := PlayerComponents(kinematics.Transform{Rotation: mgl32.QuatIdent()}, spawner.Player)
	if err != nil {
		return nil, err
	}
	w.player = w.storage.Spawn(player...)
	for _, components := range initial {
		w.storage.Spawn(components...)
	}

	var grid *collision.Grid[ecs.EntityId]
	if cfg.Collision.GridCell > 0 {
		grid = collision.NewGrid[ecs.EntityId](cfg.Collision.GridCell)
	}

	w.recorder = telemetry.NewRecorder(cfg.Telemetry.Window, cfg.Sim.TimeStep)

	interval := 0
	if cfg.Enemies.Spawn.Enabled {
		interval = cfg.Derived.SpawnIntervalTicks
	}

	w.scheduler.Register(&PlayerControlSystem{Input: w.input, Spawner: spawner})
	w.scheduler.Register(&SteeringSystem{})
	w.scheduler.Register(&LocomotionSystem{})
	w.scheduler.Register(&CollisionSystem{Policy: cfg.Derived.CollisionPolicy, Grid: grid, Log: w.log})
	w.scheduler.Register(&LifetimeSystem{})
	w.scheduler.Register(&SpawnerSystem{Spawner: spawner, Interval: interval, Log: w.log})
	w.scheduler.Register(&TelemetrySystem{Recorder: w.recorder})

	w.log.Info("world ready",
		zap.Uint64("seed", seed),
		zap.Int("enemies", len(initial)),
		zap.Stringer("collision", cfg.Derived.CollisionPolicy),
		zap.Float32("grid_cell", cfg.Collision.GridCell),
		zap.Int("spawn_interval_ticks", interval))
	return w, nil
}

// Step advances the world by exactly one fixed tick.
func (w *World) Step() {
	clock := w.clock.Get()
	clock.Tick++
	clock.Elapsed += w.cfg.Sim.TimeStep
	clock.TickStarted = time.Now()

	w.scheduler.Once(w.cfg.Sim.TimeStep)
}

// Run steps the world on the configured fixed step until ctx is cancelled, then
// flushes the last partial telemetry window.
func (w *World) Run(ctx context.Context) error {
	clock := ecs.NewFixedStep(w.cfg.Derived.Step, w.cfg.Derived.Surplus, w.cfg.Sim.MaxSteps)
	ticker := time.NewTicker(clock.Step)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			w.recorder.Flush()
			return w.recorder.Err()
		case now := <-ticker.C:
			steps := clock.Advance(now.Sub(last))
			last = now
			for range steps {
				if ctx.Err() != nil {
					break
				}
				w.Step()
			}
		}
	}
}

// Storage returns the entity storage.
func (w *World) Storage() *ecs.Storage { return w.storage }

// Scheduler returns the scheduler running the systems.
func (w *World) Scheduler() *ecs.Scheduler { return w.scheduler }

// Spawner returns the validated spawn parameters.
func (w *World) Spawner() *Spawner { return w.spawner }

// Telemetry returns the session recorder.
func (w *World) Telemetry() *telemetry.Recorder { return w.recorder }

// Config returns the configuration the world was built from.
func (w *World) Config() *config.Config { return w.cfg }

// Score returns a copy of the running tally.
func (w *World) Score() Score { return *w.score.Get() }

// Clock returns a copy of the simulated clock.
func (w *World) Clock() Clock { return *w.clock.Get() }

// Player returns the player's handle and transform, or false once it is gone.
func (w *World) Player() (ecs.EntityId, kinematics.Transform, bool) {
	t := ecs.ReadComponent[kinematics.Transform](w.storage, w.player)
	if t == nil {
		return w.player, kinematics.Transform{}, false
	}
	return w.player, *t, true
}
