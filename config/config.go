// Package config loads game configuration: embedded YAML defaults with an optional
// YAML or TOML file merged on top.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/plus3/skirmish/collision"
	"github.com/plus3/skirmish/ecs"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable of the game.
type Config struct {
	Sim        SimConfig        `yaml:"sim" toml:"sim"`
	Window     WindowConfig     `yaml:"window" toml:"window"`
	World      WorldConfig      `yaml:"world" toml:"world"`
	Player     PlayerConfig     `yaml:"player" toml:"player"`
	Projectile ProjectileConfig `yaml:"projectile" toml:"projectile"`
	Enemies    EnemiesConfig    `yaml:"enemies" toml:"enemies"`
	Collision  CollisionConfig  `yaml:"collision" toml:"collision"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" toml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" toml:"-"`
}

type SimConfig struct {
	TimeStep float64 `yaml:"time_step" toml:"time_step"` // seconds
	Surplus  string  `yaml:"surplus" toml:"surplus"`     // "drop" or "accumulate"
	MaxSteps int     `yaml:"max_steps" toml:"max_steps"`
	Seed     uint64  `yaml:"seed" toml:"seed"`
}

type WindowConfig struct {
	Width   int    `yaml:"width" toml:"width"`
	Height  int    `yaml:"height" toml:"height"`
	Title   string `yaml:"title" toml:"title"`
	DebugUI bool   `yaml:"debug_ui" toml:"debug_ui"`
}

type WorldConfig struct {
	BoundsX        float32 `yaml:"bounds_x" toml:"bounds_x"`
	BoundsY        float32 `yaml:"bounds_y" toml:"bounds_y"`
	BackgroundTile float32 `yaml:"background_tile" toml:"background_tile"`
}

type PlayerConfig struct {
	MovementSpeed float32 `yaml:"movement_speed" toml:"movement_speed"`
	RotationSpeed float32 `yaml:"rotation_speed" toml:"rotation_speed"` // degrees per second
	Radius        float32 `yaml:"radius" toml:"radius"`
	FireCooldown  float64 `yaml:"fire_cooldown" toml:"fire_cooldown"` // seconds
}

type ProjectileConfig struct {
	Speed    float32 `yaml:"speed" toml:"speed"`
	Radius   float32 `yaml:"radius" toml:"radius"`
	Lifetime float64 `yaml:"lifetime" toml:"lifetime"` // seconds, 0 never expires
}

// EnemyConfig describes one enemy archetype. RotationSpeed is only used by pursuers.
type EnemyConfig struct {
	MovementSpeed float32 `yaml:"movement_speed" toml:"movement_speed"`
	RotationSpeed float32 `yaml:"rotation_speed" toml:"rotation_speed"` // degrees per second
	Radius        float32 `yaml:"radius" toml:"radius"`
}

// InitialConfig is the opening encounter: two snappers at the left and bottom margins
// and one pursuer per entry of PursuerRotationSpeeds at the right and top margins.
type InitialConfig struct {
	Enabled               bool      `yaml:"enabled" toml:"enabled"`
	Radius                float32   `yaml:"radius" toml:"radius"`
	MarginDivisor         float32   `yaml:"margin_divisor" toml:"margin_divisor"`
	MovementSpeed         float32   `yaml:"movement_speed" toml:"movement_speed"`
	PursuerRotationSpeeds []float32 `yaml:"pursuer_rotation_speeds" toml:"pursuer_rotation_speeds"` // degrees per second
}

type SpawnConfig struct {
	Enabled    bool    `yaml:"enabled" toml:"enabled"`
	Interval   float64 `yaml:"interval" toml:"interval"` // seconds
	MaxAlive   int     `yaml:"max_alive" toml:"max_alive"`
	RingRadius float32 `yaml:"ring_radius" toml:"ring_radius"`
}

type EnemiesConfig struct {
	Snapper EnemyConfig   `yaml:"snapper" toml:"snapper"`
	Pursuer EnemyConfig   `yaml:"pursuer" toml:"pursuer"`
	Initial InitialConfig `yaml:"initial" toml:"initial"`
	Spawn   SpawnConfig   `yaml:"spawn" toml:"spawn"`
}

type CollisionConfig struct {
	Policy   string  `yaml:"policy" toml:"policy"`       // "all" or "first"
	GridCell float32 `yaml:"grid_cell" toml:"grid_cell"` // 0 disables the broad phase
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
}

type TelemetryConfig struct {
	Window int    `yaml:"window" toml:"window"` // ticks per row
	Output string `yaml:"output" toml:"output"` // csv path
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Step                  time.Duration
	DT32                  float32
	Surplus               ecs.SurplusPolicy
	CollisionPolicy       collision.Policy
	PlayerRotation        float32   // rad/s
	PursuerRotation       float32   // rad/s
	InitialPursuerTurns   []float32 // rad/s
	FireCooldownTicks     int
	ProjectileLifetime    float32 // seconds
	SpawnIntervalTicks    int
	InitialHorizontalSlot float32 // distance of the initial enemies from the origin
	InitialVerticalSlot   float32
}

// Default returns the embedded defaults.
func Default() (*Config, error) {
	return Load("")
}

// Load loads configuration from a YAML or TOML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parse embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := cfg.merge(path, data); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// merge decodes data over the current values. Only keys present in data change.
func (c *Config) merge(path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks the values entities are created from.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	positive := func(v float32) bool { return v > 0 && !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0) }
	nonNegative := func(v float32) bool { return v >= 0 && !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0) }

	check(c.Sim.TimeStep > 0 && c.Sim.TimeStep <= 1, "sim.time_step must be in (0, 1], got %v", c.Sim.TimeStep)
	check(c.Sim.MaxSteps >= 0, "sim.max_steps must be >= 0, got %d", c.Sim.MaxSteps)
	if _, err := parseSurplus(c.Sim.Surplus); err != nil {
		errs = append(errs, err)
	}
	check(c.Window.Width > 0 && c.Window.Height > 0, "window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	check(positive(c.World.BoundsX) && positive(c.World.BoundsY), "world bounds must be positive")
	check(nonNegative(c.World.BackgroundTile), "world.background_tile must be >= 0")

	check(nonNegative(c.Player.MovementSpeed), "player.movement_speed must be >= 0, got %v", c.Player.MovementSpeed)
	check(positive(c.Player.RotationSpeed), "player.rotation_speed must be > 0, got %v", c.Player.RotationSpeed)
	check(positive(c.Player.Radius), "player.radius must be > 0, got %v", c.Player.Radius)
	check(c.Player.FireCooldown >= 0, "player.fire_cooldown must be >= 0, got %v", c.Player.FireCooldown)

	check(nonNegative(c.Projectile.Speed), "projectile.speed must be >= 0, got %v", c.Projectile.Speed)
	check(positive(c.Projectile.Radius), "projectile.radius must be > 0, got %v", c.Projectile.Radius)
	check(c.Projectile.Lifetime >= 0, "projectile.lifetime must be >= 0, got %v", c.Projectile.Lifetime)

	check(nonNegative(c.Enemies.Snapper.MovementSpeed), "enemies.snapper.movement_speed must be >= 0")
	check(positive(c.Enemies.Snapper.Radius), "enemies.snapper.radius must be > 0")
	check(nonNegative(c.Enemies.Pursuer.MovementSpeed), "enemies.pursuer.movement_speed must be >= 0")
	check(positive(c.Enemies.Pursuer.RotationSpeed), "enemies.pursuer.rotation_speed must be > 0")
	check(positive(c.Enemies.Pursuer.Radius), "enemies.pursuer.radius must be > 0")

	if c.Enemies.Initial.Enabled {
		check(positive(c.Enemies.Initial.Radius), "enemies.initial.radius must be > 0")
		check(positive(c.Enemies.Initial.MarginDivisor), "enemies.initial.margin_divisor must be > 0")
		check(nonNegative(c.Enemies.Initial.MovementSpeed), "enemies.initial.movement_speed must be >= 0")
		check(len(c.Enemies.Initial.PursuerRotationSpeeds) <= 2, "enemies.initial supports at most two pursuers")
		for i, speed := range c.Enemies.Initial.PursuerRotationSpeeds {
			check(positive(speed), "enemies.initial.pursuer_rotation_speeds[%d] must be > 0", i)
		}
	}
	if c.Enemies.Spawn.Enabled {
		check(c.Enemies.Spawn.Interval > 0, "enemies.spawn.interval must be > 0")
		check(c.Enemies.Spawn.MaxAlive > 0, "enemies.spawn.max_alive must be > 0")
		check(nonNegative(c.Enemies.Spawn.RingRadius), "enemies.spawn.ring_radius must be >= 0")
	}

	if _, err := collision.ParsePolicy(c.Collision.Policy); err != nil {
		errs = append(errs, fmt.Errorf("collision.policy: %w", err))
	}
	check(nonNegative(c.Collision.GridCell), "collision.grid_cell must be >= 0")
	if c.Collision.GridCell > 0 {
		// each shot scans about (2*reach/cell)^2 cells
		minCell := c.HitDistance() / 2
		check(c.Collision.GridCell >= minCell,
			"collision.grid_cell must be 0 or at least %v (half the largest hit distance), got %v",
			minCell, c.Collision.GridCell)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	check(c.Telemetry.Window > 0, "telemetry.window must be > 0, got %d", c.Telemetry.Window)

	return errors.Join(errs...)
}

// HitDistance is the largest projectile-enemy center distance that can register a hit.
func (c *Config) HitDistance() float32 {
	enemy := max(c.Enemies.Snapper.Radius, c.Enemies.Pursuer.Radius)
	if c.Enemies.Initial.Enabled {
		enemy = max(enemy, c.Enemies.Initial.Radius)
	}
	return c.Projectile.Radius + enemy
}

func parseSurplus(s string) (ecs.SurplusPolicy, error) {
	switch s {
	case "drop", "":
		return ecs.DropSurplus, nil
	case "accumulate":
		return ecs.Accumulate, nil
	default:
		return ecs.DropSurplus, fmt.Errorf("sim.surplus must be drop or accumulate, got %q", s)
	}
}

func toRadians(deg float32) float32 {
	return deg * math.Pi / 180
}

// ticks converts seconds to a whole number of ticks, at least one when seconds > 0.
func (c *Config) ticks(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return max(1, int(math.Round(seconds/c.Sim.TimeStep)))
}

func (c *Config) computeDerived() {
	d := &c.Derived
	d.Step = time.Duration(c.Sim.TimeStep * float64(time.Second))
	d.DT32 = float32(c.Sim.TimeStep)
	d.Surplus, _ = parseSurplus(c.Sim.Surplus)
	d.CollisionPolicy, _ = collision.ParsePolicy(c.Collision.Policy)

	d.PlayerRotation = toRadians(c.Player.RotationSpeed)
	d.PursuerRotation = toRadians(c.Enemies.Pursuer.RotationSpeed)
	d.InitialPursuerTurns = make([]float32, len(c.Enemies.Initial.PursuerRotationSpeeds))
	for i, deg := range c.Enemies.Initial.PursuerRotationSpeeds {
		d.InitialPursuerTurns[i] = toRadians(deg)
	}

	d.FireCooldownTicks = c.ticks(c.Player.FireCooldown)
	d.ProjectileLifetime = float32(c.Projectile.Lifetime)
	d.SpawnIntervalTicks = c.ticks(c.Enemies.Spawn.Interval)

	if c.Enemies.Initial.MarginDivisor > 0 {
		d.InitialHorizontalSlot = c.World.BoundsX / c.Enemies.Initial.MarginDivisor
		d.InitialVerticalSlot = c.World.BoundsY / c.Enemies.Initial.MarginDivisor
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
