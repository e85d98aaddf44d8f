package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/plus3/skirmish/config"
	"github.com/plus3/skirmish/logging"
	"github.com/plus3/skirmish/shooter"
	"github.com/plus3/skirmish/telemetry"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML or TOML config file merged over the defaults.")
	ticks := flag.Int("ticks", 36000, "Number of fixed ticks to simulate.")
	timeout := flag.Duration("timeout", 0, "Stop early after this much wall-clock time (0 disables).")
	csvPath := flag.String("csv", "", "Write per-window telemetry to this CSV file (overrides telemetry.output).")
	seed := flag.Uint64("seed", 0, "Spawner seed (overrides sim.seed).")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	if err := run(*configPath, *ticks, *timeout, *csvPath, *seed, *gcPauseMetrics); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, ticks int, timeout time.Duration, csvPath string, seed uint64, gcPauseMetrics bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if csvPath != "" {
		cfg.Telemetry.Output = csvPath
	}
	if seed != 0 {
		cfg.Sim.Seed = seed
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	var world *shooter.World
	pilot := newScript().source(func() uint64 { return world.Clock().Tick })

	world, err = shooter.NewWorld(cfg, shooter.WithLogger(log), shooter.WithInput(pilot))
	if err != nil {
		return err
	}

	csv, err := telemetry.CreateCSV(cfg.Telemetry.Output)
	if err != nil {
		return err
	}
	defer csv.Close()
	world.Telemetry().OnWindow(csv.Write)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	report := &Report{
		Ticks:          ticks,
		TimeStep:       cfg.Derived.Step,
		Policy:         cfg.Derived.CollisionPolicy.String(),
		GridCell:       cfg.Collision.GridCell,
		GCPauseMetrics: gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Info("stress run started", zap.Int("ticks", ticks), zap.Duration("timeout", timeout))
	start := time.Now()

Loop:
	for range ticks {
		select {
		case <-ctx.Done():
			log.Warn("stress run interrupted", zap.Uint64("tick", world.Clock().Tick))
			break Loop
		default:
			world.Step()
		}
	}

	report.WallTime = time.Since(start)
	world.Telemetry().Flush()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.Completed = world.Clock().Tick
	report.SimTime = time.Duration(world.Clock().Elapsed * float64(time.Second))
	report.Score = world.Score()
	report.Summary = world.Telemetry().Summarize()
	report.Systems = world.Scheduler().GetStats().Systems
	report.Entities = world.Storage().CollectStats().TotalEntityCount

	log.Info("stress run finished",
		zap.Uint64("ticks", report.Completed),
		zap.Duration("wall", report.WallTime),
		zap.Int("kills", report.Score.Kills))

	if err := world.Telemetry().Err(); err != nil {
		return err
	}

	fmt.Println("\n--- Skirmish Stress Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")
	return nil
}
