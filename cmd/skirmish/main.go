package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/skirmish/config"
	"github.com/plus3/skirmish/logging"
	"github.com/plus3/skirmish/shooter"
	"github.com/plus3/skirmish/telemetry"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML or TOML config file merged over the defaults.")
	debugUI := flag.Bool("debug-ui", false, "Show the ImGui debug panels (overrides window.debug_ui).")
	dumpConfig := flag.String("dump-config", "", "Write the effective configuration to this YAML file and exit.")
	flag.Parse()

	if err := run(*configPath, *debugUI, *dumpConfig); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, debugUI bool, dumpConfig string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if debugUI {
		cfg.Window.DebugUI = true
	}
	if dumpConfig != "" {
		return cfg.WriteYAML(dumpConfig)
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	keys := &keyboard{}
	world, err := shooter.NewWorld(cfg, shooter.WithLogger(log), shooter.WithInput(keys))
	if err != nil {
		return err
	}

	csv, err := telemetry.CreateCSV(cfg.Telemetry.Output)
	if err != nil {
		return err
	}
	defer csv.Close()
	world.Telemetry().OnWindow(csv.Write)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(math.Round(1 / cfg.Sim.TimeStep)))

	game := newGame(cfg, world, keys)
	if cfg.Window.DebugUI {
		game.overlay = newOverlay(cfg, world)
		keys.captured = game.overlay.wantsKeyboard
	}

	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run game: %w", err)
	}

	world.Telemetry().Flush()
	summary := world.Telemetry().Summarize()
	score := world.Score()
	log.Info("session over",
		zap.Uint64("ticks", world.Clock().Tick),
		zap.Int("kills", score.Kills),
		zap.Int("fired", score.Fired),
		zap.Float64("hit_rate", summary.HitRate),
		zap.Float64("tick_cost_p95_us", summary.CostP95))
	return world.Telemetry().Err()
}
