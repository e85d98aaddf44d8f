package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/skirmish/config"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/ecs/debugui"
	debugui_ebiten "github.com/plus3/skirmish/ecs/debugui/ebiten"
	"github.com/plus3/skirmish/shooter"
)

// overlay is the debug UI: a separate ECS world whose entities are ImGui panels
// observing the game world.
type overlay struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	backend   *ecs.Singleton[debugui_ebiten.ImguiBackend]
	input     *ecs.Singleton[debugui.ImguiInputState]
}

func newOverlay(cfg *config.Config, world *shooter.World) *overlay {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[debugui_ebiten.ImguiBackend](registry)
	debugui.RegisterDebugUIComponents(registry)

	storage := ecs.NewStorage(registry)
	o := &overlay{
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		backend: ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage,
			debugui_ebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)),
		input: ecs.NewSingleton[debugui.ImguiInputState](storage),
	}

	panels := debugui.SpawnDebugUI(storage, world.Storage(), world.Scheduler())
	storage.Spawn(debugui.ImguiItem{Render: sessionPanel(world, panels.Entities)})
	o.scheduler.Register(&debugui.ImguiSystem{})
	return o
}

func (o *overlay) begin() {
	o.backend.Get().BeginFrame()
	o.scheduler.Once(0)
}

func (o *overlay) end() {
	o.backend.Get().EndFrame()
}

func (o *overlay) draw(screen *ebiten.Image) {
	o.backend.Get().Overlay(screen)
}

func (o *overlay) layout(width, height int) {
	o.backend.Get().Layout(width, height)
}

func (o *overlay) wantsKeyboard() bool {
	return o.input.Get().WantCaptureKeyboard
}

// sessionPanel shows the running score, the player and the last telemetry window.
func sessionPanel(world *shooter.World, browser *debugui.EntityBrowser) func() {
	return func() {
		if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
			imgui.End()
			return
		}

		clock := world.Clock()
		score := world.Score()
		imgui.Text(fmt.Sprintf("Tick: %d (%.1fs)", clock.Tick, clock.Elapsed))
		imgui.Text(fmt.Sprintf("Kills: %d  Fired: %d  Expired: %d", score.Kills, score.Fired, score.Expired))
		imgui.Text(fmt.Sprintf("Spawned: %d", score.Spawned))

		if id, player, ok := world.Player(); ok {
			imgui.Separator()
			imgui.Text(fmt.Sprintf("Player: (%.1f, %.1f) heading %.1f°",
				player.Position.X(), player.Position.Y(), mgl32.RadToDeg(player.Heading())))
			if imgui.Button("Inspect player") {
				browser.Select(id)
			}
		}

		if windows := world.Telemetry().Windows(); len(windows) > 0 {
			last := windows[len(windows)-1]
			imgui.Separator()
			imgui.Text(fmt.Sprintf("Window ending %d: %d kills, hit rate %.2f", last.WindowEndTick, last.Kills, last.HitRate))
			imgui.Text(fmt.Sprintf("Tick cost: mean %.1fµs, max %.1fµs", last.MeanTickCostUS, last.MaxTickCostUS))
		}

		imgui.End()
	}
}
