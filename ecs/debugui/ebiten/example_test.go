package ebiten_test

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/ecs/debugui"
	debugui_ebiten "github.com/plus3/skirmish/ecs/debugui/ebiten"
)

type counter struct{ N int }

type countSystem struct {
	Counter ecs.Singleton[counter]
}

func (s *countSystem) Execute(*ecs.UpdateFrame) { s.Counter.Get().N++ }

// overlayGame runs a game world and a separate UI world whose entities are panels.
type overlayGame struct {
	game    *ecs.Scheduler
	ui      *ecs.Scheduler
	backend *ecs.Singleton[debugui_ebiten.ImguiBackend]
}

func (g *overlayGame) Update() error {
	g.game.Once(1.0 / 60.0)

	// UI systems run between BeginFrame and EndFrame; their deferred renders flush
	// at the end of the pass
	g.backend.Get().BeginFrame()
	g.ui.Once(0)
	g.backend.Get().EndFrame()
	return nil
}

func (g *overlayGame) Draw(screen *ebiten.Image) {
	g.backend.Get().Overlay(screen)
}

func (g *overlayGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	registry := ecs.NewComponentRegistry()
	world := ecs.NewStorage(registry)
	ticks := ecs.NewSingleton[counter](world)
	game := ecs.NewScheduler(world)
	game.Register(&countSystem{})

	uiRegistry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[debugui_ebiten.ImguiBackend](uiRegistry)
	debugui.RegisterDebugUIComponents(uiRegistry)
	ui := ecs.NewStorage(uiRegistry)

	backend := ecs.NewSingleton[debugui_ebiten.ImguiBackend](ui,
		debugui_ebiten.NewImguiBackend("debugui example", 1280, 720))
	ecs.NewSingleton[debugui.ImguiInputState](ui)

	debugui.SpawnDebugUI(ui, world, game)
	ui.Spawn(debugui.ImguiItem{
		Render: func() {
			imgui.Begin("Counter")
			imgui.Text(fmt.Sprintf("ticks: %d", ticks.Get().N))
			imgui.End()
		},
	})

	uiScheduler := ecs.NewScheduler(ui)
	uiScheduler.Register(&debugui.ImguiSystem{})

	if err := ebiten.RunGame(&overlayGame{game: game, ui: uiScheduler, backend: backend}); err != nil {
		panic(err)
	}
}
