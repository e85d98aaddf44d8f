package debugui

import "github.com/plus3/skirmish/ecs"

// Panels are the windows SpawnDebugUI creates. The browser's selection drives the
// inspector, and clicking an archetype filters the browser.
type Panels struct {
	Performance *PerformancePanel
	Entities    *EntityBrowser
	Inspector   *ComponentInspector
	Archetypes  *ArchetypeViewer
	Queries     *QueryDebugger
}

// SpawnDebugUI spawns the standard panels into ui, observing the target storage and
// scheduler.
func SpawnDebugUI(ui *ecs.Storage, target *ecs.Storage, scheduler *ecs.Scheduler) *Panels {
	browser := NewEntityBrowser(target, 100)
	panels := &Panels{
		Performance: NewPerformancePanel(target, scheduler, 120),
		Entities:    browser,
		Inspector:   NewComponentInspector(target, browser),
		Archetypes:  NewArchetypeViewer(target, browser),
		Queries:     NewQueryDebugger(target),
	}

	for _, render := range []func(){
		panels.Performance.Render,
		panels.Entities.Render,
		panels.Inspector.Render,
		panels.Archetypes.Render,
		panels.Queries.Render,
	} {
		ui.Spawn(ImguiItem{Render: render})
	}
	return panels
}

// RegisterDebugUIComponents registers the components the debug UI spawns.
func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
}
