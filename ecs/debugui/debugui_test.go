package debugui_test

import (
	"cmp"
	"reflect"
	"slices"
	"testing"

	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/ecs/debugui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Position struct {
	X, Y float32
}

type Label struct {
	Text   string
	hidden int
}

type Link struct {
	To     *Position
	Weight float64
	note   string
}

// newTargetWorld spawns two Position entities, one of which is also labelled, and a
// Label-only entity.
func newTargetWorld() (*ecs.Storage, []ecs.EntityId) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Label](registry)
	storage := ecs.NewStorage(registry)

	ids := []ecs.EntityId{
		storage.Spawn(Position{X: 1}),
		storage.Spawn(Position{X: 2}, Label{Text: "b"}),
		storage.Spawn(Label{Text: "c"}),
	}
	return storage, ids
}

func TestPerformancePanelHistory(t *testing.T) {
	panel := debugui.NewPerformancePanel(nil, nil, 4)
	assert.Zero(t, panel.AverageFrameTime())

	panel.Record(0.016)
	panel.Record(0.016)
	assert.InDelta(t, 8.0, panel.AverageFrameTime(), 1e-4)

	// the history wraps, keeping the newest four frames
	for range 4 {
		panel.Record(0.010)
	}
	assert.InDelta(t, 10.0, panel.AverageFrameTime(), 1e-4)
}

func TestSpawnDebugUI(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	debugui.RegisterDebugUIComponents(registry)
	ui := ecs.NewStorage(registry)
	target := ecs.NewStorage(ecs.NewComponentRegistry())
	scheduler := ecs.NewScheduler(target)

	panels := debugui.SpawnDebugUI(ui, target, scheduler)

	assert.Same(t, target, panels.Performance.Storage)
	assert.Same(t, scheduler, panels.Performance.Scheduler)
	assert.Same(t, target, panels.Entities.Storage)
	assert.Same(t, panels.Entities, panels.Inspector.Browser)
	assert.Same(t, panels.Entities, panels.Archetypes.Browser)
	assert.Same(t, target, panels.Queries.Storage)
	assert.Equal(t, 5, ecs.NewQuery[struct{ *debugui.ImguiItem }](ui).Count())
}

func TestReflectionCacheFields(t *testing.T) {
	cache := debugui.NewReflectionCache()

	fields := cache.Fields(reflect.TypeFor[Link]())
	require.Len(t, fields, 2, "unexported fields are skipped")

	assert.Equal(t, "To", fields[0].Name)
	assert.True(t, fields[0].IsPointer)
	assert.Equal(t, reflect.TypeFor[Position](), fields[0].Type)
	assert.Equal(t, 0, fields[0].Index)

	assert.Equal(t, "Weight", fields[1].Name)
	assert.False(t, fields[1].IsPointer)
	assert.Equal(t, reflect.Float64, fields[1].Type.Kind())
	assert.Equal(t, 1, fields[1].Index)

	again := cache.Fields(reflect.TypeFor[Link]())
	assert.True(t, &fields[0] == &again[0], "second lookup is served from the cache")

	assert.Empty(t, cache.Fields(reflect.TypeFor[int32]()))
}

func TestEntityBrowserFilters(t *testing.T) {
	storage, ids := newTargetWorld()
	browser := debugui.NewEntityBrowser(storage, 10)
	browser.Refresh()

	all := browser.Entities()
	require.Len(t, all, 3)
	assert.True(t, slices.IsSortedFunc(all, func(a, b debugui.EntityInfo) int {
		return cmp.Compare(a.ID, b.ID)
	}), "sorted by id")
	got := make([]ecs.EntityId, len(all))
	for i, e := range all {
		got[i] = e.ID
	}
	assert.ElementsMatch(t, ids, got)

	browser.SetFilter("label")
	assert.Len(t, browser.Entities(), 2)

	browser.ClearFilter()
	browser.FilterArchetype(ids[0].ArchetypeId())
	filtered := browser.Entities()
	require.Len(t, filtered, 1)
	assert.Equal(t, ids[0], filtered[0].ID)
	assert.Equal(t, []string{"debugui_test.Position"}, filtered[0].ComponentTypes)

	browser.ClearFilter()
	assert.Len(t, browser.Entities(), 3)
}

func TestEntityBrowserSelectionSurvivesDespawn(t *testing.T) {
	storage, ids := newTargetWorld()
	browser := debugui.NewEntityBrowser(storage, 10)

	_, ok := browser.Selected()
	assert.False(t, ok)

	browser.Select(ids[1])
	require.True(t, storage.Delete(ids[1]))
	browser.Refresh()

	selected, ok := browser.Selected()
	assert.True(t, ok)
	assert.Equal(t, ids[1], selected)
	assert.False(t, storage.Alive(selected))
	assert.Len(t, browser.Entities(), 2)
}

func TestArchetypeViewerRowsAndSelection(t *testing.T) {
	storage, ids := newTargetWorld()
	storage.Spawn(Label{Text: "d"})

	browser := debugui.NewEntityBrowser(storage, 10)
	viewer := debugui.NewArchetypeViewer(storage, browser)
	viewer.Refresh()

	rows := viewer.Rows()
	require.Len(t, rows, 3)
	// busiest archetype first
	assert.Equal(t, ids[2].ArchetypeId(), rows[0].ID)
	assert.Equal(t, 2, rows[0].EntityCount)

	viewer.Select(ids[0].ArchetypeId())
	browser.Refresh()
	require.Len(t, browser.Entities(), 1)
	assert.Equal(t, ids[0], browser.Entities()[0].ID)
}

func TestMatchingArchetypes(t *testing.T) {
	storage, ids := newTargetWorld()

	assert.Equal(t, []string{"debugui_test.Label", "debugui_test.Position"}, debugui.ComponentTypeNames(storage))

	positions := debugui.MatchingArchetypes(storage, []string{"debugui_test.Position"})
	require.Len(t, positions, 2)
	assert.Equal(t, ids[0].ArchetypeId(), positions[0].ID())
	assert.Equal(t, ids[1].ArchetypeId(), positions[1].ID())

	both := debugui.MatchingArchetypes(storage, []string{"debugui_test.Position", "debugui_test.Label"})
	require.Len(t, both, 1)
	assert.Equal(t, 1, both[0].Len())

	assert.Empty(t, debugui.MatchingArchetypes(storage, []string{"debugui_test.Velocity"}))
	assert.Empty(t, debugui.MatchingArchetypes(storage, nil))
}
