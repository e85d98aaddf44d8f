package debugui

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/skirmish/ecs"
)

// QueryDebugger previews which archetypes and how many entities a query over the
// checked component types would visit.
type QueryDebugger struct {
	Storage *ecs.Storage

	selected map[string]bool
}

func NewQueryDebugger(storage *ecs.Storage) *QueryDebugger {
	return &QueryDebugger{
		Storage:  storage,
		selected: make(map[string]bool),
	}
}

// ComponentTypeNames returns every component type present in storage, sorted.
func ComponentTypeNames(storage *ecs.Storage) []string {
	seen := make(map[string]bool)
	for _, archetype := range storage.Archetypes() {
		for _, t := range archetype.Types() {
			seen[t.String()] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatchingArchetypes returns, in creation order, the archetypes holding every named
// component type. An empty name list matches nothing.
func MatchingArchetypes(storage *ecs.Storage, typeNames []string) []*ecs.Archetype {
	if len(typeNames) == 0 {
		return nil
	}

	var matching []*ecs.Archetype
	for _, archetype := range storage.Archetypes() {
		if archetypeHasAllTypes(archetype.Types(), typeNames) {
			matching = append(matching, archetype)
		}
	}
	return matching
}

func archetypeHasAllTypes(types []reflect.Type, required []string) bool {
	for _, name := range required {
		found := false
		for _, t := range types {
			if t.String() == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (qd *QueryDebugger) Render() {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		clear(qd.selected)
	}

	for _, compType := range ComponentTypeNames(qd.Storage) {
		selected := qd.selected[compType]
		if imgui.Checkbox(compType, &selected) {
			if selected {
				qd.selected[compType] = true
			} else {
				delete(qd.selected, compType)
			}
		}
	}

	imgui.Separator()

	selectedTypes := make([]string, 0, len(qd.selected))
	for name := range qd.selected {
		selectedTypes = append(selectedTypes, name)
	}
	sort.Strings(selectedTypes)

	if len(selectedTypes) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matchingArchetypes := MatchingArchetypes(qd.Storage, selectedTypes)
	totalEntities := 0
	for _, arch := range matchingArchetypes {
		totalEntities += arch.Len()
	}

	imgui.Text(fmt.Sprintf("Matching Archetypes: %d", len(matchingArchetypes)))
	imgui.Text(fmt.Sprintf("Matching Entities: %d", totalEntities))

	if imgui.TreeNodeStr("Archetype Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryArchTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Archetype ID")
			imgui.TableSetupColumn("All Components")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()

			for _, arch := range matchingArchetypes {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(fmt.Sprintf("0x%X", arch.ID()))

				imgui.TableSetColumnIndex(1)
				componentNames := make([]string, len(arch.Types()))
				for i, t := range arch.Types() {
					componentNames[i] = t.String()
				}
				imgui.Text(fmt.Sprintf("%v", componentNames))

				imgui.TableSetColumnIndex(2)
				imgui.Text(fmt.Sprintf("%d", arch.Len()))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}
