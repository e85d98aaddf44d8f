package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/skirmish/ecs"
)

// ArchetypeViewer lists the archetypes of a storage with their occupancy. Clicking
// a row narrows the entity browser to that archetype.
type ArchetypeViewer struct {
	Storage *ecs.Storage
	Browser *EntityBrowser

	rows          []ecs.ArchetypeStats
	selected      uint32
	hasSelection  bool
	sortColumn    int
	sortAscending bool
}

func NewArchetypeViewer(storage *ecs.Storage, browser *EntityBrowser) *ArchetypeViewer {
	return &ArchetypeViewer{
		Storage:    storage,
		Browser:    browser,
		sortColumn: 3,
	}
}

// Refresh re-reads occupancy from storage and re-sorts the rows.
func (av *ArchetypeViewer) Refresh() {
	av.rows = av.Storage.CollectStats().ArchetypeBreakdown
	av.sortArchetypes()
}

// Rows returns the archetypes as of the last Refresh.
func (av *ArchetypeViewer) Rows() []ecs.ArchetypeStats {
	return av.rows
}

// Select marks an archetype and filters the browser to it.
func (av *ArchetypeViewer) Select(id uint32) {
	av.selected = id
	av.hasSelection = true
	if av.Browser != nil {
		av.Browser.FilterArchetype(id)
	}
}

func (av *ArchetypeViewer) Render() {
	if !imgui.BeginV("Archetype Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	av.Refresh()

	maxEntityCount := 0
	for _, arch := range av.rows {
		maxEntityCount = max(maxEntityCount, arch.EntityCount)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ArchetypeTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Comp Count")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			av.sortColumn = int(spec.ColumnIndex())
			av.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			av.sortArchetypes()
			sortSpecs.SetSpecsDirty(false)
		}

		for _, arch := range av.rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := av.hasSelection && av.selected == arch.ID
			if imgui.SelectableBoolV(fmt.Sprintf("0x%X", arch.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				av.Select(arch.ID)
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(arch.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(arch.ComponentTypes)))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", arch.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(arch.EntityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
}

func (av *ArchetypeViewer) sortArchetypes() {
	less := func(a, b ecs.ArchetypeStats) bool {
		switch av.sortColumn {
		case 0:
			return a.ID < b.ID
		case 1:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 2:
			return len(a.ComponentTypes) < len(b.ComponentTypes)
		default:
			return a.EntityCount < b.EntityCount
		}
	}

	sort.SliceStable(av.rows, func(i, j int) bool {
		if av.sortAscending {
			return less(av.rows[i], av.rows[j])
		}
		return less(av.rows[j], av.rows[i])
	})
}
