package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/skirmish/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityId
	ArchetypeID    uint32
	ComponentTypes []string
}

// EntityBrowser lists the live entities of a storage with text and archetype
// filters. The selected entity feeds the ComponentInspector.
type EntityBrowser struct {
	Storage  *ecs.Storage
	PageSize int

	entities      []EntityInfo
	sortColumn    int
	sortAscending bool

	filterText      string
	filterArchetype uint32
	hasArchFilter   bool

	selected     ecs.EntityId
	hasSelection bool
	currentPage  int
}

func NewEntityBrowser(storage *ecs.Storage, pageSize int) *EntityBrowser {
	if pageSize < 1 {
		pageSize = 100
	}
	return &EntityBrowser{
		Storage:       storage,
		PageSize:      pageSize,
		sortAscending: true,
	}
}

// Refresh rebuilds the entity list. The game world churns every tick, so the
// browser refreshes on every render rather than on archetype changes.
func (eb *EntityBrowser) Refresh() {
	eb.entities = eb.entities[:0]

	for _, archetype := range eb.Storage.Archetypes() {
		componentTypes := make([]string, len(archetype.Types()))
		for i, t := range archetype.Types() {
			componentTypes[i] = t.String()
		}

		for entityId := range archetype.Iter() {
			eb.entities = append(eb.entities, EntityInfo{
				ID:             entityId,
				ArchetypeID:    archetype.ID(),
				ComponentTypes: componentTypes,
			})
		}
	}

	eb.sortEntities()
}

// Entities returns the refreshed entities that pass the current filters.
func (eb *EntityBrowser) Entities() []EntityInfo {
	if eb.filterText == "" && !eb.hasArchFilter {
		return eb.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.entities {
		if eb.hasArchFilter && entity.ArchetypeID != eb.filterArchetype {
			continue
		}

		if filterLower != "" {
			idStr := fmt.Sprintf("%d", entity.ID)
			archStr := fmt.Sprintf("0x%x", entity.ArchetypeID)
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(archStr, filterLower) &&
				!strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func (eb *EntityBrowser) SetFilter(text string) {
	eb.filterText = text
	eb.currentPage = 0
}

// FilterArchetype restricts the list to one archetype.
func (eb *EntityBrowser) FilterArchetype(id uint32) {
	eb.filterArchetype = id
	eb.hasArchFilter = true
	eb.currentPage = 0
}

func (eb *EntityBrowser) ClearFilter() {
	eb.filterText = ""
	eb.hasArchFilter = false
	eb.currentPage = 0
}

func (eb *EntityBrowser) Select(id ecs.EntityId) {
	eb.selected = id
	eb.hasSelection = true
}

// Selected returns the selected entity. It stays selected after it despawns.
func (eb *EntityBrowser) Selected() (ecs.EntityId, bool) {
	return eb.selected, eb.hasSelection
}

func (eb *EntityBrowser) Render() {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.Refresh()

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.ClearFilter()
	}
	if eb.hasArchFilter {
		imgui.Text(fmt.Sprintf("Archetype: 0x%X", eb.filterArchetype))
	}

	filteredEntities := eb.Entities()
	totalPages := max(1, (len(filteredEntities)+eb.PageSize-1)/eb.PageSize)
	eb.currentPage = min(eb.currentPage, totalPages-1)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 300), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.sortColumn = int(spec.ColumnIndex())
			eb.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			filteredEntities = eb.Entities()
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := eb.currentPage * eb.PageSize
		endIdx := min(startIdx+eb.PageSize, len(filteredEntities))

		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.hasSelection && eb.selected == entity.ID
			label := fmt.Sprintf("%d:%d", entity.ID.Index(), entity.ID.Generation())
			if imgui.SelectableBoolV(label, isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.Select(entity.ID)
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", entity.ArchetypeID))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(entity.ComponentTypes)))
		}

		imgui.EndTable()
	}

	if totalPages > 1 {
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

func (eb *EntityBrowser) sortEntities() {
	less := func(a, b EntityInfo) bool {
		switch eb.sortColumn {
		case 1:
			return a.ArchetypeID < b.ArchetypeID
		case 2:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 3:
			return len(a.ComponentTypes) < len(b.ComponentTypes)
		default:
			return a.ID < b.ID
		}
	}

	sort.SliceStable(eb.entities, func(i, j int) bool {
		if eb.sortAscending {
			return less(eb.entities[i], eb.entities[j])
		}
		return less(eb.entities[j], eb.entities[i])
	})
}
