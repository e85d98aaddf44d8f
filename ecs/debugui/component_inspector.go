package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/skirmish/ecs"
)

// ComponentInspector shows and edits the components of the browser's selected
// entity. Edits write straight into storage, so they take effect on the next tick.
type ComponentInspector struct {
	Storage *ecs.Storage
	Browser *EntityBrowser
}

func NewComponentInspector(storage *ecs.Storage, browser *EntityBrowser) *ComponentInspector {
	return &ComponentInspector{Storage: storage, Browser: browser}
}

func (ci *ComponentInspector) Render() {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	var (
		id ecs.EntityId
		ok bool
	)
	if ci.Browser != nil {
		id, ok = ci.Browser.Selected()
	}
	if !ok {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity: index %d, generation %d", id.Index(), id.Generation()))
	imgui.Text(fmt.Sprintf("Archetype: 0x%X", id.ArchetypeId()))

	archetype := ci.Storage.ArchetypeById(id.ArchetypeId())
	if archetype == nil || !ci.Storage.Alive(id) {
		imgui.Text("Despawned")
		imgui.End()
		return
	}
	imgui.Separator()

	for _, compType := range archetype.Types() {
		component := ci.Storage.GetComponent(id, compType)
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(compType.String()) {
			ci.renderComponent(component)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspector) renderComponent(component any) {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Pointer {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		ci.renderField(val.Type().Name(), val)
		return
	}
	ci.renderStruct(val)
}

func (ci *ComponentInspector) renderStruct(val reflect.Value) {
	for _, field := range globalReflectionCache.Fields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fieldVal = fieldVal.Elem()
		}
		ci.renderField(field.Name, fieldVal)
	}
}

// renderField draws an editor for val. val must be addressable, which holds for
// anything reached through a component pointer.
func (ci *ComponentInspector) renderField(name string, val reflect.Value) {
	label := "##" + name

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		fieldLabel(name, 150)
		if imgui.InputInt(label, &v) {
			val.SetInt(int64(v))
		}
		if s, ok := val.Interface().(fmt.Stringer); ok {
			imgui.SameLine()
			imgui.Text(s.String())
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		fieldLabel(name, 150)
		if imgui.InputInt(label, &v) && v >= 0 {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		fieldLabel(name, 150)
		if imgui.InputFloat(label, &v) {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		fieldLabel(name, 200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) {
			val.SetString(v)
		}

	case reflect.Array:
		// vectors such as mgl32.Vec2 and the Quat's Vec3
		if n := val.Len(); val.Type().Elem().Kind() == reflect.Float32 && val.CanAddr() && n >= 2 && n <= 4 {
			fieldLabel(name, 220)
			ptr := val.Addr().UnsafePointer()
			switch n {
			case 2:
				imgui.InputFloat2(label, (*[2]float32)(ptr))
			case 3:
				imgui.InputFloat3(label, (*[3]float32)(ptr))
			default:
				imgui.InputFloat4(label, (*[4]float32)(ptr))
			}
			return
		}
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			ci.renderStruct(val)
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	case reflect.Func:
		imgui.Text(fmt.Sprintf("%s: func", name))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

func fieldLabel(name string, width float32) {
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(width)
}
