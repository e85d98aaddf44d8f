package ecs

import (
	"iter"
	"reflect"
	"slices"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype represents a unique combination of component types. Every component of
// one entity lives at the same slot index across the archetype's storages.
type Archetype struct {
	id          uint32
	types       []reflect.Type
	storages    []iComponentStorage
	generations []uint8
}

// NewArchetype creates a new archetype with the given ID and sorted component types
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]iComponentStorage, len(types)),
	}

	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[idx] = factory()
	}

	return a
}

// Spawn stores the components of a new entity and returns its id
func (a *Archetype) Spawn(components []any) EntityId {
	storagePos := -1
	for _, comp := range components {
		compType := reflect.TypeOf(comp)
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		idx := a.storageIndex(compType)
		if idx == -1 {
			panic("component type " + compType.String() + " does not belong to archetype")
		}
		pos := a.storages[idx].Append(comp)
		if storagePos != -1 && pos != storagePos {
			panic("archetype storages out of step")
		}
		storagePos = pos
	}

	if storagePos > maxEntityIndex {
		panic("archetype slot index overflow")
	}
	for len(a.generations) <= storagePos {
		a.generations = append(a.generations, 0)
	}

	return newEntityId(a.id, a.generations[storagePos], uint32(storagePos))
}

// Alive reports whether id refers to a live entity of this archetype
func (a *Archetype) Alive(id EntityId) bool {
	if id.ArchetypeId() != a.id || len(a.storages) == 0 {
		return false
	}
	index := int(id.Index())
	if index >= len(a.generations) || a.generations[index] != id.Generation() {
		return false
	}
	return a.storages[0].Has(index)
}

// GetComponent returns a pointer to the component of the given type, or nil when the
// entity is stale or the archetype lacks the type
func (a *Archetype) GetComponent(id EntityId, compType reflect.Type) any {
	if !a.Alive(id) {
		return nil
	}
	idx := a.storageIndex(compType)
	if idx == -1 {
		return nil
	}
	return a.storages[idx].Get(int(id.Index()))
}

// Delete frees the entity's slot and advances its generation. Returns false for stale
// or unknown ids.
func (a *Archetype) Delete(id EntityId) bool {
	if !a.Alive(id) {
		return false
	}
	index := int(id.Index())
	for _, storage := range a.storages {
		storage.Delete(index)
	}
	a.generations[index]++
	return true
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in this archetype
func (a *Archetype) Len() int {
	if len(a.storages) == 0 {
		return 0
	}
	return a.storages[0].Len()
}

// Iter returns an iterator over all live EntityIds in slot order
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		if len(a.storages) == 0 {
			return
		}
		for index := range a.storages[0].Iter() {
			if !yield(a.idAt(index)) {
				return
			}
		}
	}
}

func (a *Archetype) idAt(index int) EntityId {
	return newEntityId(a.id, a.generations[index], uint32(index))
}

func (a *Archetype) storageIndex(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}
