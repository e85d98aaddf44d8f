package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/skirmish/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{1, 0},
		{0, 1},
		{0xFFFFFFFF, 0xFFFFFF},
		{0x12345678, 0x9ABCDE},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			entityId := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, entityId.ArchetypeId())
			assert.Equal(t, tt.index, entityId.Index())
			assert.Equal(t, uint8(0), entityId.Generation())
		})
	}
}

func TestSpawnEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 1.0, Y: 2.0}, &Velocity{DX: 0.5, DY: 0.5}, Score(32))
	assert.NotEqual(t, ecs.EntityId(0), id)
	assert.True(t, storage.Alive(id))

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, Position{X: 1, Y: 2}, *pos)
	assert.Equal(t, Score(32), *ecs.ReadComponent[Score](storage, id))
}

func TestSpawnWithoutComponentsPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	assert.Panics(t, func() { storage.Spawn() })
}

func TestSpawnUnregisteredComponentPanics(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	assert.Panics(t, func() { storage.Spawn(Position{}) })
}

func TestGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 3.0, Y: 4.0}, Name{Value: "Test Entity"})

	posComp := storage.GetComponent(id, reflect.TypeOf(Position{}))
	require.NotNil(t, posComp)
	pos := posComp.(*Position)
	assert.Equal(t, float32(3.0), pos.X)
	assert.Equal(t, float32(4.0), pos.Y)

	name := ecs.ReadComponent[Name](storage, id)
	require.NotNil(t, name)
	assert.Equal(t, "Test Entity", name.Value)

	assert.Nil(t, storage.GetComponent(id, reflect.TypeOf(Velocity{})))
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
}

func TestComponentPointersAreLive(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1, Y: 1})

	ecs.ReadComponent[Position](storage, id).X = 42
	assert.Equal(t, float32(42), ecs.ReadComponent[Position](storage, id).X)
}

func TestDeleteEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id1 := storage.Spawn(Position{X: 1})
	id2 := storage.Spawn(Position{X: 2})

	assert.True(t, storage.Delete(id1))
	assert.False(t, storage.Alive(id1))
	assert.True(t, storage.Alive(id2))
	assert.Nil(t, ecs.ReadComponent[Position](storage, id1))
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, id2).X)

	// a second delete of the same handle is a no-op
	assert.False(t, storage.Delete(id1))
}

func TestStaleHandleDoesNotAliasReusedSlot(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	old := storage.Spawn(Position{X: 1})
	require.True(t, storage.Delete(old))

	reused := storage.Spawn(Position{X: 9})
	assert.Equal(t, old.Index(), reused.Index(), "freed slot should be reused")
	assert.NotEqual(t, old, reused)
	assert.Equal(t, old.Generation()+1, reused.Generation())

	assert.False(t, storage.Alive(old))
	assert.Nil(t, ecs.ReadComponent[Position](storage, old))
	assert.False(t, storage.Delete(old))
	assert.True(t, storage.Alive(reused))
	assert.Equal(t, float32(9), ecs.ReadComponent[Position](storage, reused).X)
}

func TestSameComponentSetSharesArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{}, Velocity{})
	b := storage.Spawn(Velocity{}, Position{})
	c := storage.Spawn(Position{})

	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.NotEqual(t, a.ArchetypeId(), c.ArchetypeId())
	assert.Len(t, storage.Archetypes(), 2)

	arch := storage.GetArchetype(Position{}, Velocity{})
	require.NotNil(t, arch)
	assert.Equal(t, 2, arch.Len())
	assert.Same(t, arch, storage.GetArchetypeByTypes([]reflect.Type{
		reflect.TypeOf(Velocity{}), reflect.TypeOf(Position{}),
	}))
	assert.Same(t, arch, storage.ArchetypeById(a.ArchetypeId()))
	assert.Nil(t, storage.ArchetypeById(a.ArchetypeId()+1))
}

func TestAddComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 5, Y: 6})
	newId := storage.AddComponent(id, Velocity{DX: 1, DY: 2})

	assert.NotEqual(t, id, newId)
	assert.False(t, storage.Alive(id))
	assert.True(t, storage.HasComponent(newId, reflect.TypeOf(Velocity{})))
	assert.Equal(t, Position{X: 5, Y: 6}, *ecs.ReadComponent[Position](storage, newId))
	assert.Equal(t, Velocity{DX: 1, DY: 2}, *ecs.ReadComponent[Velocity](storage, newId))
}

func TestAddExistingComponentOverwrites(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 5, Y: 6})
	same := storage.AddComponent(id, Position{X: 7, Y: 8})

	assert.Equal(t, id, same)
	assert.Equal(t, Position{X: 7, Y: 8}, *ecs.ReadComponent[Position](storage, id))
}

func TestRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 5}, Velocity{DX: 1})
	newId := storage.RemoveComponent(id, reflect.TypeOf(Velocity{}))

	assert.True(t, storage.Alive(newId))
	assert.False(t, storage.HasComponent(newId, reflect.TypeOf(Velocity{})))
	assert.Equal(t, float32(5), ecs.ReadComponent[Position](storage, newId).X)

	last := storage.RemoveComponent(newId, reflect.TypeOf(Position{}))
	assert.Equal(t, ecs.EntityId(0), last)
	assert.False(t, storage.Alive(newId))
}

func TestPrimitiveComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(int32(7), "label", Tag("enemy"))
	assert.Equal(t, int32(7), *ecs.ReadComponent[int32](storage, id))
	assert.Equal(t, "label", *ecs.ReadComponent[string](storage, id))
	assert.Equal(t, Tag("enemy"), *ecs.ReadComponent[Tag](storage, id))
}

func TestInvalidComponentKindsPanic(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	assert.Panics(t, func() { storage.Spawn(map[string]int{}) })
	assert.Panics(t, func() { storage.Spawn(func() {}) })
}

func TestSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	type Config struct{ Step float64 }

	var cfg *Config
	assert.False(t, storage.ReadSingleton(&cfg))

	storage.AddSingleton(Config{Step: 0.5})
	require.True(t, storage.ReadSingleton(&cfg))
	assert.Equal(t, 0.5, cfg.Step)

	single := ecs.NewSingleton[Config](storage)
	single.Get().Step = 2
	assert.Equal(t, 2.0, cfg.Step, "all accessors share the stored value")

	// replacing keeps existing pointers valid
	storage.AddSingleton(&Config{Step: 3})
	assert.Equal(t, 3.0, cfg.Step)
	assert.True(t, single.Exists())
}

func TestSingletonAccessorBeforeCreation(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	type Late struct{ N int }

	var s ecs.Singleton[Late]
	s.Init(storage)
	assert.False(t, s.Exists())
	assert.Nil(t, s.Get())

	storage.AddSingleton(Late{N: 4})
	require.True(t, s.Exists())
	assert.Equal(t, 4, s.Get().N)
}
