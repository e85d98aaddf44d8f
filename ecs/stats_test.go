package ecs_test

import (
	"testing"

	"github.com/plus3/skirmish/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	stats := storage.CollectStats()
	assert.Zero(t, stats.ArchetypeCount)
	assert.Zero(t, stats.TotalEntityCount)
	assert.Empty(t, stats.ArchetypeBreakdown)

	storage.Spawn(Position{})
	storage.Spawn(Position{})
	doomed := storage.Spawn(Position{}, Velocity{})
	storage.AddSingleton(Score(0))
	storage.AddSingleton(Tag("world"))
	storage.Delete(doomed)

	stats = storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 2, stats.TotalEntityCount)
	assert.Equal(t, 2, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Score", "ecs_test.Tag"}, stats.SingletonTypes)

	require.Len(t, stats.ArchetypeBreakdown, 2)
	assert.Equal(t, 2, stats.ArchetypeBreakdown[0].EntityCount)
	assert.Equal(t, []string{"ecs_test.Position"}, stats.ArchetypeBreakdown[0].ComponentTypes)
	assert.Zero(t, stats.ArchetypeBreakdown[1].EntityCount)
	assert.Len(t, stats.ArchetypeBreakdown[1].ComponentTypes, 2)
}
