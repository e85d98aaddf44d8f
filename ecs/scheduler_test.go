package ecs_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/plus3/skirmish/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Movers ecs.Query[struct {
		*Position
		*Velocity
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	dt := frame.DT()
	for item := range s.Movers.Values() {
		item.Position.X += item.Velocity.DX * dt
		item.Position.Y += item.Velocity.DY * dt
	}
}

type ScoreSystem struct {
	Total ecs.Singleton[Score]
}

func (s *ScoreSystem) Execute(frame *ecs.UpdateFrame) {
	*s.Total.Get() += 1
}

type recordingSystem struct {
	name string
	log  *[]string
}

func (s *recordingSystem) Execute(frame *ecs.UpdateFrame) {
	*s.log = append(*s.log, s.name)
}

func TestSchedulerBindsQueriesAndSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton[Score](storage)
	id := storage.Spawn(Position{}, Velocity{DX: 10, DY: -4})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&MovementSystem{})
	scheduler.Register(&ScoreSystem{})

	scheduler.Once(0.5)
	scheduler.Once(0.5)

	pos := ecs.ReadComponent[Position](storage, id)
	assert.InDelta(t, 10, pos.X, 1e-6)
	assert.InDelta(t, -4, pos.Y, 1e-6)

	var score *Score
	require.True(t, storage.ReadSingleton(&score))
	assert.Equal(t, Score(2), *score)
}

func TestSchedulerRunsSystemsInRegistrationOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	var log []string

	scheduler := ecs.NewScheduler(storage)
	for _, name := range []string{"steer", "move", "collide"} {
		scheduler.Register(&recordingSystem{name: name, log: &log})
	}

	scheduler.Once(0.016)
	scheduler.Once(0.016)

	assert.Equal(t, []string{"steer", "move", "collide", "steer", "move", "collide"}, log)
	assert.Equal(t, uint64(2), scheduler.Ticks())
}

func TestSchedulerFrameCarriesTickAndDelta(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var ticks []uint64
	var deltas []float64
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&commandSystem{fn: func(frame *ecs.UpdateFrame) {
		ticks = append(ticks, frame.Tick)
		deltas = append(deltas, frame.DeltaTime)
	}})

	scheduler.Once(0.25)
	scheduler.Once(0.5)

	assert.Equal(t, []uint64{1, 2}, ticks)
	assert.Equal(t, []float64{0.25, 0.5}, deltas)
}

func TestSchedulerStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	var log []string

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&MovementSystem{})
	scheduler.Register(&recordingSystem{name: "r", log: &log})

	stats := scheduler.GetStats()
	assert.Equal(t, 2, stats.SystemCount)
	require.Len(t, stats.Systems, 2)
	assert.Equal(t, "MovementSystem", stats.Systems[0].Name)
	assert.Equal(t, "recordingSystem", stats.Systems[1].Name)
	assert.Zero(t, stats.Systems[0].MinDuration, "unrun systems report zero")

	for range 3 {
		scheduler.Once(0.016)
	}

	stats = scheduler.GetStats()
	assert.Equal(t, uint64(3), stats.Ticks)
	assert.Equal(t, int64(6), stats.TotalExecutions)
	for _, system := range stats.Systems {
		assert.Equal(t, int64(3), system.ExecutionCount)
		assert.LessOrEqual(t, system.MinDuration, system.MaxDuration)
		assert.LessOrEqual(t, system.AvgDuration, system.MaxDuration)
		assert.GreaterOrEqual(t, system.TotalDuration, system.LastDuration)
	}
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var mu sync.Mutex
	passes := 0
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&commandSystem{fn: func(frame *ecs.UpdateFrame) {
		mu.Lock()
		passes++
		mu.Unlock()
	}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return passes >= 3
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSchedulerRunFixedUsesFixedDelta(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	clock := ecs.NewFixedStep(2*time.Millisecond, ecs.DropSurplus, 0)

	var mu sync.Mutex
	var deltas []float64
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&commandSystem{fn: func(frame *ecs.UpdateFrame) {
		mu.Lock()
		deltas = append(deltas, frame.DeltaTime)
		mu.Unlock()
	}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.RunFixed(ctx, clock)
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(deltas) >= 3
	}, time.Second, time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	for _, dt := range deltas {
		assert.Equal(t, clock.Seconds(), dt)
	}
}
