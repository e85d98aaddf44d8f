package ecs

import (
	"iter"
)

// Query wraps a View and caches the archetypes that match it. The cache is rebuilt
// whenever the storage has gained archetypes since the last iteration.
// Declare Query fields on a System and the Scheduler initializes them.
type Query[T any] struct {
	view               *View[T]
	storage            *Storage
	cachedArchetypes   []*Archetype
	lastArchetypeCount int
}

// NewQuery creates a new Query with archetype-level caching.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.lastArchetypeCount = -1
}

func (q *Query[T]) refresh() {
	if q.storage == nil {
		panic("Query used before Init")
	}
	if len(q.storage.order) == q.lastArchetypeCount {
		return
	}

	q.cachedArchetypes = q.cachedArchetypes[:0]
	for _, archetype := range q.storage.order {
		if q.view.matchesArchetype(archetype) {
			q.cachedArchetypes = append(q.cachedArchetypes, archetype)
		}
	}
	q.lastArchetypeCount = len(q.storage.order)
}

// Iter returns an iterator over entity IDs and component data.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.refresh()
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range q.cachedArchetypes {
			for id, item := range q.view.iterArchetype(archetype) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Values returns an iterator over component data only.
func (q *Query[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range q.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}

// Count returns the number of live entities matching the query.
func (q *Query[T]) Count() int {
	q.refresh()
	n := 0
	for _, archetype := range q.cachedArchetypes {
		n += archetype.Len()
	}
	return n
}

// Get returns the view struct for a single entity, or nil.
func (q *Query[T]) Get(id EntityId) *T {
	if q.view == nil {
		panic("Query used before Init")
	}
	return q.view.Get(id)
}
