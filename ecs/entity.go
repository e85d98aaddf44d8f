package ecs

// EntityId encodes the archetype ID (upper 32 bits), a slot generation (8 bits) and the
// slot index (lower 24 bits). The generation is bumped whenever a slot is freed, so an
// id held across a delete stops resolving instead of aliasing the slot's next occupant.
type EntityId uint64

const (
	indexBits      = 24
	indexMask      = 1<<indexBits - 1
	maxEntityIndex = indexMask
)

// NewEntityId creates a first-generation EntityId from an archetype ID and slot index
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return newEntityId(archetypeId, 0, index)
}

func newEntityId(archetypeId uint32, generation uint8, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(generation)<<indexBits | uint64(index&indexMask))
}

// ArchetypeId extracts the archetype ID from the entity ID
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e) & indexMask
}

// Generation extracts the slot generation from the entity ID
func (e EntityId) Generation() uint8 {
	return uint8(uint32(e) >> indexBits)
}
