package shooter

import (
	"fmt"

	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/kinematics"
)

// PlayerView selects the player entity.
type PlayerView struct {
	ecs.EntityId
	*Player
	*kinematics.Transform
}

// ResolvePlayer returns the single player's handle and kinematic state. Any other
// number of players is a broken world and panics.
func ResolvePlayer(players *ecs.Query[PlayerView]) (ecs.EntityId, kinematics.Transform) {
	var (
		id    ecs.EntityId
		state kinematics.Transform
		found int
	)
	for view := range players.Values() {
		if found == 0 {
			id = view.EntityId
			state = *view.Transform
		}
		found++
	}
	if found != 1 {
		panic(fmt.Sprintf("fatal: invariant violation: expected exactly one player, found %d", found))
	}
	return id, state
}
