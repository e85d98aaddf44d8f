package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/skirmish/shooter"
)

var bindings = map[shooter.Action][]ebiten.Key{
	shooter.TurnLeft:  {ebiten.KeyArrowLeft, ebiten.KeyA},
	shooter.TurnRight: {ebiten.KeyArrowRight, ebiten.KeyD},
	shooter.Thrust:    {ebiten.KeyArrowUp, ebiten.KeyW},
	shooter.Fire:      {ebiten.KeySpace},
}

// keyboard reads the player's actions from ebiten's key state.
type keyboard struct {
	// captured reports whether another consumer (the debug UI) owns the keyboard.
	captured func() bool
}

func (k *keyboard) Pressed(action shooter.Action) bool {
	if k.captured != nil && k.captured() {
		return false
	}
	for _, key := range bindings[action] {
		if ebiten.IsKeyPressed(key) {
			return true
		}
	}
	return false
}
