package main

import "github.com/plus3/skirmish/shooter"

// script is a deterministic pilot: it fires whenever it can, sweeps its heading left
// and right, and thrusts in bursts so the ship keeps meeting new waves.
type script struct {
	turnPeriod   uint64
	thrustPeriod uint64
}

func newScript() script {
	return script{turnPeriod: 90, thrustPeriod: 240}
}

func (s script) pressed(tick uint64, action shooter.Action) bool {
	switch action {
	case shooter.Fire:
		return true
	case shooter.TurnLeft:
		return (tick/s.turnPeriod)%2 == 0
	case shooter.TurnRight:
		return (tick/s.turnPeriod)%2 == 1
	case shooter.Thrust:
		return tick%s.thrustPeriod < s.thrustPeriod/2
	default:
		return false
	}
}

// source adapts the script to the world's input, reading the tick being simulated.
func (s script) source(tick func() uint64) shooter.InputSource {
	return shooter.InputFunc(func(action shooter.Action) bool {
		return s.pressed(tick(), action)
	})
}
