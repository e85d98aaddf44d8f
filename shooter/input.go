package shooter

import "fmt"

// Action is a player command.
type Action uint8

const (
	TurnLeft Action = iota
	TurnRight
	Thrust
	Fire
	actionCount
)

func (a Action) String() string {
	switch a {
	case TurnLeft:
		return "turn-left"
	case TurnRight:
		return "turn-right"
	case Thrust:
		return "thrust"
	case Fire:
		return "fire"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// InputSource reports which actions are held this tick.
type InputSource interface {
	Pressed(action Action) bool
}

// InputFunc adapts a function to InputSource.
type InputFunc func(action Action) bool

func (f InputFunc) Pressed(action Action) bool {
	return f(action)
}

// NoInput never presses anything.
type NoInput struct{}

func (NoInput) Pressed(Action) bool { return false }

// InputState is a settable InputSource, useful for scripted play and tests.
type InputState [actionCount]bool

func (s *InputState) Pressed(action Action) bool {
	return action < actionCount && s[action]
}

// Set presses or releases an action.
func (s *InputState) Set(action Action, down bool) {
	if action < actionCount {
		s[action] = down
	}
}
