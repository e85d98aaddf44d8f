package ecs

// System is one step of a scheduler pass. Implementations declare Query and Singleton
// fields for the data they touch; the Scheduler binds those fields on Register. Any
// other fields are system state that persists between passes.
type System interface {
	Execute(frame *UpdateFrame)
}
