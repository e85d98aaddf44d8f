package ecs

// UpdateFrame is handed to every system during one scheduler pass.
type UpdateFrame struct {
	// Tick counts scheduler passes, starting at 1.
	Tick      uint64
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(tick uint64, dt float64, storage *Storage, commands *Commands) *UpdateFrame {
	return &UpdateFrame{
		Tick:      tick,
		DeltaTime: dt,
		Commands:  commands,
		Storage:   storage,
	}
}

// DT returns the frame's delta time as float32, the precision systems simulate in.
func (f *UpdateFrame) DT() float32 {
	return float32(f.DeltaTime)
}
