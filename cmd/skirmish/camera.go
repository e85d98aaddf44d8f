package main

import "github.com/go-gl/mathgl/mgl32"

// camera maps world coordinates (+Y up) to screen pixels (+Y down), keeping center in
// the middle of the screen.
type camera struct {
	center        mgl32.Vec2
	width, height int
}

func (c camera) toScreen(p mgl32.Vec2) (float32, float32) {
	x := p.X() - c.center.X() + float32(c.width)/2
	y := float32(c.height)/2 - (p.Y() - c.center.Y())
	return x, y
}

// visible returns the world-space rectangle on screen.
func (c camera) visible() (minX, minY, maxX, maxY float32) {
	hw, hh := float32(c.width)/2, float32(c.height)/2
	return c.center.X() - hw, c.center.Y() - hh, c.center.X() + hw, c.center.Y() + hh
}
