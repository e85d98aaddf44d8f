package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/skirmish/config"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/kinematics"
	"github.com/plus3/skirmish/shooter"
	"github.com/plus3/skirmish/steering"
)

var (
	backgroundColor = color.RGBA{18, 20, 28, 255}
	tileColor       = color.RGBA{26, 29, 40, 255}
	playerColor     = color.RGBA{120, 220, 255, 255}
	snapperColor    = color.RGBA{255, 110, 110, 255}
	pursuerColor    = color.RGBA{255, 190, 90, 255}
	projectileColor = color.RGBA{250, 250, 210, 255}
	outlineColor    = color.RGBA{255, 255, 255, 40}
)

// Game implements ebiten.Game over a shooter world. Each Update is one fixed tick;
// TPS is set from the configured time step.
type Game struct {
	cfg     *config.Config
	world   *shooter.World
	keys    *keyboard
	camera  camera
	overlay *overlay

	players     *ecs.Query[shooter.PlayerView]
	enemies     *ecs.Query[enemySprite]
	projectiles *ecs.Query[projectileSprite]
}

type enemySprite struct {
	*shooter.Enemy
	*kinematics.Transform
	*steering.Behavior
	*shooter.Collidable
}

type projectileSprite struct {
	*shooter.Projectile
	*kinematics.Transform
	*shooter.Collidable
}

func newGame(cfg *config.Config, world *shooter.World, keys *keyboard) *Game {
	storage := world.Storage()
	return &Game{
		cfg:         cfg,
		world:       world,
		keys:        keys,
		camera:      camera{width: cfg.Window.Width, height: cfg.Window.Height},
		players:     ecs.NewQuery[shooter.PlayerView](storage),
		enemies:     ecs.NewQuery[enemySprite](storage),
		projectiles: ecs.NewQuery[projectileSprite](storage),
	}
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if g.overlay != nil {
		g.overlay.begin()
	}
	g.world.Step()
	if g.overlay != nil {
		g.overlay.end()
	}

	if _, player, ok := g.world.Player(); ok {
		g.camera.center = player.Position
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.drawTiles(screen)

	for enemy := range g.enemies.Values() {
		c := snapperColor
		if enemy.Behavior.Kind == steering.RateLimitedPursuit {
			c = pursuerColor
		}
		g.drawBody(screen, *enemy.Transform, enemy.Collidable.Radius, c)
	}

	for shot := range g.projectiles.Values() {
		x, y := g.camera.toScreen(shot.Transform.Position)
		vector.StrokeCircle(screen, x, y, shot.Collidable.Radius, 1, outlineColor, true)
		vector.DrawFilledCircle(screen, x, y, 4, projectileColor, true)
	}

	for player := range g.players.Values() {
		g.drawShip(screen, *player.Transform, g.cfg.Player.Radius)
	}

	score := g.world.Score()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"kills %d  fired %d  enemies %d  tick %d  fps %.0f",
		score.Kills, score.Fired, g.enemies.Count(), g.world.Clock().Tick, ebiten.ActualFPS()))

	if g.overlay != nil {
		g.overlay.draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.camera.width, g.camera.height = outsideWidth, outsideHeight
	if g.overlay != nil {
		g.overlay.layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// drawTiles draws a checkerboard of background_tile squares so motion is visible
// while the camera follows the player.
func (g *Game) drawTiles(screen *ebiten.Image) {
	tile := g.cfg.World.BackgroundTile
	if tile <= 0 {
		return
	}

	minX, minY, maxX, maxY := g.camera.visible()
	startX := int(math.Floor(float64(minX / tile)))
	startY := int(math.Floor(float64(minY / tile)))
	endX := int(math.Ceil(float64(maxX / tile)))
	endY := int(math.Ceil(float64(maxY / tile)))

	for tx := startX; tx < endX; tx++ {
		for ty := startY; ty < endY; ty++ {
			if (tx+ty)%2 == 0 {
				continue
			}
			// top-left corner on screen is the tile's max-Y edge
			x, y := g.camera.toScreen(mgl32.Vec2{float32(tx) * tile, float32(ty+1) * tile})
			vector.DrawFilledRect(screen, x, y, tile, tile, tileColor, false)
		}
	}
}

func (g *Game) drawBody(screen *ebiten.Image, t kinematics.Transform, radius float32, c color.RGBA) {
	x, y := g.camera.toScreen(t.Position)
	vector.StrokeCircle(screen, x, y, radius, 2, c, true)

	nx, ny := g.camera.toScreen(t.Position.Add(t.Forward().Mul(radius)))
	vector.StrokeLine(screen, x, y, nx, ny, 2, c, true)
}

func (g *Game) drawShip(screen *ebiten.Image, t kinematics.Transform, radius float32) {
	forward, right := t.Forward(), t.Right()
	nose := t.Position.Add(forward.Mul(radius))
	tail := t.Position.Sub(forward.Mul(radius * 0.6))
	left := tail.Sub(right.Mul(radius * 0.7))
	rightWing := tail.Add(right.Mul(radius * 0.7))

	points := []mgl32.Vec2{nose, rightWing, t.Position, left, nose}
	for i := 0; i+1 < len(points); i++ {
		x0, y0 := g.camera.toScreen(points[i])
		x1, y1 := g.camera.toScreen(points[i+1])
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, playerColor, true)
	}
}
