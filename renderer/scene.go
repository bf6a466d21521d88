// Package renderer draws the game scene with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/towerblocks/config"
	"github.com/pthm-cable/towerblocks/tower"
)

// Block colors
var (
	blockFill   = rl.Color{R: 214, G: 96, B: 64, A: 255}
	blockEdge   = rl.Color{R: 120, G: 48, B: 30, A: 255}
	goldenFill  = rl.Color{R: 240, G: 196, B: 64, A: 255}
	windowLight = rl.Color{R: 255, G: 236, B: 170, A: 255}
	ropeColor   = rl.Color{R: 60, G: 60, B: 60, A: 255}
)

// SceneRenderer draws the tower, the rope and the swinging block.
type SceneRenderer struct {
	block float32
	swing config.SwingConfig
}

// NewSceneRenderer creates a scene renderer for the configured geometry.
func NewSceneRenderer(cfg *config.Config) *SceneRenderer {
	return &SceneRenderer{
		block: float32(cfg.Tower.BlockSize),
		swing: cfg.Swing,
	}
}

// DrawTower draws the visible window of the tower, newest block on top.
func (s *SceneRenderer) DrawTower(t *tower.Tower) {
	window := t.Window()
	n := len(window)
	dx := t.X + t.Wobble + t.Shake.X
	for i, x := range window {
		y := t.Y + float64(n-1-i)*float64(s.block) + t.Shake.Y
		fill := blockFill
		if t.Golden && i == n-1 {
			fill = goldenFill
		}
		s.drawBlock(float32(x+dx), float32(y), 0, fill)
	}
}

// DrawPendulum draws the rope while the block hangs from it, then the block.
// Nothing is drawn while the tower scrolls under a respawned block.
func (s *SceneRenderer) DrawPendulum(p *tower.Pendulum, t *tower.Tower) {
	if !p.Visible(t) {
		return
	}
	if p.ShowRope(t) {
		anchor := rl.Vector2{X: float32(s.swing.AnchorX), Y: float32(s.swing.AnchorY)}
		hook := rl.Vector2{X: float32(p.X) + s.block/2, Y: float32(p.Y)}
		rl.DrawLineEx(anchor, hook, 3, ropeColor)
		rl.DrawCircleV(anchor, 5, ropeColor)
	}
	s.drawBlock(float32(p.X), float32(p.Y), float32(p.Rotation), blockFill)
}

// drawBlock draws one block with its top-left corner at (x, y), rotated
// about its centre.
func (s *SceneRenderer) drawBlock(x, y, rotation float32, fill rl.Color) {
	half := s.block / 2
	rect := rl.Rectangle{X: x + half, Y: y + half, Width: s.block, Height: s.block}
	origin := rl.Vector2{X: half, Y: half}
	rl.DrawRectanglePro(rect, origin, rotation, fill)

	if rotation != 0 {
		return
	}
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: s.block, Height: s.block}, 2, blockEdge)
	pane := s.block / 5
	for _, px := range []float32{pane, 3 * pane} {
		rl.DrawRectangleRec(rl.Rectangle{X: x + px, Y: y + pane, Width: pane, Height: pane * 1.5}, windowLight)
	}
}
