package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/towerblocks/session"
)

// readKeys samples the keyboard for this tick.
func (g *Game) readKeys() session.Keys {
	k := session.Keys{
		Drop:        rl.IsKeyPressed(rl.KeySpace),
		Restart:     rl.IsKeyPressed(rl.KeyR) || rl.IsKeyPressed(rl.KeyEnter) || g.restartClicked,
		ToggleMode:  rl.IsKeyPressed(rl.KeyM),
		ClearBlinks: rl.IsKeyPressed(rl.KeyC),
	}
	g.restartClicked = false

	if g.bot != nil {
		b := g.bot.Keys(g.loop.Session())
		k.Drop = k.Drop || b.Drop
		k.Restart = k.Restart || b.Restart
	}
	return k
}

// handleWindowInput handles fullscreen and keeps the mouse in scene
// coordinates while the scene is scaled to the window.
func (g *Game) handleWindowInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	g.camera.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	if g.camera.Zoom <= 0 {
		return
	}
	rl.SetMouseOffset(-int(g.camera.OffsetX), -int(g.camera.OffsetY))
	rl.SetMouseScale(1/g.camera.Zoom, 1/g.camera.Zoom)
}

// letterbox returns the window rectangle the scene is drawn into.
func (g *Game) letterbox() rl.Rectangle {
	x, y, w, h := g.camera.Dest()
	return rl.Rectangle{X: x, Y: y, Width: w, Height: h}
}
