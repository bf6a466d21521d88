package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/towerblocks/sensor"
	"github.com/pthm-cable/towerblocks/session"
	"github.com/pthm-cable/towerblocks/telemetry"
	"github.com/pthm-cable/towerblocks/ui"
)

const controlsLegend = "[SPACE] drop  [M] mode  [C] clear blinks  [R] restart  [F11] fullscreen"

// Particle colors
var (
	dustColor   = rl.Color{R: 220, G: 210, B: 190, A: 220}
	goldColor   = rl.Color{R: 255, G: 220, B: 90, A: 240}
	rubbleColor = rl.Color{R: 120, G: 70, B: 50, A: 230}
)

// Draw renders the scene to the render target and scales it to the window.
func (g *Game) Draw() {
	g.perfCollector.StartPhase(telemetry.PhaseDraw)
	g.perfCollector.RecordFrame()

	s := g.loop.Session()
	frame, haveFrame := g.loop.Frame()
	if haveFrame {
		g.webcam.Update(frame.Seq, frame.Image)
	}

	rl.BeginTextureMode(g.target)
	rl.ClearBackground(rl.Black)

	g.background.Draw(s.BackgroundY)
	g.webcam.Draw()
	g.scene.DrawTower(s.Tower)
	g.scene.DrawPendulum(s.Pendulum, s.Tower)
	g.particles.Draw()

	g.hud.Draw(g.hudData(s, frame, haveFrame))
	if s.Phase == session.GameOver {
		g.restartClicked = g.gameOver.Draw(ui.GameOverData{
			Reason:        reasonText(s.EndReason),
			Score:         s.FinalScore,
			Blocks:        s.FinalBlocks,
			Golden:        s.GoldenCount,
			PromptVisible: s.PromptVisible(),
		})
	} else {
		g.hud.DrawControls(controlsLegend)
	}

	rl.EndTextureMode()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	src := rl.Rectangle{X: 0, Y: 0, Width: g.cfg.Derived.ScreenW32, Height: -g.cfg.Derived.ScreenH32}
	rl.DrawTexturePro(g.target.Texture, src, g.letterbox(), rl.Vector2{}, 0, rl.White)
	rl.EndDrawing()

	g.perfCollector.EndTick()
}

// hudData collects the HUD fields for this frame.
func (g *Game) hudData(s *session.Session, frame sensor.Frame, haveFrame bool) ui.HUDData {
	d := ui.HUDData{
		Score:          s.Score,
		Blocks:         s.Tower.Size(),
		Golden:         s.GoldenCount,
		Life:           s.Life,
		Mode:           s.Mode.String(),
		FPS:            rl.GetFPS(),
		Camera:         g.feed != nil,
		EARThreshold:   g.cfg.Sensor.EARThreshold,
		BlinksReceived: g.loop.BlinksReceived(),
		BlinksCleared:  g.loop.BlinksCleared(),
	}
	if haveFrame {
		d.Faces = frame.Faces
		d.EAR = frame.EAR
	}
	if nose, ok := g.loop.Nose(); ok {
		d.NoseX = nose.X
		d.HaveNose = true
	}
	if g.feed != nil {
		d.BlinksPending = g.feed.Blinks.Len()
	}
	if g.worker != nil {
		d.BlinksDetected = g.worker.Stats().Blinks
	}
	return d
}

// spawnParticles throws dust for landings and rubble for collapses.
func (g *Game) spawnParticles(events []session.Event) {
	s := g.loop.Session()
	t := s.Tower
	block := float32(g.cfg.Tower.BlockSize)
	for _, e := range events {
		switch e.Kind {
		case session.EventBuilt, session.EventGolden:
			top, ok := t.Top()
			if !ok {
				continue
			}
			color := dustColor
			if e.Kind == session.EventGolden {
				color = goldColor
			}
			x := float32(top + t.X + t.Wobble)
			g.particles.Emit(x, float32(t.Y)+block, block, 12, color)
		case session.EventToppled:
			p := s.Pendulum
			g.particles.Emit(float32(p.X), float32(p.Y)+block, block, 16, rubbleColor)
		case session.EventCollapsed:
			top, _ := t.Top()
			x := float32(top + t.X + t.Wobble)
			g.particles.Emit(x-block, float32(t.Y)+block, 3*block, 40, rubbleColor)
		case session.EventRestarted:
			g.particles.Clear()
		}
	}
}

// reasonText is the game-over line for each way a life can end.
func reasonText(r session.EndReason) string {
	switch r {
	case session.EndTowerFell:
		return "the tower fell"
	case session.EndToppled:
		return "the block toppled off"
	case session.EndMissed:
		return "the block missed the tower"
	default:
		return ""
	}
}
