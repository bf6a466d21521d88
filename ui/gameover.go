package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// GameOverData is what the game-over panel shows.
type GameOverData struct {
	Reason        string
	Score         int
	Blocks        int
	Golden        int
	PromptVisible bool
}

// GameOverPanel is the end-of-life screen with a restart button.
type GameOverPanel struct {
	renderer     *Renderer
	screenWidth  int32
	screenHeight int32
}

// NewGameOverPanel creates the panel centred on the screen.
func NewGameOverPanel(screenWidth, screenHeight int32) *GameOverPanel {
	return &GameOverPanel{
		renderer:     NewRenderer(),
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
	}
}

// Draw renders the panel and reports whether the restart button was clicked.
func (p *GameOverPanel) Draw(data GameOverData) bool {
	r := p.renderer
	const w, h = 320, 230
	x := float32(p.screenWidth-w) / 2
	y := float32(p.screenHeight-h) / 2
	cx := p.screenWidth / 2

	rl.DrawRectangle(0, 0, p.screenWidth, p.screenHeight, rl.Color{R: 0, G: 0, B: 0, A: 120})
	gui.Panel(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, "GAME OVER")

	top := int32(y) + 40
	r.DrawCentered(fmt.Sprintf("%d", data.Score), cx, top, 48, rl.DarkGray)
	r.DrawCentered(
		fmt.Sprintf("%d blocks, %d golden", data.Blocks, data.Golden),
		cx, top+56, r.Theme.FontSize, rl.Gray,
	)
	r.DrawCentered(data.Reason, cx, top+56+r.Theme.LineHeight, r.Theme.FontSize, rl.Gray)

	restart := gui.Button(rl.Rectangle{X: x + (w-140)/2, Y: y + h - 70, Width: 140, Height: 30}, "Restart")

	if data.PromptVisible {
		r.DrawCentered("press space or R to play again", cx, int32(y)+h-30, r.Theme.FontSize, rl.DarkGray)
	}
	return restart
}
