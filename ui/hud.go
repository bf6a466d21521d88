package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Score  int
	Blocks int
	Golden int
	Life   int
	Mode   string
	FPS    int32

	// Sensor state, only shown with a camera
	Camera         bool
	Faces          int
	EAR            float64
	EARThreshold   float64
	NoseX          float64
	HaveNose       bool
	BlinksDetected uint64
	BlinksReceived int
	BlinksCleared  int
	BlinksPending  int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer     *Renderer
	screenWidth  int32
	screenHeight int32
}

// NewHUD creates a new HUD renderer.
func NewHUD(screenWidth, screenHeight int32) *HUD {
	return &HUD{
		renderer:     NewRenderer(),
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	t := r.Theme

	rl.DrawText(fmt.Sprintf("%d", data.Score), t.Padding, t.Padding, 40, rl.White)
	rl.DrawText(
		fmt.Sprintf("Blocks: %d | Golden: %d | Life: %d", data.Blocks, data.Golden, data.Life),
		t.Padding, t.Padding+44, t.FontSize, t.LabelColor,
	)
	rl.DrawText(
		fmt.Sprintf("Mode: %s | FPS: %d", data.Mode, data.FPS),
		t.Padding, t.Padding+44+t.LineHeight, t.FontSize, t.LabelColor,
	)

	if data.Camera {
		h.drawSensorPanel(data)
	}
}

// drawSensorPanel shows the eye and nose readings in the top-right corner.
func (h *HUD) drawSensorPanel(data HUDData) {
	r := h.renderer
	t := r.Theme

	width := int32(230)
	x := h.screenWidth - width - t.Padding
	y := t.Padding
	r.DrawPanel(x, y, width, 6*t.LineHeight+t.Padding*2)

	x += t.Padding
	y += t.Padding
	if data.Faces == 0 {
		y = r.DrawLabelValue(x, y, "Face", "none")
	} else {
		y = r.DrawLabelValue(x, y, "Face", fmt.Sprintf("%d", data.Faces))
	}
	y = r.DrawThresholdBar(x, y, "EAR", float32(data.EAR), float32(data.EARThreshold), 0.5, width-2*t.Padding)
	if data.HaveNose {
		y = r.DrawLabelValue(x, y, "Nose", fmt.Sprintf("%.2f", data.NoseX))
	} else {
		y = r.DrawLabelValue(x, y, "Nose", "-")
	}
	y = r.DrawLabelValue(x, y, "Blinks", fmt.Sprintf("%d seen / %d used", data.BlinksDetected, data.BlinksReceived))
	r.DrawLabelValue(x, y, "Queue", fmt.Sprintf("%d pending, %d cleared", data.BlinksPending, data.BlinksCleared))
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(controls string) {
	rl.DrawText(controls, h.renderer.Theme.Padding, h.screenHeight-25, h.renderer.Theme.FontSize, rl.Gray)
}
