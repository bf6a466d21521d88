package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BackgroundRenderer draws the sky gradient and the cloud bands that slide
// down while the tower scrolls.
type BackgroundRenderer struct {
	screenW, screenH int32
	top, bottom      rl.Color
	band             rl.Color
	bandSpacing      float64
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(screenW, screenH int32) *BackgroundRenderer {
	return &BackgroundRenderer{
		screenW:     screenW,
		screenH:     screenH,
		top:         rl.Color{R: 32, G: 44, B: 84, A: 255},
		bottom:      rl.Color{R: 120, G: 170, B: 220, A: 255},
		band:        rl.Color{R: 255, G: 255, B: 255, A: 28},
		bandSpacing: 150,
	}
}

// Draw renders the background. offsetY is how far the scene has scrolled.
func (b *BackgroundRenderer) Draw(offsetY float64) {
	rl.DrawRectangleGradientV(0, 0, b.screenW, b.screenH, b.top, b.bottom)

	shift := math.Mod(offsetY, b.bandSpacing)
	for y := shift - b.bandSpacing; y < float64(b.screenH); y += b.bandSpacing {
		rl.DrawRectangle(0, int32(y), b.screenW, 18, b.band)
	}
}

