package renderer

import (
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// WebcamRenderer uploads camera frames to a texture and draws them behind
// the scene.
type WebcamRenderer struct {
	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA
	lastSeq    uint64

	screenW, screenH float32
	tint             rl.Color
	initialized      bool
}

// NewWebcamRenderer creates a webcam renderer. alpha is the opacity of the
// frame drawn over the background.
func NewWebcamRenderer(screenW, screenH int32, alpha uint8) *WebcamRenderer {
	return &WebcamRenderer{
		screenW: float32(screenW),
		screenH: float32(screenH),
		tint:    rl.Color{R: 255, G: 255, B: 255, A: alpha},
	}
}

// init (re)creates the texture for the given frame size.
func (r *WebcamRenderer) init(w, h int) {
	if r.initialized {
		rl.UnloadTexture(r.tex)
	}
	r.texW = w
	r.texH = h

	img := rl.GenImageColor(w, h, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	r.pixels = make([]color.RGBA, w*h)
	r.initialized = true
}

// Update uploads a frame if it has not been uploaded yet.
func (r *WebcamRenderer) Update(seq uint64, frame *image.NRGBA) {
	if frame == nil || seq == r.lastSeq {
		return
	}
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	if !r.initialized || w != r.texW || h != r.texH {
		r.init(w, h)
	}

	for y := 0; y < h; y++ {
		row := frame.Pix[y*frame.Stride : y*frame.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			r.pixels[y*w+x] = color.RGBA{R: p[0], G: p[1], B: p[2], A: 255}
		}
	}
	rl.UpdateTexture(r.tex, r.pixels)
	r.lastSeq = seq
}

// Draw stretches the latest frame over the screen.
func (r *WebcamRenderer) Draw() {
	if !r.initialized {
		return
	}
	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dstRect := rl.Rectangle{X: 0, Y: 0, Width: r.screenW, Height: r.screenH}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, r.tint)
}

// Unload frees GPU resources.
func (r *WebcamRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
