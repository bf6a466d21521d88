package sensor

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Prepare scales a captured frame to width (0 keeps the size), mirrors it
// for display and returns the grayscale copy handed to vision.
func Prepare(src image.Image, width int) (*image.NRGBA, *image.Gray) {
	img := src
	if width > 0 && src.Bounds().Dx() != width {
		img = imaging.Resize(src, width, 0, imaging.Linear)
	}
	mirrored := imaging.FlipH(img)

	gray := image.NewGray(mirrored.Bounds())
	draw.Draw(gray, gray.Bounds(), mirrored, mirrored.Bounds().Min, draw.Src)
	return mirrored, gray
}
