package sensor

import (
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// EyeAspectRatio computes (|p2-p6| + |p3-p5|) / (2|p1-p4|) over six eye
// landmarks ordered corner, upper pair, corner, lower pair. Returns 0 for a
// degenerate eye.
func EyeAspectRatio(eye [6]image.Point) float64 {
	a := dist(eye[1], eye[5])
	b := dist(eye[2], eye[4])
	c := dist(eye[0], eye[3])
	if c == 0 {
		return 0
	}
	return (a + b) / (2 * c)
}

func dist(p, q image.Point) float64 {
	return floats.Distance(
		[]float64{float64(p.X), float64(p.Y)},
		[]float64{float64(q.X), float64(q.Y)},
		2,
	)
}

// EyeLandmarks reduces an eye outline to six landmarks: the two horizontal
// extremes plus the highest and lowest outline points in each half.
func EyeLandmarks(outline []image.Point) ([6]image.Point, bool) {
	var eye [6]image.Point
	if len(outline) < 6 {
		return eye, false
	}

	left, right := outline[0], outline[0]
	for _, p := range outline[1:] {
		if p.X < left.X {
			left = p
		}
		if p.X > right.X {
			right = p
		}
	}
	if right.X == left.X {
		return eye, false
	}
	mid := (left.X + right.X) / 2

	upL, upR := image.Point{Y: math.MaxInt}, image.Point{Y: math.MaxInt}
	loL, loR := image.Point{Y: math.MinInt}, image.Point{Y: math.MinInt}
	for _, p := range outline {
		if p.X <= mid {
			if p.Y < upL.Y {
				upL = p
			}
			if p.Y > loL.Y {
				loL = p
			}
		}
		if p.X >= mid {
			if p.Y < upR.Y {
				upR = p
			}
			if p.Y > loR.Y {
				loR = p
			}
		}
	}

	eye = [6]image.Point{left, upL, upR, right, loR, loL}
	return eye, true
}

// LargestRects returns up to n of rects, largest area first. Equal areas
// keep their detection order. rects is not modified.
func LargestRects(rects []image.Rectangle, n int) []image.Rectangle {
	out := make([]image.Rectangle, len(rects))
	copy(out, rects)
	sort.SliceStable(out, func(i, j int) bool {
		return area(out[i]) > area(out[j])
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}
