package sensor

import (
	"image"
	"math"
	"testing"
)

func TestEyeAspectRatio(t *testing.T) {
	tests := []struct {
		name string
		eye  [6]image.Point
		want float64
	}{
		{
			"open",
			[6]image.Point{{0, 5}, {3, 0}, {7, 0}, {10, 5}, {7, 10}, {3, 10}},
			1.0,
		},
		{
			"half closed",
			[6]image.Point{{0, 5}, {3, 4}, {7, 4}, {10, 5}, {7, 6}, {3, 6}},
			0.2,
		},
		{
			"degenerate",
			[6]image.Point{{5, 5}, {5, 5}, {5, 5}, {5, 5}, {5, 5}, {5, 5}},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EyeAspectRatio(tt.eye); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestEyeLandmarks(t *testing.T) {
	// Ellipse outline 20 wide, 6 tall
	var outline []image.Point
	for deg := 0; deg < 360; deg += 15 {
		a := float64(deg) * math.Pi / 180
		outline = append(outline, image.Point{
			X: 10 + int(math.Round(10*math.Cos(a))),
			Y: 10 + int(math.Round(3*math.Sin(a))),
		})
	}

	eye, ok := EyeLandmarks(outline)
	if !ok {
		t.Fatal("expected landmarks")
	}
	if eye[0].X != 0 || eye[3].X != 20 {
		t.Errorf("expected corners at x 0 and 20, got %v %v", eye[0], eye[3])
	}
	ear := EyeAspectRatio(eye)
	if ear < 0.2 || ear > 0.5 {
		t.Errorf("expected a narrow eye EAR for a 20x6 outline, got %f", ear)
	}

	if _, ok := EyeLandmarks(outline[:3]); ok {
		t.Error("short outline should not yield landmarks")
	}
}

func TestLargestRects(t *testing.T) {
	small := image.Rect(0, 0, 4, 4)
	mid := image.Rect(10, 0, 18, 8)
	big := image.Rect(30, 0, 42, 12)
	midTwin := image.Rect(50, 0, 58, 8)

	tests := []struct {
		name  string
		rects []image.Rectangle
		n     int
		want  []image.Rectangle
	}{
		{"none", nil, 2, []image.Rectangle{}},
		{"fewer than n", []image.Rectangle{small}, 2, []image.Rectangle{small}},
		{"largest first", []image.Rectangle{small, mid, big}, 2, []image.Rectangle{big, mid}},
		{"ties keep order", []image.Rectangle{midTwin, small, mid}, 2, []image.Rectangle{midTwin, mid}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]image.Rectangle(nil), tt.rects...)
			got := LargestRects(tt.rects, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d rects, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("rect %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
			for i := range in {
				if tt.rects[i] != in[i] {
					t.Error("input was reordered")
				}
			}
		})
	}
}
