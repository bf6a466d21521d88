package sensor

import (
	"image"
	"time"
)

// Frame is a mirrored display frame plus what vision saw in it.
type Frame struct {
	Seq   uint64
	At    time.Time
	Image *image.NRGBA
	Faces int
	EAR   float64 // EAR of the last face, 0 without a face
}

// Blink is a completed blink.
type Blink struct {
	Seq uint64
	At  time.Time
}

// NoseSample is a smoothed nose position normalized to the frame width.
type NoseSample struct {
	Seq uint64
	At  time.Time
	X   float64 // 0 = left edge, 1 = right edge of the mirrored frame
}

// Feed bundles the channels from the camera worker to the game loop.
type Feed struct {
	Frames *Latest[Frame]
	Blinks *Queue[Blink]
	Nose   *Latest[NoseSample]
}

// NewFeed creates a feed whose blink queue holds blinkQueue events.
func NewFeed(blinkQueue int) *Feed {
	return &Feed{
		Frames: NewLatest[Frame](),
		Blinks: NewQueue[Blink](blinkQueue),
		Nose:   NewLatest[NoseSample](),
	}
}
