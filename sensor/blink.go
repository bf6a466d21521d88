// Package sensor turns camera frames into game control events and carries
// them to the game loop over lossy channels.
package sensor

// BlinkDetector fires on the frame an eye reopens after staying closed for
// enough consecutive frames.
type BlinkDetector struct {
	threshold float64
	minFrames int

	counter int
	total   int
}

// NewBlinkDetector creates a detector for the given EAR threshold.
func NewBlinkDetector(threshold float64, minFrames int) *BlinkDetector {
	return &BlinkDetector{threshold: threshold, minFrames: minFrames}
}

// Observe feeds one EAR sample and reports whether a blink completed.
func (d *BlinkDetector) Observe(ear float64) bool {
	if ear < d.threshold {
		d.counter++
		return false
	}
	fired := d.counter >= d.minFrames
	if fired {
		d.total++
	}
	d.counter = 0
	return fired
}

// Counter is the length of the current closed-eye run.
func (d *BlinkDetector) Counter() int { return d.counter }

// Total is the number of blinks fired so far.
func (d *BlinkDetector) Total() int { return d.total }
