package sensor

import "image"

// Face is one face found by a Vision.
type Face struct {
	EAR   float64 // Eye aspect ratio, lower is more closed
	NoseX float64 // Pixels from the left edge of the frame
}

// Vision finds faces in a grayscale frame.
type Vision interface {
	Detect(gray *image.Gray) ([]Face, error)
}

// Device is a frame source owned by the camera worker.
type Device interface {
	Read() (image.Image, error)
	Close() error
}
