// Package webcam provides the gocv-backed camera device and face vision.
package webcam

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ErrNoFrame is returned when the camera produced no frame.
var ErrNoFrame = errors.New("webcam: no frame")

// Device is an opened video capture device.
type Device struct {
	id      int
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

// Open opens the camera with the given index.
func Open(id int) (*Device, error) {
	capture, err := gocv.VideoCaptureDevice(id)
	if err != nil {
		return nil, fmt.Errorf("opening camera %d: %w", id, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("opening camera %d: device not available", id)
	}
	return &Device{id: id, capture: capture, mat: gocv.NewMat()}, nil
}

// Read captures one frame.
func (d *Device) Read() (image.Image, error) {
	if ok := d.capture.Read(&d.mat); !ok || d.mat.Empty() {
		return nil, ErrNoFrame
	}
	img, err := d.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("converting frame: %w", err)
	}
	return img, nil
}

// Close releases the capture device.
func (d *Device) Close() error {
	return errors.Join(d.mat.Close(), d.capture.Close())
}

// ID returns the camera index.
func (d *Device) ID() int {
	return d.id
}
