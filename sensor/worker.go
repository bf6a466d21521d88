package sensor

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/towerblocks/config"
)

// WorkerStats is a snapshot of the camera worker counters.
type WorkerStats struct {
	Frames          uint64
	CaptureFailures uint64
	NoFace          uint64
	VisionErrors    uint64
	Blinks          uint64
	BlinksDropped   uint64
	LastEAR         float64
}

// LogValue implements slog.LogValuer.
func (s WorkerStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("frames", s.Frames),
		slog.Uint64("capture_failures", s.CaptureFailures),
		slog.Uint64("no_face", s.NoFace),
		slog.Uint64("vision_errors", s.VisionErrors),
		slog.Uint64("blinks", s.Blinks),
		slog.Uint64("blinks_dropped", s.BlinksDropped),
		slog.Float64("last_ear", s.LastEAR),
	)
}

// Worker owns a capture device and publishes control events into a Feed
// from its own goroutine.
type Worker struct {
	cfg    *config.Config
	dev    Device
	vision Vision
	feed   *Feed

	detector *BlinkDetector

	stop    atomic.Bool
	started atomic.Bool
	done    chan struct{}

	release    sync.Once
	releaseErr error

	// Owned by the worker goroutine
	seq      uint64
	nose     float64
	haveNose bool

	frames          atomic.Uint64
	captureFailures atomic.Uint64
	noFace          atomic.Uint64
	visionErrors    atomic.Uint64
	blinks          atomic.Uint64
	blinksDropped   atomic.Uint64
	lastEAR         atomic.Uint64 // math.Float64bits
}

// NewWorker creates a stopped worker. The worker takes ownership of dev.
func NewWorker(cfg *config.Config, dev Device, vision Vision, feed *Feed) *Worker {
	return &Worker{
		cfg:      cfg,
		dev:      dev,
		vision:   vision,
		feed:     feed,
		detector: NewBlinkDetector(cfg.Sensor.EARThreshold, cfg.Sensor.MinConsecutiveFrames),
		done:     make(chan struct{}),
	}
}

// Start launches the capture goroutine. Later calls do nothing.
func (w *Worker) Start() {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	slog.Info("worker_started", "device", w.cfg.Sensor.Device)
	go w.run()
}

// Stop asks the goroutine to exit at the top of its next iteration.
func (w *Worker) Stop() {
	w.stop.Store(true)
}

// Wait blocks until the goroutine exits or timeout elapses. Reports whether
// it exited. A worker that never started counts as exited.
func (w *Worker) Wait(timeout time.Duration) bool {
	if !w.started.Load() {
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-w.done:
		return true
	case <-timer.C:
		return false
	}
}

// Shutdown stops the worker and waits up to timeout for it to exit.
func (w *Worker) Shutdown(timeout time.Duration) bool {
	w.Stop()
	ok := w.Wait(timeout)
	if !ok {
		slog.Warn("worker_stop_timeout", "timeout", timeout)
	}
	return ok
}

// Close releases the device of a worker that was never started and keeps it
// from starting later. A running worker releases the device itself on exit.
func (w *Worker) Close() error {
	w.Stop()
	if w.started.CompareAndSwap(false, true) {
		close(w.done)
		return w.releaseDevice()
	}
	return nil
}

// Stats returns a snapshot of the counters. Safe from any goroutine.
func (w *Worker) Stats() WorkerStats {
	return WorkerStats{
		Frames:          w.frames.Load(),
		CaptureFailures: w.captureFailures.Load(),
		NoFace:          w.noFace.Load(),
		VisionErrors:    w.visionErrors.Load(),
		Blinks:          w.blinks.Load(),
		BlinksDropped:   w.blinksDropped.Load(),
		LastEAR:         math.Float64frombits(w.lastEAR.Load()),
	}
}

func (w *Worker) run() {
	defer close(w.done)
	defer func() {
		if err := w.releaseDevice(); err != nil {
			slog.Warn("device_release_failed", "error", err)
		}
		slog.Info("worker_stopped", "stats", w.Stats())
	}()

	for !w.stop.Load() {
		w.step()
	}
}

func (w *Worker) releaseDevice() error {
	w.release.Do(func() {
		w.releaseErr = w.dev.Close()
	})
	return w.releaseErr
}

// step captures and processes one frame.
func (w *Worker) step() {
	raw, err := w.dev.Read()
	if err != nil || raw == nil {
		w.captureFailures.Add(1)
		time.Sleep(w.cfg.Sensor.CaptureRetryDelay)
		return
	}

	display, gray := Prepare(raw, w.cfg.Sensor.FrameWidth)
	w.seq++
	now := time.Now()
	w.frames.Add(1)

	faces, err := w.vision.Detect(gray)
	if err != nil {
		w.visionErrors.Add(1)
		faces = nil
	}

	frame := Frame{Seq: w.seq, At: now, Image: display, Faces: len(faces)}
	if len(faces) == 0 {
		w.noFace.Add(1)
		w.feed.Frames.Publish(frame)
		return
	}

	// Several faces: the last one drives the controls
	face := faces[len(faces)-1]
	frame.EAR = face.EAR
	w.lastEAR.Store(math.Float64bits(face.EAR))

	if w.detector.Observe(face.EAR) {
		w.blinks.Add(1)
		if !w.feed.Blinks.Offer(Blink{Seq: w.seq, At: now}) {
			w.blinksDropped.Add(1)
		}
	}

	if width := display.Bounds().Dx(); width > 0 {
		x := face.NoseX / float64(width)
		if !w.haveNose {
			w.nose = x
			w.haveNose = true
		} else {
			w.nose += w.cfg.Sensor.NoseSmoothing * (x - w.nose)
		}
		w.feed.Nose.Publish(NoseSample{Seq: w.seq, At: now, X: w.nose})
	}

	w.feed.Frames.Publish(frame)
}
