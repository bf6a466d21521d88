package webcam

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/pthm-cable/towerblocks/config"
	"github.com/pthm-cable/towerblocks/sensor"
)

// CascadeVision finds faces and eyes with Haar cascades and scores each eye
// by the aspect ratio of its dark outline.
type CascadeVision struct {
	cfg  config.VisionConfig
	face gocv.CascadeClassifier
	eye  gocv.CascadeClassifier
}

// NewCascadeVision loads the face and eye cascades.
func NewCascadeVision(cfg config.VisionConfig) (*CascadeVision, error) {
	face := gocv.NewCascadeClassifier()
	if !face.Load(cfg.FaceCascade) {
		face.Close()
		return nil, fmt.Errorf("loading face cascade %q", cfg.FaceCascade)
	}
	eye := gocv.NewCascadeClassifier()
	if !eye.Load(cfg.EyeCascade) {
		face.Close()
		eye.Close()
		return nil, fmt.Errorf("loading eye cascade %q", cfg.EyeCascade)
	}
	return &CascadeVision{cfg: cfg, face: face, eye: eye}, nil
}

// Detect implements sensor.Vision.
func (v *CascadeVision) Detect(gray *image.Gray) ([]sensor.Face, error) {
	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil, fmt.Errorf("converting frame: %w", err)
	}
	defer mat.Close()
	gocv.EqualizeHist(mat, &mat)

	rects := v.face.DetectMultiScale(mat)
	faces := make([]sensor.Face, 0, len(rects))
	for _, r := range rects {
		faces = append(faces, sensor.Face{
			EAR:   v.faceEAR(mat, r),
			NoseX: float64(r.Min.X + r.Dx()/2),
		})
	}
	return faces, nil
}

// faceEAR averages the two largest eyes in the upper half of the face.
// No visible eye reads as closed.
func (v *CascadeVision) faceEAR(gray gocv.Mat, face image.Rectangle) float64 {
	upper := image.Rect(face.Min.X, face.Min.Y, face.Max.X, face.Min.Y+face.Dy()/2)
	roi := gray.Region(upper)
	defer roi.Close()

	eyes := sensor.LargestRects(v.eye.DetectMultiScale(roi), 2)
	var sum float64
	var n int
	for _, e := range eyes {
		if ear, ok := v.eyeEAR(roi, e); ok {
			sum += ear
			n++
		}
	}
	if n == 0 {
		return v.cfg.ClosedEyeEAR
	}
	return sum / float64(n)
}

func (v *CascadeVision) eyeEAR(roi gocv.Mat, eye image.Rectangle) (float64, bool) {
	region := roi.Region(eye)
	defer region.Close()

	bin := gocv.NewMat()
	defer bin.Close()
	gocv.Threshold(region, &bin, 0, 255, gocv.ThresholdBinaryInv|gocv.ThresholdOtsu)

	contours := gocv.FindContours(bin, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	best, bestArea := -1, 0.0
	for i := 0; i < contours.Size(); i++ {
		if a := gocv.ContourArea(contours.At(i)); a > bestArea {
			best, bestArea = i, a
		}
	}
	if best < 0 || bestArea < v.cfg.MinEyeArea {
		return 0, false
	}

	landmarks, ok := sensor.EyeLandmarks(contours.At(best).ToPoints())
	if !ok {
		return 0, false
	}
	return sensor.EyeAspectRatio(landmarks), true
}

// Close releases the cascades.
func (v *CascadeVision) Close() error {
	v.face.Close()
	v.eye.Close()
	return nil
}
