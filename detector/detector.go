// Package detector locates faces in webcam frames with the pigo cascade
// classifier and turns the strongest one into a swarm pointer position.
package detector

import (
	"errors"
	"fmt"
	"image"

	pigo "github.com/esimov/pigo/core"
)

// minCascadeSize covers the cascade header: version, tree depth and tree count.
const minCascadeSize = 16

var ErrInvalidCascade = errors.New("detector: invalid cascade")

// Detector wraps an unpacked facefinder cascade.
type Detector struct {
	classifier *pigo.Pigo

	MinSize     int
	MaxSize     int
	ShiftFactor float64
	ScaleFactor float64
	IoU         float64
	Threshold   float32
}

// New unpacks the facefinder cascade. This will return the number of cascade
// trees, the tree depth, the threshold and the prediction from tree's leaf nodes.
func New(cascade []byte) (d *Detector, err error) {
	if len(cascade) < minCascadeSize {
		return nil, ErrInvalidCascade
	}
	// pigo indexes the packet without bounds checks.
	defer func() {
		if r := recover(); r != nil {
			d, err = nil, fmt.Errorf("%w: %v", ErrInvalidCascade, r)
		}
	}()

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("detector: unpack facefinder cascade: %w", err)
	}
	return &Detector{
		classifier:  classifier,
		MinSize:     100,
		MaxSize:     1200,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		IoU:         0.1,
		Threshold:   5.0,
	}, nil
}

// Detect runs the cascade over a grayscale frame and returns the clustered
// detections scoring above the threshold.
func (d *Detector) Detect(gray []uint8, width, height int) []pigo.Detection {
	if width <= 0 || height <= 0 || len(gray) < width*height {
		return nil
	}
	cParams := pigo.CascadeParams{
		MinSize:     d.MinSize,
		MaxSize:     d.MaxSize,
		ShiftFactor: d.ShiftFactor,
		ScaleFactor: d.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: gray,
			Rows:   height,
			Cols:   width,
			Dim:    width,
		},
	}
	dets := d.classifier.RunCascade(cParams, 0.0)
	dets = d.classifier.ClusterDetections(dets, d.IoU)

	out := dets[:0]
	for _, det := range dets {
		if det.Q >= d.Threshold {
			out = append(out, det)
		}
	}
	return out
}

// Strongest returns the detection with the highest score.
func Strongest(dets []pigo.Detection) (pigo.Detection, bool) {
	if len(dets) == 0 {
		return pigo.Detection{}, false
	}
	best := dets[0]
	for _, det := range dets[1:] {
		if det.Q > best.Q {
			best = det
		}
	}
	return best, true
}

// Pointer maps a detection center onto the swarm XY plane spanning
// [-extent, extent]. The horizontal axis is mirrored so the swarm follows
// the viewer like a mirror image.
func Pointer(det pigo.Detection, width, height int, extent float32) (x, y float32) {
	nx := float32(det.Col) / float32(width)
	ny := float32(det.Row) / float32(height)
	return (1 - 2*nx) * extent, (1 - 2*ny) * extent
}

// Grayscale converts a packed RGBA frame, as read from a canvas, into the
// grayscale pixel slice expected by Detect.
func Grayscale(rgba []uint8, width, height int) []uint8 {
	img := &image.NRGBA{
		Pix:    rgba,
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}
	return pigo.RgbToGrayscale(img)
}
