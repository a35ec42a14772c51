// Package perception converts a single camera frame into an incremental
// update of a persistent world evidence grid plus per-frame navigation
// cues. The pipeline is invoked once per control tick via Perceptor.Step.
package perception

import (
	"image"

	"gonum.org/v1/gonum/mat"
)

// Thresholds is a per-channel RGB threshold triple.
type Thresholds [3]uint8

// Default thresholds, tuned for the simulated terrain. Light ground sits
// well above 105 on all channels; the sample rocks are a yellow band with
// a dark blue channel.
var (
	DefaultNavThresh  = Thresholds{105, 105, 105}
	DefaultRockThresh = Thresholds{100, 100, 60}
)

// ColorThresh returns a binary mask with 1 wherever all three channels of
// img strictly exceed their thresholds. Mask dimensions are (height, width).
func ColorThresh(img *image.RGBA, thresh Thresholds) *mat.Dense {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			if c.R > thresh[0] && c.G > thresh[1] && c.B > thresh[2] {
				mask.Set(y, x, 1)
			}
		}
	}
	return mask
}

// ObstacleThresh returns the exact complement of ColorThresh: the rectified
// scene is a binary partition of ground and not-ground.
func ObstacleThresh(img *image.RGBA, thresh Thresholds) *mat.Dense {
	mask := ColorThresh(img, thresh)
	r, c := mask.Dims()
	for y := 0; y < r; y++ {
		for x := 0; x < c; x++ {
			mask.Set(y, x, 1-mask.At(y, x))
		}
	}
	return mask
}

// RocksThresh returns a binary mask isolating the target-marker hue band:
// red and green strictly above their thresholds, blue strictly below.
func RocksThresh(img *image.RGBA, thresh Thresholds) *mat.Dense {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			if c.R > thresh[0] && c.G > thresh[1] && c.B < thresh[2] {
				mask.Set(y, x, 1)
			}
		}
	}
	return mask
}
