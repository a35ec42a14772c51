package perception

import (
	"image"

	"gonum.org/v1/gonum/mat"
)

// Overlay channels, matching the world map layer order: red carries the
// obstacle mask, green the rock mask, blue the navigable mask.
const (
	ObstacleChannel  = 0
	RockChannel      = 1
	NavigableChannel = 2
)

// VisionOverlay is the live view of the current frame's classification
// masks, each scaled to full intensity. It is fully overwritten every
// frame and accumulates nothing.
type VisionOverlay struct {
	img *image.RGBA
}

// NewVisionOverlay returns an opaque black overlay of the given size.
func NewVisionOverlay(width, height int) *VisionOverlay {
	v := &VisionOverlay{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v.img.Pix[v.img.PixOffset(x, y)+3] = 255
		}
	}
	return v
}

// Image returns the overlay for display.
func (v *VisionOverlay) Image() *image.RGBA {
	return v.img
}

// SetChannel overwrites one color channel from a binary mask, scaling on
// pixels to 255. The mask must match the overlay's dimensions.
func (v *VisionOverlay) SetChannel(channel int, mask *mat.Dense) {
	rows, cols := mask.Dims()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var val uint8
			if mask.At(y, x) != 0 {
				val = 255
			}
			v.img.Pix[v.img.PixOffset(x, y)+channel] = val
		}
	}
}

// ClearChannel zeroes one color channel.
func (v *VisionOverlay) ClearChannel(channel int) {
	b := v.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v.img.Pix[v.img.PixOffset(x, y)+channel] = 0
		}
	}
}

// Channel reads one color channel value at (x, y).
func (v *VisionOverlay) Channel(channel, x, y int) uint8 {
	return v.img.Pix[v.img.PixOffset(x, y)+channel]
}
