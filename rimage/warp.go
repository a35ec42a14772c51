// Package rimage contains image-plane operations for the perception
// pipeline: perspective warping and binary-mask morphology.
package rimage

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// GetPerspectiveTransform computes the 3x3 homography that maps the four
// src points onto the four dst points. The points must form a
// non-degenerate quadrilateral.
func GetPerspectiveTransform(src, dst []image.Point) (mat.Matrix, error) {
	if len(src) != 4 || len(dst) != 4 {
		return nil, errors.Errorf("need exactly 4 point pairs, got %d src and %d dst", len(src), len(dst))
	}

	// 8 unknowns (h00..h21), h22 pinned to 1.
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i, s := range src {
		sx, sy := float64(s.X), float64(s.Y)
		dx, dy := float64(dst[i].X), float64(dst[i].Y)
		a.SetRow(2*i, []float64{sx, sy, 1, 0, 0, 0, -sx * dx, -sy * dx})
		a.SetRow(2*i+1, []float64{0, 0, 0, sx, sy, 1, -sx * dy, -sy * dy})
		b.SetVec(2*i, dx)
		b.SetVec(2*i+1, dy)
	}

	h := mat.NewVecDense(8, nil)
	if err := h.SolveVec(a, b); err != nil {
		return nil, errors.Wrap(err, "degenerate perspective points")
	}

	return mat.NewDense(3, 3, []float64{
		h.AtVec(0), h.AtVec(1), h.AtVec(2),
		h.AtVec(3), h.AtVec(4), h.AtVec(5),
		h.AtVec(6), h.AtVec(7), 1,
	}), nil
}

// WarpConnector pipes pixels from an arbitrary source to an arbitrary sink
// while Warp resamples through a homography.
type WarpConnector interface {
	// Get reads the source at (x, y) into buf, returning false if the
	// point is outside the source extent.
	Get(x, y int, buf []float64) bool
	Set(x, y int, data []float64)
	OutputDims() (int, int)
	NumFields() int
}

// WarpMatrixConnector warps a single matrix into another.
type WarpMatrixConnector struct {
	Input  mat.Matrix
	Output *mat.Dense
}

// Get reads the input matrix, row-major as (x=row, y=col).
func (c *WarpMatrixConnector) Get(x, y int, buf []float64) bool {
	rows, cols := c.Input.Dims()
	if x < 0 || y < 0 || x >= rows || y >= cols {
		return false
	}
	buf[0] = c.Input.At(x, y)
	return true
}

// Set writes one value into the output matrix.
func (c *WarpMatrixConnector) Set(x, y int, data []float64) {
	c.Output.Set(x, y, data[0])
}

// OutputDims returns the dimensions of the output matrix.
func (c *WarpMatrixConnector) OutputDims() (int, int) {
	rows, cols := c.Output.Dims()
	return rows, cols
}

// NumFields is 1, a matrix carries a single channel.
func (c *WarpMatrixConnector) NumFields() int {
	return 1
}

// WarpImageConnector warps a color image into another.
type WarpImageConnector struct {
	Input  image.Image
	Output *image.RGBA
}

// Get reads the r, g, b channels at (x, y).
func (c *WarpImageConnector) Get(x, y int, buf []float64) bool {
	b := c.Input.Bounds()
	if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
		return false
	}
	r, g, bl, _ := c.Input.At(x, y).RGBA()
	buf[0] = float64(r >> 8)
	buf[1] = float64(g >> 8)
	buf[2] = float64(bl >> 8)
	return true
}

// Set writes one pixel, fully opaque.
func (c *WarpImageConnector) Set(x, y int, data []float64) {
	c.Output.SetRGBA(x, y, color.RGBA{clamp8(data[0]), clamp8(data[1]), clamp8(data[2]), 255})
}

func clamp8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// OutputDims returns the dimensions of the output image.
func (c *WarpImageConnector) OutputDims() (int, int) {
	b := c.Output.Bounds()
	return b.Dx(), b.Dy()
}

// NumFields is 3, one per color channel.
func (c *WarpImageConnector) NumFields() int {
	return 3
}

func getRoundedValueHelp(in WarpConnector, r, c float64, rp, cp int, total, buf []float64) {
	dx := 1 - math.Abs(float64(rp)-r)
	dy := 1 - math.Abs(float64(cp)-c)

	area := dx * dy
	if area <= .00001 {
		return
	}
	if !in.Get(rp, cp, buf) {
		// outside the source extent, contributes background (zero)
		return
	}
	for i, v := range buf {
		total[i] += v * area
	}
}

func getRoundedValue(in WarpConnector, r, c float64, total, buf []float64) {
	r0 := int(r)
	r1 := r0 + 1
	c0 := int(c)
	c1 := c0 + 1

	for i := range total {
		total[i] = 0
	}

	getRoundedValueHelp(in, r, c, r0, c0, total, buf)
	getRoundedValueHelp(in, r, c, r1, c0, total, buf)
	getRoundedValueHelp(in, r, c, r1, c1, total, buf)
	getRoundedValueHelp(in, r, c, r0, c1, total, buf)
}

// Warp resamples the connector's source through the homography m, writing
// every output pixel. Output pixels that map outside the source extent
// receive the zero background.
func Warp(in WarpConnector, m mat.Matrix) {
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		panic(err) // a homography is always invertible
	}

	width, height := in.OutputDims()
	numFields := in.NumFields()
	buf := make([]float64, numFields)
	total := make([]float64, numFields)

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			w := inv.At(2, 0)*float64(x) + inv.At(2, 1)*float64(y) + inv.At(2, 2)
			sx := (inv.At(0, 0)*float64(x) + inv.At(0, 1)*float64(y) + inv.At(0, 2)) / w
			sy := (inv.At(1, 0)*float64(x) + inv.At(1, 1)*float64(y) + inv.At(1, 2)) / w

			getRoundedValue(in, sx, sy, total, buf)
			in.Set(x, y, total)
		}
	}
}

// WarpImage resamples img through the homography m into a new image of the
// given size.
func WarpImage(img image.Image, m mat.Matrix, newSize image.Point) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, newSize.X, newSize.Y))
	Warp(&WarpImageConnector{img, out}, m)
	return out
}
