package rimage

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// morphoWindow applies a running min or max filter with a kSize x kSize
// structuring element of ones. The anchor sits at kSize/2, so an even
// kernel reaches one cell further up and left, matching the usual
// image-processing convention.
func morphoWindow(m *mat.Dense, kSize int, pick func(a, b float64) float64, worst float64) *mat.Dense {
	rows, cols := m.Dims()
	anchor := kSize / 2
	out := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			best := worst
			for ky := 0; ky < kSize; ky++ {
				for kx := 0; kx < kSize; kx++ {
					yy := y + ky - anchor
					xx := x + kx - anchor
					if yy < 0 || xx < 0 || yy >= rows || xx >= cols {
						continue
					}
					best = pick(best, m.At(yy, xx))
				}
			}
			out.Set(y, x, best)
		}
	}
	return out
}

// DilateSquare dilates m with a kSize x kSize square structuring element,
// repeated iterations times. Zero iterations returns a copy of the input.
// The on set of a binary mask only ever grows under dilation.
func DilateSquare(m *mat.Dense, kSize, iterations int) (*mat.Dense, error) {
	if kSize < 1 {
		return nil, errors.Errorf("structuring element size must be positive, got %d", kSize)
	}
	if iterations < 0 {
		return nil, errors.Errorf("iterations must be non-negative, got %d", iterations)
	}
	out := mat.DenseCopyOf(m)
	for i := 0; i < iterations; i++ {
		out = morphoWindow(out, kSize, math.Max, math.Inf(-1))
	}
	return out, nil
}

// ErodeSquare erodes m with a kSize x kSize square structuring element,
// repeated iterations times. Zero iterations returns a copy of the input.
func ErodeSquare(m *mat.Dense, kSize, iterations int) (*mat.Dense, error) {
	if kSize < 1 {
		return nil, errors.Errorf("structuring element size must be positive, got %d", kSize)
	}
	if iterations < 0 {
		return nil, errors.Errorf("iterations must be non-negative, got %d", iterations)
	}
	out := mat.DenseCopyOf(m)
	for i := 0; i < iterations; i++ {
		out = morphoWindow(out, kSize, math.Min, math.Inf(1))
	}
	return out, nil
}
