package perception

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"

	"github.com/samplerover/rover/utils"
)

// MaskCoords returns the image coordinates (column, row) of every on pixel
// of a binary mask, in row-major scan order. An empty mask yields empty
// slices.
func MaskCoords(mask *mat.Dense) (xs, ys []float64) {
	rows, cols := mask.Dims()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if mask.At(y, x) != 0 {
				xs = append(xs, float64(x))
				ys = append(ys, float64(y))
			}
		}
	}
	return xs, ys
}

// RoverCoords converts a binary mask into vehicle-centered coordinates.
// The vehicle's reference point is the bottom center of the rectified
// image: forward (+x) is up the image, left (+y) is toward column zero.
func RoverCoords(mask *mat.Dense) (xs, ys []float64) {
	rows, cols := mask.Dims()
	px, py := MaskCoords(mask)
	xs = make([]float64, len(px))
	ys = make([]float64, len(py))
	for i := range px {
		xs[i] = float64(rows) - py[i]
		ys[i] = float64(cols)/2 - px[i]
	}
	return xs, ys
}

// ToPolar converts vehicle-centered coordinates into (distance, angle)
// pairs. Angles are signed, measured from the forward axis, positive to
// the left.
func ToPolar(xs, ys []float64) (dists, angles []float64) {
	dists = make([]float64, len(xs))
	angles = make([]float64, len(xs))
	for i := range xs {
		dists[i] = math.Hypot(xs[i], ys[i])
		angles[i] = math.Atan2(ys[i], xs[i])
	}
	return dists, angles
}

// RotatePix rotates vehicle-centered coordinates by the vehicle's yaw,
// given in degrees counter-clockwise.
func RotatePix(xs, ys []float64, yaw float64) (rx, ry []float64) {
	yawRad := utils.DegToRad(yaw)
	sin, cos := math.Sincos(yawRad)
	rx = make([]float64, len(xs))
	ry = make([]float64, len(ys))
	for i := range xs {
		rx[i] = xs[i]*cos - ys[i]*sin
		ry[i] = xs[i]*sin + ys[i]*cos
	}
	return rx, ry
}

// TranslatePix scales rotated coordinates down to world cells and offsets
// them by the vehicle's world position.
func TranslatePix(xs, ys []float64, pos r2.Point, scale float64) (tx, ty []float64) {
	tx = make([]float64, len(xs))
	ty = make([]float64, len(ys))
	for i := range xs {
		tx[i] = xs[i]/scale + pos.X
		ty[i] = ys[i]/scale + pos.Y
	}
	return tx, ty
}

// PixToWorld maps vehicle-centered coordinates into world grid indices:
// rotate by yaw, scale and translate by the vehicle pose, then truncate
// and clamp into [0, worldSize-1]. Out-of-range points are clamped to the
// boundary rather than dropped.
func PixToWorld(xs, ys []float64, pos r2.Point, yaw float64, worldSize int, scale float64) (wx, wy []int) {
	rx, ry := RotatePix(xs, ys, yaw)
	tx, ty := TranslatePix(rx, ry, pos, scale)
	wx = make([]int, len(tx))
	wy = make([]int, len(ty))
	for i := range tx {
		wx[i] = utils.ClampInt(int(tx[i]), 0, worldSize-1)
		wy[i] = utils.ClampInt(int(ty[i]), 0, worldSize-1)
	}
	return wx, wy
}
