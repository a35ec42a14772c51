package perception

import (
	"gonum.org/v1/gonum/mat"
)

// World map evidence layers.
const (
	ObstacleLayer  = 0
	RockLayer      = 1
	NavigableLayer = 2

	numLayers = 3

	// rockMarkValue is written into every layer at the cell of a found
	// rock, permanently overwriting accumulated evidence there.
	rockMarkValue = 255
)

// WorldMap is a persistent square evidence grid. The navigable and
// obstacle layers are append-only: repeated classification hits at a cell
// accumulate, so density encodes confidence. The rock layer is written
// only by MarkRock. A WorldMap lives for the whole mission and is never
// reset.
type WorldMap struct {
	size   int
	layers [numLayers]*mat.Dense
}

// NewWorldMap returns an all-zero evidence grid of size x size cells.
func NewWorldMap(size int) *WorldMap {
	wm := &WorldMap{size: size}
	for i := range wm.layers {
		wm.layers[i] = mat.NewDense(size, size, nil)
	}
	return wm
}

// Size returns the world grid dimension.
func (wm *WorldMap) Size() int {
	return wm.size
}

// At returns the evidence value of one layer at world cell (x, y).
func (wm *WorldMap) At(layer, x, y int) float64 {
	return wm.layers[layer].At(y, x)
}

// Layer exposes one evidence channel as a matrix.
func (wm *WorldMap) Layer(layer int) mat.Matrix {
	return wm.layers[layer]
}

// Accumulate adds weight to one layer at every given world cell.
// Duplicate coordinates accumulate multiple times.
func (wm *WorldMap) Accumulate(layer int, xs, ys []int, weight float64) {
	l := wm.layers[layer]
	for i := range xs {
		l.Set(ys[i], xs[i], l.At(ys[i], xs[i])+weight)
	}
}

// MarkRock writes full intensity into all three layers at a single cell,
// flagging a found rock location on the map.
func (wm *WorldMap) MarkRock(x, y int) {
	for _, l := range wm.layers {
		l.Set(y, x, rockMarkValue)
	}
}
