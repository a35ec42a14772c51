package perception

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestWorldMapAccumulate(t *testing.T) {
	wm := NewWorldMap(50)
	test.That(t, wm.Size(), test.ShouldEqual, 50)

	wm.Accumulate(NavigableLayer, []int{3, 3, 10}, []int{4, 4, 20}, 10)
	// duplicate coordinates accumulate
	test.That(t, wm.At(NavigableLayer, 3, 4), test.ShouldEqual, 20.0)
	test.That(t, wm.At(NavigableLayer, 10, 20), test.ShouldEqual, 10.0)
	test.That(t, wm.At(ObstacleLayer, 3, 4), test.ShouldEqual, 0.0)

	wm.Accumulate(ObstacleLayer, []int{3}, []int{4}, 1)
	test.That(t, wm.At(ObstacleLayer, 3, 4), test.ShouldEqual, 1.0)
}

func TestWorldMapMonotonic(t *testing.T) {
	wm := NewWorldMap(20)
	xs := []int{1, 5, 5, 19}
	ys := []int{0, 5, 5, 19}

	prev := make([]float64, len(xs))
	for frame := 0; frame < 5; frame++ {
		wm.Accumulate(NavigableLayer, xs, ys, 10)
		wm.Accumulate(ObstacleLayer, xs, ys, 1)
		for i := range xs {
			v := wm.At(NavigableLayer, xs[i], ys[i])
			test.That(t, v, test.ShouldBeGreaterThan, prev[i])
			prev[i] = v
		}
	}
}

func TestWorldMapMarkRock(t *testing.T) {
	wm := NewWorldMap(20)
	wm.Accumulate(ObstacleLayer, []int{7}, []int{8}, 1)

	wm.MarkRock(7, 8)
	for _, layer := range []int{ObstacleLayer, RockLayer, NavigableLayer} {
		test.That(t, wm.At(layer, 7, 8), test.ShouldEqual, 255.0)
	}

	// neighboring cells untouched
	test.That(t, wm.At(RockLayer, 6, 8), test.ShouldEqual, 0.0)
	test.That(t, wm.At(RockLayer, 8, 8), test.ShouldEqual, 0.0)
}

func TestWorldMapRender(t *testing.T) {
	wm := NewWorldMap(20)
	wm.Accumulate(NavigableLayer, []int{4}, []int{5}, 300)
	wm.MarkRock(10, 10)

	img := wm.Render(r2.Point{X: 10, Y: 10}, 45)
	b := img.Bounds()
	test.That(t, b.Dx(), test.ShouldEqual, 20)
	test.That(t, b.Dy(), test.ShouldEqual, 20)

	// navigable evidence saturates into the blue channel; +y is up, so
	// world (4,5) renders at image row size-1-5
	_, _, blue, _ := img.At(4, 14).RGBA()
	test.That(t, blue>>8, test.ShouldEqual, 255)
}
