package rimage

import (
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func binaryMask(rows, cols int, on [][2]int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for _, p := range on {
		m.Set(p[0], p[1], 1)
	}
	return m
}

func TestDilateIdentity(t *testing.T) {
	orig := binaryMask(6, 6, [][2]int{{2, 2}, {4, 1}})
	out, err := DilateSquare(orig, 2, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.Equal(out, orig), test.ShouldBeTrue)
}

func TestDilateSpread(t *testing.T) {
	orig := binaryMask(6, 6, [][2]int{{2, 2}})
	out, err := DilateSquare(orig, 2, 1)
	test.That(t, err, test.ShouldBeNil)

	// a 2x2 element grows the on pixel down and right
	for _, p := range [][2]int{{2, 2}, {3, 2}, {2, 3}, {3, 3}} {
		test.That(t, out.At(p[0], p[1]), test.ShouldEqual, 1.0)
	}
	test.That(t, out.At(1, 2), test.ShouldEqual, 0.0)
	test.That(t, out.At(2, 1), test.ShouldEqual, 0.0)
	test.That(t, mat.Sum(out), test.ShouldEqual, 4.0)
}

func TestDilateMonotonicAndBinary(t *testing.T) {
	orig := binaryMask(10, 10, [][2]int{{1, 1}, {5, 7}, {8, 2}})
	prev := orig
	for iterations := 0; iterations < 4; iterations++ {
		out, err := DilateSquare(orig, 2, iterations)
		test.That(t, err, test.ShouldBeNil)

		rows, cols := out.Dims()
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				v := out.At(y, x)
				test.That(t, v == 0 || v == 1, test.ShouldBeTrue)
				// the on set only ever grows
				if prev.At(y, x) == 1 {
					test.That(t, v, test.ShouldEqual, 1.0)
				}
			}
		}
		prev = out
	}
}

func TestDilateClipsAtEdges(t *testing.T) {
	orig := binaryMask(4, 4, [][2]int{{3, 3}})
	out, err := DilateSquare(orig, 2, 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.Sum(out), test.ShouldEqual, 1.0)
	test.That(t, out.At(3, 3), test.ShouldEqual, 1.0)
}

func TestErodeSquare(t *testing.T) {
	on := make([][2]int, 0, 9)
	for y := 2; y <= 4; y++ {
		for x := 2; x <= 4; x++ {
			on = append(on, [2]int{y, x})
		}
	}
	orig := binaryMask(8, 8, on)

	out, err := ErodeSquare(orig, 3, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.Sum(out), test.ShouldEqual, 1.0)
	test.That(t, out.At(3, 3), test.ShouldEqual, 1.0)
}

func TestMorphoBadArgs(t *testing.T) {
	orig := binaryMask(4, 4, nil)
	_, err := DilateSquare(orig, 0, 1)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = DilateSquare(orig, 2, -1)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = ErodeSquare(orig, -3, 1)
	test.That(t, err, test.ShouldNotBeNil)
}
