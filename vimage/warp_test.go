package vimage

import (
	"image"
	"image/color"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func quad(x0, y0, x1, y1 float64) []r2.Point {
	return []r2.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestGetPerspectiveTransform(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		h, err := GetPerspectiveTransform(quad(0, 0, 10, 10), quad(0, 0, 10, 10))
		test.That(t, err, test.ShouldBeNil)
		pt := h.Apply(r2.Point{X: 3, Y: 7})
		test.That(t, pt.X, test.ShouldAlmostEqual, 3, 1e-9)
		test.That(t, pt.Y, test.ShouldAlmostEqual, 7, 1e-9)
	})

	t.Run("scale and translate", func(t *testing.T) {
		h, err := GetPerspectiveTransform(quad(0, 0, 10, 10), quad(5, 5, 25, 25))
		test.That(t, err, test.ShouldBeNil)
		pt := h.Apply(r2.Point{X: 10, Y: 0})
		test.That(t, pt.X, test.ShouldAlmostEqual, 25, 1e-9)
		test.That(t, pt.Y, test.ShouldAlmostEqual, 5, 1e-9)
	})

	t.Run("maps all four corners", func(t *testing.T) {
		src := quad(1, 1, 9, 9)
		dst := []r2.Point{{X: 0, Y: 0}, {X: 12, Y: 2}, {X: 11, Y: 13}, {X: -1, Y: 10}}
		h, err := GetPerspectiveTransform(src, dst)
		test.That(t, err, test.ShouldBeNil)
		for i := range src {
			got := h.Apply(src[i])
			test.That(t, got.X, test.ShouldAlmostEqual, dst[i].X, 1e-6)
			test.That(t, got.Y, test.ShouldAlmostEqual, dst[i].Y, 1e-6)
		}
	})

	t.Run("collinear points are degenerate", func(t *testing.T) {
		src := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
		_, err := GetPerspectiveTransform(src, quad(0, 0, 10, 10))
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("wrong cardinality", func(t *testing.T) {
		_, err := GetPerspectiveTransform(quad(0, 0, 1, 1)[:3], quad(0, 0, 1, 1))
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestGetAffineTransform(t *testing.T) {
	src := []r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	dst := []r2.Point{{X: 2, Y: 3}, {X: 22, Y: 3}, {X: 2, Y: 13}}
	h, err := GetAffineTransform(src, dst)
	test.That(t, err, test.ShouldBeNil)
	// affine keeps the projective row trivial
	test.That(t, h.At(2, 0), test.ShouldEqual, 0.0)
	test.That(t, h.At(2, 1), test.ShouldEqual, 0.0)
	got := h.Apply(r2.Point{X: 5, Y: 5})
	test.That(t, got.X, test.ShouldAlmostEqual, 12, 1e-9)
	test.That(t, got.Y, test.ShouldAlmostEqual, 8, 1e-9)
}

func TestHomographyInverse(t *testing.T) {
	h, err := GetPerspectiveTransform(quad(0, 0, 8, 8), quad(2, 2, 30, 20))
	test.That(t, err, test.ShouldBeNil)
	inv, err := h.Inverse()
	test.That(t, err, test.ShouldBeNil)
	pt := r2.Point{X: 4, Y: 6}
	back := inv.Apply(h.Apply(pt))
	test.That(t, back.X, test.ShouldAlmostEqual, pt.X, 1e-9)
	test.That(t, back.Y, test.ShouldAlmostEqual, pt.Y, 1e-9)
}

func makeGradient(size int) *Image {
	img := NewImage(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetXY(x, y, color.NRGBA{R: uint8(x * 255 / size), G: uint8(y * 255 / size), B: 128, A: 255})
		}
	}
	return img
}

func TestWarpImage(t *testing.T) {
	t.Run("identity warp preserves pixels", func(t *testing.T) {
		img := makeGradient(32)
		out := WarpImage(img, IdentityHomography(), image.Point{32, 32})
		test.That(t, out.GetXY(5, 9), test.ShouldResemble, img.GetXY(5, 9))
		test.That(t, out.GetXY(20, 3), test.ShouldResemble, img.GetXY(20, 3))
	})

	t.Run("out of bounds is black", func(t *testing.T) {
		img := makeGradient(16)
		h, err := GetPerspectiveTransform(quad(0, 0, 16, 16), quad(100, 100, 116, 116))
		test.That(t, err, test.ShouldBeNil)
		out := WarpImage(img, h, image.Point{32, 32})
		test.That(t, out.GetXY(0, 0), test.ShouldResemble, color.NRGBA{})
	})

	t.Run("round trip is close to original", func(t *testing.T) {
		img := makeGradient(64)
		h, err := GetPerspectiveTransform(quad(0, 0, 64, 64), quad(8, 4, 60, 58))
		test.That(t, err, test.ShouldBeNil)
		warped := WarpImage(img, h, image.Point{64, 64})
		inv, err := h.Inverse()
		test.That(t, err, test.ShouldBeNil)
		back := WarpImage(warped, inv, image.Point{64, 64})
		// compare an interior pixel, resampling error stays small
		a := img.GetXY(32, 32)
		b := back.GetXY(32, 32)
		test.That(t, float64(b.R), test.ShouldAlmostEqual, float64(a.R), 8)
		test.That(t, float64(b.G), test.ShouldAlmostEqual, float64(a.G), 8)
	})
}
