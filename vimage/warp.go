package vimage

import (
	"image"
	"image/color"
	"math"

	"github.com/golang/geo/r2"
)

// WarpImage resamples src through the homography mapping src coordinates to
// dst coordinates, producing an image of the given size. Each output pixel is
// inverse-mapped into the source and bilinearly interpolated; pixels mapping
// outside the source are black.
func WarpImage(src *Image, h Homography, size image.Point) *Image {
	out := NewImage(size.X, size.Y)
	inv, err := h.Inverse()
	if err != nil {
		// degenerate transform warps as identity
		inv = IdentityHomography()
	}
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			srcPt := inv.Apply(r2.Point{X: float64(x), Y: float64(y)})
			if c := bilinearSample(src, srcPt); c != nil {
				out.SetXY(x, y, *c)
			}
		}
	}
	return out
}

// bilinearSample interpolates the four pixels around pt, or returns nil when
// pt lies outside the image.
func bilinearSample(img *Image, pt r2.Point) *color.NRGBA {
	x0 := int(math.Floor(pt.X))
	y0 := int(math.Floor(pt.Y))
	if x0 < 0 || y0 < 0 || x0 >= img.Width() || y0 >= img.Height() {
		return nil
	}
	x1, y1 := x0+1, y0+1
	if x1 >= img.Width() {
		x1 = x0
	}
	if y1 >= img.Height() {
		y1 = y0
	}
	fx := pt.X - float64(x0)
	fy := pt.Y - float64(y0)

	w00 := (1 - fx) * (1 - fy)
	w10 := fx * (1 - fy)
	w01 := (1 - fx) * fy
	w11 := fx * fy

	c00 := img.GetXY(x0, y0)
	c10 := img.GetXY(x1, y0)
	c01 := img.GetXY(x0, y1)
	c11 := img.GetXY(x1, y1)

	mix := func(a, b, c, d uint8) uint8 {
		v := w00*float64(a) + w10*float64(b) + w01*float64(c) + w11*float64(d)
		return uint8(math.Round(math.Min(255, math.Max(0, v))))
	}
	return &color.NRGBA{
		R: mix(c00.R, c10.R, c01.R, c11.R),
		G: mix(c00.G, c10.G, c01.G, c11.G),
		B: mix(c00.B, c10.B, c01.B, c11.B),
		A: 255,
	}
}
