// Package vimage provides the RGB image type and the perspective warping
// used by the plane warp engine.
package vimage

import (
	"image"
	"image/color"
)

// Image is a mutable RGB image over a flat pixel slice.
type Image struct {
	data          []color.NRGBA
	width, height int
}

// NewImage returns a black image of the given size.
func NewImage(width, height int) *Image {
	return &Image{
		data:   make([]color.NRGBA, width*height),
		width:  width,
		height: height,
	}
}

// NewImageFromImage copies any image.Image into an Image.
func NewImageFromImage(src image.Image) *Image {
	b := src.Bounds()
	out := NewImage(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			out.SetXY(x-b.Min.X, y-b.Min.Y, color.NRGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(bl >> 8),
				A: 255,
			})
		}
	}
	return out
}

func (i *Image) kxy(x, y int) int {
	return y*i.width + x
}

// In reports whether (x,y) is inside the image bounds.
func (i *Image) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < i.width && y < i.height
}

// Width returns the image width in pixels.
func (i *Image) Width() int { return i.width }

// Height returns the image height in pixels.
func (i *Image) Height() int { return i.height }

// Bounds returns the image bounds.
func (i *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.width, i.height)
}

// ColorModel returns the color model of the image.
func (i *Image) ColorModel() color.Model { return color.NRGBAModel }

// At returns the color at (x,y), implementing image.Image.
func (i *Image) At(x, y int) color.Color {
	return i.data[i.kxy(x, y)]
}

// GetXY returns the pixel at (x,y).
func (i *Image) GetXY(x, y int) color.NRGBA {
	return i.data[i.kxy(x, y)]
}

// SetXY sets the pixel at (x,y).
func (i *Image) SetXY(x, y int, c color.NRGBA) {
	i.data[i.kxy(x, y)] = c
}

// Clone returns a deep copy of the image.
func (i *Image) Clone() *Image {
	out := NewImage(i.width, i.height)
	copy(out.data, i.data)
	return out
}

// ToNRGBA copies the image into a standard *image.NRGBA.
func (i *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(i.Bounds())
	for y := 0; y < i.height; y++ {
		for x := 0; x < i.width; x++ {
			out.SetNRGBA(x, y, i.GetXY(x, y))
		}
	}
	return out
}
