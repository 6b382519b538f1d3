package session

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ChenMalobani/semiparametric/vimage"
)

// background value forced onto masked-out synthesis pixels
var maskBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// MaskSynthesis suppresses synthesis artifacts outside the object: every
// pixel where the rendered sketch is exactly black (the silhouette
// complement) is forced to white; foreground pixels pass through untouched.
func MaskSynthesis(synthesized, sketch *vimage.Image) *vimage.Image {
	out := synthesized.Clone()
	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			c := sketch.GetXY(x, y)
			if c.R == 0 && c.G == 0 && c.B == 0 {
				out.SetXY(x, y, maskBackground)
			}
		}
	}
	return out
}

// TileFrame concatenates the images horizontally, left to right in argument
// order, into one display frame.
func TileFrame(images ...*vimage.Image) *image.NRGBA {
	width, height := 0, 0
	for _, img := range images {
		width += img.Width()
		if img.Height() > height {
			height = img.Height()
		}
	}
	frame := imaging.New(width, height, color.NRGBA{A: 255})
	x := 0
	for _, img := range images {
		frame = imaging.Paste(frame, img.ToNRGBA(), image.Pt(x, 0))
		x += img.Width()
	}
	return frame
}
