package session

import (
	"image/color"
	"testing"

	"go.viam.com/test"

	"github.com/ChenMalobani/semiparametric/texture"
	"github.com/ChenMalobani/semiparametric/vimage"
)

func TestMaskSynthesis(t *testing.T) {
	synthesized := vimage.NewImage(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			synthesized.SetXY(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	sketch := vimage.NewImage(4, 4)
	sketch.SetXY(1, 1, color.NRGBA{R: 1, A: 255})
	sketch.SetXY(2, 2, color.NRGBA{G: 200, A: 255})

	masked := MaskSynthesis(synthesized, sketch)

	t.Run("background forced to white", func(t *testing.T) {
		test.That(t, masked.GetXY(0, 0), test.ShouldResemble, maskBackground)
		test.That(t, masked.GetXY(3, 3), test.ShouldResemble, maskBackground)
	})
	t.Run("foreground untouched", func(t *testing.T) {
		want := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
		test.That(t, masked.GetXY(1, 1), test.ShouldResemble, want)
		test.That(t, masked.GetXY(2, 2), test.ShouldResemble, want)
	})
	t.Run("input not mutated", func(t *testing.T) {
		test.That(t, synthesized.GetXY(0, 0), test.ShouldResemble, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	})
}

func TestTileFrame(t *testing.T) {
	solid := func(c color.NRGBA) *vimage.Image {
		img := vimage.NewImage(texture.PatchSize, texture.PatchSize)
		for y := 0; y < texture.PatchSize; y++ {
			for x := 0; x < texture.PatchSize; x++ {
				img.SetXY(x, y, c)
			}
		}
		return img
	}
	red := solid(color.NRGBA{R: 255, A: 255})
	green := solid(color.NRGBA{G: 255, A: 255})
	blue := solid(color.NRGBA{B: 255, A: 255})

	frame := TileFrame(red, green, blue)
	test.That(t, frame.Bounds().Dx(), test.ShouldEqual, 3*texture.PatchSize)
	test.That(t, frame.Bounds().Dy(), test.ShouldEqual, texture.PatchSize)

	// panels appear left to right in argument order
	test.That(t, frame.NRGBAAt(10, 10), test.ShouldResemble, color.NRGBA{R: 255, A: 255})
	test.That(t, frame.NRGBAAt(texture.PatchSize+10, 10), test.ShouldResemble, color.NRGBA{G: 255, A: 255})
	test.That(t, frame.NRGBAAt(2*texture.PatchSize+10, 10), test.ShouldResemble, color.NRGBA{B: 255, A: 255})
}

func TestDumpFilename(t *testing.T) {
	test.That(t, DumpFilename(0, 0, 90, 7), test.ShouldEqual, "000_el_000_az_090_rad_007.png")
	test.That(t, DumpFilename(12, 45, 180, 7.05), test.ShouldEqual, "012_el_045_az_180_rad_007.png")
}
