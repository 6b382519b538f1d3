// Package synth assembles the synthesis-model input tensor and defines the
// model contract.
package synth

import (
	"image/color"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/ChenMalobani/semiparametric/texture"
	"github.com/ChenMalobani/semiparametric/vimage"
)

// AssembleInput stacks the sketch, the central reference and the warped
// plane patches into one NCHW float32 tensor in the fixed channel layout
// the synthesis model expects:
//
//	[sketch 0..2][central 3..5][plane_1 6..8] ... [plane_N]
//
// Pixel values are normalized to [-1, 1] (mean 0.5, std 0.5). The channel
// count is a fixed per-class constant.
func AssembleInput(sketch, central *vimage.Image, warped []*vimage.Image, class texture.ObjectClass) (*tensor.Dense, error) {
	if err := class.CheckValid(); err != nil {
		return nil, err
	}
	if len(warped) != class.NumPlanes() {
		return nil, errors.Errorf("class %q expects %d warped planes, got %d",
			string(class), class.NumPlanes(), len(warped))
	}
	images := append([]*vimage.Image{sketch, central}, warped...)
	const size = texture.PatchSize
	for i, img := range images {
		if img == nil {
			return nil, errors.Errorf("input image %d is nil", i)
		}
		if img.Width() != size || img.Height() != size {
			return nil, errors.Errorf("input image %d is %dx%d, want %dx%d",
				i, img.Width(), img.Height(), size, size)
		}
	}

	channels := class.InputChannels()
	backing := make([]float32, channels*size*size)
	for i, img := range images {
		writeImageChannels(backing, i*3, img)
	}
	return tensor.New(
		tensor.WithShape(1, channels, size, size),
		tensor.WithBacking(backing),
	), nil
}

func writeImageChannels(backing []float32, channel int, img *vimage.Image) {
	const size = texture.PatchSize
	plane := size * size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := img.GetXY(x, y)
			idx := y*size + x
			backing[(channel+0)*plane+idx] = normalizeValue(c.R)
			backing[(channel+1)*plane+idx] = normalizeValue(c.G)
			backing[(channel+2)*plane+idx] = normalizeValue(c.B)
		}
	}
}

func normalizeValue(v uint8) float32 {
	return (float32(v)/255 - 0.5) / 0.5
}

func denormalizeValue(v float32) uint8 {
	f := (v*0.5 + 0.5) * 255
	if f < 0 {
		f = 0
	}
	if f > 255 {
		f = 255
	}
	return uint8(f + 0.5)
}

// DecodeImage converts a (1, 3, H, W) output tensor back into an image.
func DecodeImage(t *tensor.Dense) (*vimage.Image, error) {
	shape := t.Shape()
	if len(shape) != 4 || shape[0] != 1 || shape[1] != 3 {
		return nil, errors.Errorf("expected shape (1, 3, h, w), got %v", shape)
	}
	h, w := shape[2], shape[3]
	data, ok := t.Data().([]float32)
	if !ok {
		return nil, errors.New("expected a float32 tensor")
	}
	plane := h * w
	out := vimage.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			out.SetXY(x, y, color.NRGBA{
				R: denormalizeValue(data[0*plane+idx]),
				G: denormalizeValue(data[1*plane+idx]),
				B: denormalizeValue(data[2*plane+idx]),
				A: 255,
			})
		}
	}
	return out, nil
}
