package synth

import (
	"context"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/ChenMalobani/semiparametric/texture"
)

// Synthesizer is the external image-synthesis model: an expensive but pure
// function from the assembled input tensor to a (1, 3, H, W) image tensor.
// The call blocks for the duration of a forward pass.
type Synthesizer interface {
	Synthesize(ctx context.Context, input *tensor.Dense) (*tensor.Dense, error)
}

// Passthrough is a reference synthesizer that echoes the central-reference
// channels of the input. It lets the whole pipeline run end to end without a
// trained network.
type Passthrough struct {
	Class texture.ObjectClass
}

// Synthesize implements Synthesizer.
func (p *Passthrough) Synthesize(_ context.Context, input *tensor.Dense) (*tensor.Dense, error) {
	shape := input.Shape()
	if len(shape) != 4 || shape[0] != 1 {
		return nil, errors.Errorf("expected shape (1, c, h, w), got %v", shape)
	}
	if shape[1] != p.Class.InputChannels() {
		return nil, errors.Errorf("class %q expects %d input channels, got %d",
			string(p.Class), p.Class.InputChannels(), shape[1])
	}
	data, ok := input.Data().([]float32)
	if !ok {
		return nil, errors.New("expected a float32 tensor")
	}
	h, w := shape[2], shape[3]
	plane := h * w
	// central reference occupies channels 3..5
	out := make([]float32, 3*plane)
	copy(out, data[3*plane:6*plane])
	return tensor.New(tensor.WithShape(1, 3, h, w), tensor.WithBacking(out)), nil
}
