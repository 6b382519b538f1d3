package session

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// FrameSink receives the composited display frame each tick.
type FrameSink interface {
	Display(frame image.Image) error
}

// FuncSink adapts a function to a FrameSink.
type FuncSink func(frame image.Image) error

// Display implements FrameSink.
func (f FuncSink) Display(frame image.Image) error { return f(frame) }

// DumpFilename encodes a dump deterministically from its index and the
// viewpoint it was taken from.
func DumpFilename(dumpID int, elDeg, azDeg, radius float64) string {
	return fmt.Sprintf("%03d_el_%03d_az_%03d_rad_%03d.png", dumpID, int(elDeg), int(azDeg), int(radius))
}

func writeDump(dir, name string, frame image.Image) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", errors.Wrap(err, "error creating dump directory")
	}
	path := filepath.Join(dir, name)
	if err := imaging.Save(frame, path); err != nil {
		return "", errors.Wrap(err, "error writing dump")
	}
	return path, nil
}
