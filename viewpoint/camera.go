// Package viewpoint converts spherical camera controls into a camera pose
// and projects 3D keypoints through it.
package viewpoint

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoIntrinsics is when a camera does not have intrinsic parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// PinholeCameraIntrinsics holds the parameters necessary to do a perspective
// projection of a 3D scene onto the 2D image plane.
type PinholeCameraIntrinsics struct {
	Width  int     `json:"width_px" yaml:"width_px"`
	Height int     `json:"height_px" yaml:"height_px"`
	Fx     float64 `json:"fx" yaml:"fx"`
	Fy     float64 `json:"fy" yaml:"fy"`
	Ppx    float64 `json:"ppx" yaml:"ppx"`
	Ppy    float64 `json:"ppy" yaml:"ppy"`
}

// NewCenteredIntrinsics returns intrinsics with the principal point at the
// frame center and a single focal length for both axes.
func NewCenteredIntrinsics(focal float64, width, height int) *PinholeCameraIntrinsics {
	return &PinholeCameraIntrinsics{
		Width:  width,
		Height: height,
		Fx:     focal,
		Fy:     focal,
		Ppx:    float64(width) / 2,
		Ppy:    float64(height) / 2,
	}
}

// CheckValid checks if the fields for PinholeCameraIntrinsics have valid inputs.
func (params *PinholeCameraIntrinsics) CheckValid() error {
	if params == nil {
		return errors.Wrap(ErrNoIntrinsics, "intrinsics do not exist")
	}
	if params.Width <= 0 || params.Height <= 0 {
		return errors.Wrap(ErrNoIntrinsics, fmt.Sprintf("invalid size (%d, %d)", params.Width, params.Height))
	}
	if params.Fx <= 0 {
		return errors.Wrap(ErrNoIntrinsics, fmt.Sprintf("invalid focal length Fx = %v", params.Fx))
	}
	if params.Fy <= 0 {
		return errors.Wrap(ErrNoIntrinsics, fmt.Sprintf("invalid focal length Fy = %v", params.Fy))
	}
	if params.Ppx < 0 {
		return errors.Wrap(ErrNoIntrinsics, fmt.Sprintf("invalid principal point Ppx = %v", params.Ppx))
	}
	if params.Ppy < 0 {
		return errors.Wrap(ErrNoIntrinsics, fmt.Sprintf("invalid principal point Ppy = %v", params.Ppy))
	}
	return nil
}

// PointToPixel projects a point in camera coordinates to a pixel on the
// image plane.
func (params *PinholeCameraIntrinsics) PointToPixel(x, y, z float64) (float64, float64) {
	px := (x/z)*params.Fx + params.Ppx
	py := (y/z)*params.Fy + params.Ppy
	return px, py
}

// CameraPose pairs the intrinsics and extrinsics derived from a Viewpoint.
// It is immutable once computed for a frame.
type CameraPose struct {
	Intrinsics *PinholeCameraIntrinsics
	Extrinsics *Extrinsics
}
