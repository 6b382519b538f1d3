// Package texture holds the class plane tables, the visibility resolver and
// the plane warp/unwarp engine at the heart of the synthesis pipeline.
package texture

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// ObjectClass selects the fixed plane/keypoint vocabulary of an object
// category.
type ObjectClass string

// The supported object classes.
const (
	ClassCar   ObjectClass = "car"
	ClassChair ObjectClass = "chair"
)

// PatchSize is the side of every plane patch in pixels.
const PatchSize = 128

// PlaneDef names one planar surface region and the keypoints that pin its
// corners, in canonical winding order. Three keypoints define an affine
// region, four a full perspective one.
type PlaneDef struct {
	Name      string
	Keypoints []string
}

// Plane is one resolved plane for a concrete viewpoint: its defining
// keypoint polygon in normalized coordinates and its visibility.
type Plane struct {
	Name    string
	Quad    []r2.Point
	Visible bool
}

var carPlanes = []PlaneDef{
	{"left", []string{"left_front_wheel", "left_back_wheel", "upper_left_rearwindow", "upper_left_windshield"}},
	{"right", []string{"right_front_wheel", "right_back_wheel", "upper_right_rearwindow", "upper_right_windshield"}},
	{"roof", []string{"upper_left_windshield", "upper_right_windshield", "upper_right_rearwindow", "upper_left_rearwindow"}},
	{"front", []string{"left_front_light", "right_front_light", "upper_right_windshield", "upper_left_windshield"}},
	{"back", []string{"left_back_trunk", "right_back_trunk", "upper_right_rearwindow", "upper_left_rearwindow"}},
}

var chairPlanes = []PlaneDef{
	{"back", []string{"back_upper_left", "back_upper_right", "seat_upper_right", "seat_upper_left"}},
	{"seat", []string{"seat_upper_left", "seat_upper_right", "seat_lower_right", "seat_lower_left"}},
	{"left", []string{"back_upper_left", "seat_upper_left", "leg_lower_left"}},
	{"right", []string{"back_upper_right", "seat_upper_right", "leg_lower_right"}},
}

// CheckValid reports whether the class is a known one.
func (c ObjectClass) CheckValid() error {
	switch c {
	case ClassCar, ClassChair:
		return nil
	default:
		return errors.Errorf("unknown object class %q", string(c))
	}
}

// Planes returns the fixed plane table of the class, in canonical order.
// The same table describes both source and target viewpoints; a plane only
// ever warps to itself.
func (c ObjectClass) Planes() []PlaneDef {
	switch c {
	case ClassCar:
		return carPlanes
	case ClassChair:
		return chairPlanes
	default:
		return nil
	}
}

// NumPlanes returns the number of planes of the class.
func (c ObjectClass) NumPlanes() int {
	return len(c.Planes())
}

/// InputChannels returns the synthesis input width of the class: sketch and
// central reference plus one RGB patch per plane.
func (c ObjectClass) InputChannels() int {
	return 3 * (2 + c.NumPlanes())
}

// ResolvePlanes assembles, for each plane of the class in canonical order,
// its keypoint polygon from the per-frame 2D keypoints plus its visibility
// flag. Keypoints missing from the map fail the resolution: the plane tables
// and the model keypoint sets must agree.
func ResolvePlanes(class ObjectClass, kpoints map[string]r2.Point, visibilities []bool) ([]Plane, error) {
	defs := class.Planes()
	if len(visibilities) != len(defs) {
		return nil, errors.Errorf("class %q has %d planes but got %d visibilities",
			string(class), len(defs), len(visibilities))
	}
	out := make([]Plane, 0, len(defs))
	for i, def := range defs {
		quad := make([]r2.Point, 0, len(def.Keypoints))
		for _, name := range def.Keypoints {
			pt, ok := kpoints[name]
			if !ok {
				return nil, errors.Errorf("plane %q needs keypoint %q which is not in the keypoint set", def.Name, name)
			}
			quad = append(quad, pt)
		}
		out = append(out, Plane{Name: def.Name, Quad: quad, Visible: visibilities[i]})
	}
	return out, nil
}
