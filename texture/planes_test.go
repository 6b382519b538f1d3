package texture

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func fullKeypointSet(class ObjectClass) map[string]r2.Point {
	pts := map[string]r2.Point{}
	i := 0.
	for _, def := range class.Planes() {
		for _, name := range def.Keypoints {
			if _, ok := pts[name]; !ok {
				pts[name] = r2.Point{X: -0.9 + 0.1*i, Y: 0.9 - 0.1*i}
				i++
			}
		}
	}
	return pts
}

func TestClassTables(t *testing.T) {
	t.Run("car", func(t *testing.T) {
		test.That(t, ClassCar.CheckValid(), test.ShouldBeNil)
		test.That(t, ClassCar.NumPlanes(), test.ShouldEqual, 5)
		test.That(t, ClassCar.InputChannels(), test.ShouldEqual, 21)
		for _, def := range ClassCar.Planes() {
			test.That(t, len(def.Keypoints), test.ShouldEqual, 4)
		}
	})

	t.Run("chair", func(t *testing.T) {
		test.That(t, ClassChair.CheckValid(), test.ShouldBeNil)
		test.That(t, ClassChair.NumPlanes(), test.ShouldEqual, 4)
		test.That(t, ClassChair.InputChannels(), test.ShouldEqual, 18)
		// the side planes are three-point affine regions
		planes := ClassChair.Planes()
		test.That(t, len(planes[2].Keypoints), test.ShouldEqual, 3)
		test.That(t, len(planes[3].Keypoints), test.ShouldEqual, 3)
	})

	t.Run("unknown class", func(t *testing.T) {
		test.That(t, ObjectClass("boat").CheckValid(), test.ShouldNotBeNil)
	})
}

func TestResolvePlanes(t *testing.T) {
	kpoints := fullKeypointSet(ClassCar)

	t.Run("assembles all planes in canonical order", func(t *testing.T) {
		vis := []bool{true, false, true, false, true}
		planes, err := ResolvePlanes(ClassCar, kpoints, vis)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, planes, test.ShouldHaveLength, 5)
		for i, pl := range planes {
			test.That(t, pl.Name, test.ShouldEqual, ClassCar.Planes()[i].Name)
			test.That(t, pl.Visible, test.ShouldEqual, vis[i])
			test.That(t, pl.Quad, test.ShouldHaveLength, len(ClassCar.Planes()[i].Keypoints))
		}
	})

	t.Run("missing keypoint fails", func(t *testing.T) {
		incomplete := map[string]r2.Point{"left_front_wheel": {}}
		_, err := ResolvePlanes(ClassCar, incomplete, []bool{true, true, true, true, true})
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("visibility cardinality mismatch fails", func(t *testing.T) {
		_, err := ResolvePlanes(ClassCar, kpoints, []bool{true})
		test.That(t, err, test.ShouldNotBeNil)
	})
}
