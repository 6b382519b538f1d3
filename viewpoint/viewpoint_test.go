package viewpoint

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/ChenMalobani/semiparametric/logging"
)

func TestControlBridging(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		vp := NewControls().Viewpoint()
		test.That(t, vp.AzimuthDeg, test.ShouldEqual, 90.0)
		test.That(t, vp.ElevationDeg, test.ShouldEqual, 0.0)
		test.That(t, vp.Radius, test.ShouldEqual, 7.0)
		test.That(t, vp.Focal, test.ShouldEqual, 1000.0)
	})

	t.Run("azimuth wraps modulo 360", func(t *testing.T) {
		test.That(t, AzimuthFromYaw(0), test.ShouldEqual, 90.0)
		test.That(t, AzimuthFromYaw(90), test.ShouldEqual, 180.0)
		test.That(t, AzimuthFromYaw(270), test.ShouldEqual, 0.0)
		test.That(t, AzimuthFromYaw(360), test.ShouldEqual, 90.0)
		test.That(t, AzimuthFromYaw(-90), test.ShouldEqual, 0.0)
		test.That(t, AzimuthFromYaw(-180), test.ShouldEqual, 270.0)
	})

	t.Run("eighteen right rotations reach azimuth 180", func(t *testing.T) {
		c := NewControls()
		for i := 0; i < 18; i++ {
			c.YawDeg += 5
		}
		test.That(t, c.YawDeg, test.ShouldEqual, 90.0)
		test.That(t, c.Viewpoint().AzimuthDeg, test.ShouldEqual, 180.0)
	})

	t.Run("elevation always within bounds", func(t *testing.T) {
		for pitch := -400.; pitch <= 400; pitch += 7 {
			el := ElevationFromPitch(pitch)
			test.That(t, el, test.ShouldBeLessThanOrEqualTo, 90.0)
			test.That(t, el, test.ShouldBeGreaterThanOrEqualTo, -90.0)
		}
	})

	t.Run("radius never negative", func(t *testing.T) {
		test.That(t, ClampRadius(-3), test.ShouldEqual, MinRadius)
		test.That(t, ClampRadius(7), test.ShouldEqual, 7.0)
		test.That(t, ClampRadius(1e6), test.ShouldEqual, MaxRadius)
	})
}

func TestSphericalExtrinsics(t *testing.T) {
	t.Run("default pose looks along +y from the y axis", func(t *testing.T) {
		ext := SphericalExtrinsics(90, 0, 7)
		center := ext.CameraCenter()
		test.That(t, center.X, test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, center.Y, test.ShouldAlmostEqual, -7, 1e-9)
		test.That(t, center.Z, test.ShouldAlmostEqual, 0, 1e-9)
		// forward axis is the third rotation row
		test.That(t, ext.PoseMat.At(2, 0), test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, ext.PoseMat.At(2, 1), test.ShouldAlmostEqual, 1, 1e-9)
		test.That(t, ext.PoseMat.At(2, 2), test.ShouldAlmostEqual, 0, 1e-9)
	})

	t.Run("origin lands in front at the radius", func(t *testing.T) {
		for _, az := range []float64{0, 45, 90, 200, 330} {
			for _, el := range []float64{-60, 0, 30, 89} {
				camPt := SphericalExtrinsics(az, el, 7).Transform(r3.Vector{})
				test.That(t, camPt.X, test.ShouldAlmostEqual, 0, 1e-9)
				test.That(t, camPt.Y, test.ShouldAlmostEqual, 0, 1e-9)
				test.That(t, camPt.Z, test.ShouldAlmostEqual, 7, 1e-9)
			}
		}
	})

	t.Run("polar viewpoint stays valid", func(t *testing.T) {
		camPt := SphericalExtrinsics(90, 90, 5).Transform(r3.Vector{})
		test.That(t, camPt.Z, test.ShouldAlmostEqual, 5, 1e-9)
	})
}

func TestProjectKeypoints(t *testing.T) {
	logger := logging.NewTestLogger(t)
	pose := NewControls().Viewpoint().CameraPose(128, 128)

	t.Run("origin projects to frame center", func(t *testing.T) {
		pts := ProjectKeypoints(map[string]r3.Vector{"origin": {}}, pose, logger)
		test.That(t, pts, test.ShouldHaveLength, 1)
		test.That(t, pts["origin"].X, test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, pts["origin"].Y, test.ShouldAlmostEqual, 0, 1e-9)
	})

	t.Run("fixed cardinality with a point behind the camera", func(t *testing.T) {
		pts := ProjectKeypoints(map[string]r3.Vector{
			"front":  {},
			"behind": {X: 0, Y: -20, Z: 0},
		}, pose, logger)
		test.That(t, pts, test.ShouldHaveLength, 2)
		// clamped, not dropped
		test.That(t, pts["behind"].X, test.ShouldBeBetweenOrEqual, -1.0, 1.0)
		test.That(t, pts["behind"].Y, test.ShouldBeBetweenOrEqual, -1.0, 1.0)
	})

	t.Run("far off-frame points clamp to the border", func(t *testing.T) {
		pts := ProjectKeypoints(map[string]r3.Vector{"side": {X: 100, Y: 0, Z: 0}}, pose, logger)
		test.That(t, pts["side"].X, test.ShouldBeBetweenOrEqual, -1.0, 1.0)
	})
}

func TestNormalizeDenormalize(t *testing.T) {
	pts := []r2.Point{{X: 64, Y: 64}, {X: 0, Y: 0}, {X: 128, Y: 128}, {X: 30, Y: 100}}
	for _, pt := range pts {
		n := NormalizePoint(pt, 128, 128)
		back := DenormalizePoint(n, 128, 128)
		test.That(t, back.X, test.ShouldAlmostEqual, pt.X, 1e-9)
		test.That(t, back.Y, test.ShouldAlmostEqual, pt.Y, 1e-9)
	}
	n := NormalizePoint(r2.Point{X: 64, Y: 64}, 128, 128)
	test.That(t, n, test.ShouldResemble, r2.Point{})
}
