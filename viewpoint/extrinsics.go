package viewpoint

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Extrinsics stores the 3x4 [R|t] pose matrix along with its rotation and
// translation parts. The convention is OpenCV-style: camera x right, y down,
// z forward; a point in front of the camera has positive z.
type Extrinsics struct {
	PoseMat     *mat.Dense
	Rotation    *mat.Dense
	Translation *mat.Dense
}

// NewExtrinsicsFromMat builds Extrinsics from a 3x4 pose matrix.
func NewExtrinsicsFromMat(pose *mat.Dense) *Extrinsics {
	t := mat.NewDense(3, 1, []float64{pose.At(0, 3), pose.At(1, 3), pose.At(2, 3)})
	rot := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot.Set(i, j, pose.At(i, j))
		}
	}
	return &Extrinsics{PoseMat: pose, Rotation: rot, Translation: t}
}

// SphericalExtrinsics places the camera on a sphere of the given radius at
// the given azimuth/elevation (degrees), looking at the origin with the world
// z axis up. Azimuth 90 puts the camera on the y axis viewing along +y.
func SphericalExtrinsics(azDeg, elDeg, radius float64) *Extrinsics {
	az := azDeg * math.Pi / 180
	el := elDeg * math.Pi / 180

	center := r3.Vector{
		X: -radius * math.Cos(el) * math.Cos(az),
		Y: -radius * math.Cos(el) * math.Sin(az),
		Z: radius * math.Sin(el),
	}

	forward := center.Mul(-1).Normalize()
	up := r3.Vector{X: 0, Y: 0, Z: 1}
	if math.Abs(forward.Z) > 1-1e-9 {
		// looking straight along the pole, pick another up axis
		up = r3.Vector{X: 0, Y: 1, Z: 0}
	}
	right := forward.Cross(up).Normalize()
	down := forward.Cross(right)

	pose := mat.NewDense(3, 4, nil)
	for j, axis := range []r3.Vector{right, down, forward} {
		pose.Set(j, 0, axis.X)
		pose.Set(j, 1, axis.Y)
		pose.Set(j, 2, axis.Z)
		pose.Set(j, 3, -axis.Dot(center))
	}
	return NewExtrinsicsFromMat(pose)
}

// Transform maps a world point into camera coordinates.
func (e *Extrinsics) Transform(pt r3.Vector) r3.Vector {
	out := r3.Vector{}
	out.X = e.PoseMat.At(0, 0)*pt.X + e.PoseMat.At(0, 1)*pt.Y + e.PoseMat.At(0, 2)*pt.Z + e.PoseMat.At(0, 3)
	out.Y = e.PoseMat.At(1, 0)*pt.X + e.PoseMat.At(1, 1)*pt.Y + e.PoseMat.At(1, 2)*pt.Z + e.PoseMat.At(1, 3)
	out.Z = e.PoseMat.At(2, 0)*pt.X + e.PoseMat.At(2, 1)*pt.Y + e.PoseMat.At(2, 2)*pt.Z + e.PoseMat.At(2, 3)
	return out
}

// CameraCenter returns the camera position in world coordinates, -R' * t.
func (e *Extrinsics) CameraCenter() r3.Vector {
	t := r3.Vector{X: e.Translation.At(0, 0), Y: e.Translation.At(1, 0), Z: e.Translation.At(2, 0)}
	out := r3.Vector{}
	out.X = -(e.Rotation.At(0, 0)*t.X + e.Rotation.At(1, 0)*t.Y + e.Rotation.At(2, 0)*t.Z)
	out.Y = -(e.Rotation.At(0, 1)*t.X + e.Rotation.At(1, 1)*t.Y + e.Rotation.At(2, 1)*t.Z)
	out.Z = -(e.Rotation.At(0, 2)*t.X + e.Rotation.At(1, 2)*t.Y + e.Rotation.At(2, 2)*t.Z)
	return out
}
