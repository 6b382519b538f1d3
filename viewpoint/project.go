package viewpoint

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/ChenMalobani/semiparametric/logging"
)

// minimum camera-space depth; points at or behind the camera plane are
// clamped here instead of dropped so keypoint sets keep fixed cardinality
const minDepth = 1e-6

// ProjectKeypoints projects named 3D keypoints through the camera pose into
// normalized [-1,1]^2 image coordinates. Out-of-frame projections are
// clamped, never dropped. A point behind the camera plane is invalid
// geometry; it is recovered by clamping its depth and logged at debug level.
func ProjectKeypoints(points map[string]r3.Vector, pose *CameraPose, logger logging.Logger) map[string]r2.Point {
	out := make(map[string]r2.Point, len(points))
	for name, pt := range points {
		camPt := pose.Extrinsics.Transform(pt)
		if camPt.Z <= 0 {
			if logger != nil {
				logger.Debugw("keypoint behind camera, clamping depth", "keypoint", name, "z", camPt.Z)
			}
			camPt.Z = minDepth
		}
		px, py := pose.Intrinsics.PointToPixel(camPt.X, camPt.Y, camPt.Z)
		out[name] = NormalizePoint(r2.Point{X: px, Y: py}, pose.Intrinsics.Width, pose.Intrinsics.Height)
	}
	return out
}

// NormalizePoint maps a pixel coordinate to [-1,1]^2, clamped: the frame
// center maps to the origin and each border to +/-1.
func NormalizePoint(pt r2.Point, width, height int) r2.Point {
	halfW := float64(width) / 2
	halfH := float64(height) / 2
	return r2.Point{
		X: clamp((pt.X-halfW)/halfW, -1, 1),
		Y: clamp((pt.Y-halfH)/halfH, -1, 1),
	}
}

// DenormalizePoint is the exact inverse of NormalizePoint for in-range
// coordinates.
func DenormalizePoint(pt r2.Point, width, height int) r2.Point {
	return r2.Point{
		X: (pt.X + 1) * float64(width) / 2,
		Y: (pt.Y + 1) * float64(height) / 2,
	}
}
