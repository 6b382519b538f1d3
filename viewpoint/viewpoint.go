package viewpoint

import "math"

// Session defaults, matching the released tool's startup state.
const (
	DefaultYawDeg   = 0.
	DefaultPitchDeg = 90.
	DefaultRadius   = 7.
	DefaultFocal    = 1000.

	// Explicit radius bounds. The source tool clamped the radius to
	// [0, current], a no-op upper bound, so real bounds are chosen here.
	MinRadius = 1.
	MaxRadius = 50.
)

// Controls are the raw yaw/pitch/radius values mutated by user events. The
// derived Viewpoint is recomputed from them every frame and never persisted.
type Controls struct {
	YawDeg   float64
	PitchDeg float64
	Radius   float64
	Focal    float64
}

// NewControls returns the default session controls.
func NewControls() Controls {
	return Controls{
		YawDeg:   DefaultYawDeg,
		PitchDeg: DefaultPitchDeg,
		Radius:   DefaultRadius,
		Focal:    DefaultFocal,
	}
}

// Viewpoint describes the camera on a sphere around the object origin.
type Viewpoint struct {
	AzimuthDeg   float64
	ElevationDeg float64
	Radius       float64
	Focal        float64
}

// AzimuthFromYaw bridges the yaw control axis to the azimuth convention of
// the projection: az = (yaw + 90) mod 360. This is a project-specific
// calibration and must not be changed.
func AzimuthFromYaw(yawDeg float64) float64 {
	az := math.Mod(yawDeg+90, 360)
	if az < 0 {
		az += 360
	}
	return az
}

// ElevationFromPitch bridges the pitch control axis to the elevation
// convention of the projection: el = 90 - pitch, with pitch clamped first so
// the elevation always lands in [-90, 90].
func ElevationFromPitch(pitchDeg float64) float64 {
	return clamp(90-clamp(pitchDeg, -90, 90), -90, 90)
}

// ClampRadius bounds the radius to [MinRadius, MaxRadius].
func ClampRadius(radius float64) float64 {
	return clamp(radius, MinRadius, MaxRadius)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// Viewpoint derives the viewpoint for the current control values.
func (c Controls) Viewpoint() Viewpoint {
	return Viewpoint{
		AzimuthDeg:   AzimuthFromYaw(c.YawDeg),
		ElevationDeg: ElevationFromPitch(c.PitchDeg),
		Radius:       ClampRadius(c.Radius),
		Focal:        c.Focal,
	}
}

// CameraPose derives the camera pose for a frame of the given size.
// Deterministic and side-effect free.
func (v Viewpoint) CameraPose(width, height int) *CameraPose {
	return &CameraPose{
		Intrinsics: NewCenteredIntrinsics(v.Focal, width, height),
		Extrinsics: SphericalExtrinsics(v.AzimuthDeg, v.ElevationDeg, v.Radius),
	}
}
