package texture

import (
	"image"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/ChenMalobani/semiparametric/logging"
	"github.com/ChenMalobani/semiparametric/viewpoint"
	"github.com/ChenMalobani/semiparametric/vimage"
)

// WarpUnwarpPlanes warps every source plane patch into the target keypoint
// layout and additionally unwarps it into the plane's canonical axis-aligned
// frame. The outputs always hold exactly one patch per plane of the class,
// in canonical order; planes without usable information are zero patches:
//
//	warped[i] is non-blank only when plane i is visible in both viewpoints;
//	unwarped[i] is non-blank whenever plane i is visible in the source.
//
// Near-degenerate correspondences degrade to an identity warp so an
// interactive tick never fails on geometry.
func WarpUnwarpPlanes(
	class ObjectClass,
	srcPlanes []*vimage.Image,
	src, dst []Plane,
	logger logging.Logger,
) (warped, unwarped []*vimage.Image, err error) {
	n := class.NumPlanes()
	if len(srcPlanes) != n || len(src) != n || len(dst) != n {
		return nil, nil, errors.Errorf("class %q has %d planes, got %d patches, %d source and %d target layouts",
			string(class), n, len(srcPlanes), len(src), len(dst))
	}
	size := image.Point{PatchSize, PatchSize}
	warped = make([]*vimage.Image, n)
	unwarped = make([]*vimage.Image, n)
	for i := 0; i < n; i++ {
		srcQuad := denormalizeQuad(src[i].Quad)
		dstQuad := denormalizeQuad(dst[i].Quad)

		if src[i].Visible && dst[i].Visible {
			warped[i] = warpThrough(srcPlanes[i], srcQuad, dstQuad, size, logger)
		} else {
			warped[i] = vimage.NewImage(size.X, size.Y)
		}

		if src[i].Visible {
			unwarped[i] = warpThrough(srcPlanes[i], srcQuad, CanonicalQuad(len(srcQuad)), size, logger)
		} else {
			unwarped[i] = vimage.NewImage(size.X, size.Y)
		}
	}
	return warped, unwarped, nil
}

// CanonicalQuad returns the axis-aligned patch corners a plane unwarps onto,
// matching the winding order of the plane tables.
func CanonicalQuad(points int) []r2.Point {
	const s = float64(PatchSize)
	if points == 3 {
		return []r2.Point{{X: 0, Y: 0}, {X: s, Y: 0}, {X: 0, Y: s}}
	}
	return []r2.Point{{X: 0, Y: 0}, {X: s, Y: 0}, {X: s, Y: s}, {X: 0, Y: s}}
}

func warpThrough(patch *vimage.Image, srcQuad, dstQuad []r2.Point, size image.Point, logger logging.Logger) *vimage.Image {
	h, err := vimage.EstimateTransform(srcQuad, dstQuad)
	if err != nil {
		if logger != nil {
			logger.Debugw("degenerate plane correspondence, warping as identity", "error", err)
		}
		h = vimage.IdentityHomography()
	}
	return vimage.WarpImage(patch, h, size)
}

func denormalizeQuad(quad []r2.Point) []r2.Point {
	out := make([]r2.Point, len(quad))
	for i, pt := range quad {
		out[i] = viewpoint.DenormalizePoint(pt, PatchSize, PatchSize)
	}
	return out
}
