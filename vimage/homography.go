package vimage

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateTransform means the correspondence points were near-collinear
// and no stable transform exists. Callers fall back to the identity.
var ErrDegenerateTransform = errors.New("degenerate correspondence points")

// condition number above which the DLT solution is considered unstable
const maxConditionNumber = 1e12

// Homography is a 3x3 plane projective transform. Indices are [row][column].
type Homography [3][3]float64

// IdentityHomography returns the identity transform.
func IdentityHomography() Homography {
	return Homography{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// At returns the matrix entry at (row, col).
func (h *Homography) At(row, col int) float64 {
	return h[row][col]
}

// Apply maps a point through the homography with a perspective divide.
func (h *Homography) Apply(pt r2.Point) r2.Point {
	x := h.At(0, 0)*pt.X + h.At(0, 1)*pt.Y + h.At(0, 2)
	y := h.At(1, 0)*pt.X + h.At(1, 1)*pt.Y + h.At(1, 2)
	z := h.At(2, 0)*pt.X + h.At(2, 1)*pt.Y + h.At(2, 2)
	return r2.Point{X: x / z, Y: y / z}
}

// Inverse returns the inverse transform.
func (h *Homography) Inverse() (Homography, error) {
	m := mat.NewDense(3, 3, []float64{
		h[0][0], h[0][1], h[0][2],
		h[1][0], h[1][1], h[1][2],
		h[2][0], h[2][1], h[2][2],
	})
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return IdentityHomography(), errors.Wrap(ErrDegenerateTransform, err.Error())
	}
	var out Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = inv.At(i, j)
		}
	}
	return out, nil
}

// GetPerspectiveTransform computes the homography mapping src[i] -> dst[i]
// from exactly 4 correspondences. It solves the 8-unknown direct linear
// system (h22 = 1) with a dense solve; a singular or ill-conditioned system
// returns ErrDegenerateTransform.
func GetPerspectiveTransform(src, dst []r2.Point) (Homography, error) {
	if len(src) != 4 || len(dst) != 4 {
		return IdentityHomography(), errors.Errorf("need exactly 4 points, got %d and %d", len(src), len(dst))
	}
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		sx, sy := src[i].X, src[i].Y
		dx, dy := dst[i].X, dst[i].Y
		r := 2 * i
		a.SetRow(r, []float64{sx, sy, 1, 0, 0, 0, -sx * dx, -sy * dx})
		b.SetVec(r, dx)
		a.SetRow(r+1, []float64{0, 0, 0, sx, sy, 1, -sx * dy, -sy * dy})
		b.SetVec(r+1, dy)
	}
	h, err := solveStable(a, b)
	if err != nil {
		return IdentityHomography(), err
	}
	return Homography{
		{h[0], h[1], h[2]},
		{h[3], h[4], h[5]},
		{h[6], h[7], 1},
	}, nil
}

// GetAffineTransform computes the affine transform mapping src[i] -> dst[i]
// from exactly 3 correspondences, returned as a homography with a zero
// projective row.
func GetAffineTransform(src, dst []r2.Point) (Homography, error) {
	if len(src) != 3 || len(dst) != 3 {
		return IdentityHomography(), errors.Errorf("need exactly 3 points, got %d and %d", len(src), len(dst))
	}
	a := mat.NewDense(6, 6, nil)
	b := mat.NewVecDense(6, nil)
	for i := 0; i < 3; i++ {
		sx, sy := src[i].X, src[i].Y
		r := 2 * i
		a.SetRow(r, []float64{sx, sy, 1, 0, 0, 0})
		b.SetVec(r, dst[i].X)
		a.SetRow(r+1, []float64{0, 0, 0, sx, sy, 1})
		b.SetVec(r+1, dst[i].Y)
	}
	h, err := solveStable(a, b)
	if err != nil {
		return IdentityHomography(), err
	}
	return Homography{
		{h[0], h[1], h[2]},
		{h[3], h[4], h[5]},
		{0, 0, 1},
	}, nil
}

// EstimateTransform picks perspective or affine estimation from the
// correspondence count.
func EstimateTransform(src, dst []r2.Point) (Homography, error) {
	switch len(src) {
	case 3:
		return GetAffineTransform(src, dst)
	case 4:
		return GetPerspectiveTransform(src, dst)
	default:
		return IdentityHomography(), errors.Errorf("need 3 or 4 correspondence points, got %d", len(src))
	}
}

func solveStable(a *mat.Dense, b *mat.VecDense) ([]float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errors.Wrap(ErrDegenerateTransform, "SVD factorization failed")
	}
	values := svd.Values(nil)
	if values[len(values)-1] <= 0 || values[0]/values[len(values)-1] > maxConditionNumber {
		return nil, ErrDegenerateTransform
	}
	n, _ := a.Dims()
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, errors.Wrap(ErrDegenerateTransform, err.Error())
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, nil
}
