package scene

import (
	"sort"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/ChenMalobani/semiparametric/viewpoint"
	"github.com/ChenMalobani/semiparametric/vimage"
)

// NormalRenderer rasterizes a mesh into the normal-colored sketch on a black
// background. Pixels that stay exactly black form the object silhouette
// complement used by the compositor mask.
type NormalRenderer struct {
	Width  int
	Height int
}

// Render draws the mesh through the camera pose. Triangles are depth-sorted
// back to front and filled flat with their normal color (n+1)/2.
func (r *NormalRenderer) Render(pose *viewpoint.CameraPose, mesh *Mesh) (*vimage.Image, error) {
	if mesh == nil || len(mesh.Triangles) == 0 {
		return nil, errors.New("no mesh to render")
	}
	if err := pose.Intrinsics.CheckValid(); err != nil {
		return nil, err
	}
	if len(mesh.Normals) != len(mesh.Vertices) {
		mesh.ComputeVertexNormals()
	}

	type screenVertex struct {
		x, y, z float64
	}
	projected := make([]screenVertex, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		camPt := pose.Extrinsics.Transform(v)
		px, py := pose.Intrinsics.PointToPixel(camPt.X, camPt.Y, camPt.Z)
		projected[i] = screenVertex{x: px, y: py, z: camPt.Z}
	}

	type face struct {
		tri   [3]int
		depth float64
	}
	faces := make([]face, 0, len(mesh.Triangles))
	for _, tri := range mesh.Triangles {
		a, b, c := projected[tri[0]], projected[tri[1]], projected[tri[2]]
		if a.z <= 0 || b.z <= 0 || c.z <= 0 {
			continue
		}
		faces = append(faces, face{tri: tri, depth: (a.z + b.z + c.z) / 3})
	}
	// painter's algorithm: far faces first
	sort.Slice(faces, func(i, j int) bool { return faces[i].depth > faces[j].depth })

	dc := gg.NewContext(r.Width, r.Height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	for _, f := range faces {
		n := averageNormal(mesh, f.tri)
		dc.SetRGB((n.X+1)/2, (n.Y+1)/2, (n.Z+1)/2)
		a, b, c := projected[f.tri[0]], projected[f.tri[1]], projected[f.tri[2]]
		dc.MoveTo(a.x, a.y)
		dc.LineTo(b.x, b.y)
		dc.LineTo(c.x, c.y)
		dc.ClosePath()
		dc.Fill()
	}
	return vimage.NewImageFromImage(dc.Image()), nil
}

func averageNormal(mesh *Mesh, tri [3]int) r3.Vector {
	n := mesh.Normals[tri[0]].Add(mesh.Normals[tri[1]]).Add(mesh.Normals[tri[2]])
	if n.Norm() == 0 {
		return r3.Vector{Z: 1}
	}
	return n.Normalize()
}
