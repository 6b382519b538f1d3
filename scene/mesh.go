// Package scene loads the CAD catalog and renders the normal/silhouette
// sketch the synthesis pipeline consumes.
package scene

import (
	"os"

	"github.com/chenzhekl/goply"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// Mesh is a triangle mesh with per-vertex normals.
type Mesh struct {
	Vertices  []r3.Vector
	Normals   []r3.Vector
	Triangles [][3]int
}

// NewMeshFromPLYFile reads a triangle mesh from a PLY file. Vertex normals
// are taken from the file when present, recomputed otherwise.
func NewMeshFromPLYFile(path string) (*Mesh, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening PLY file")
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	ply := goply.New(f)
	vertices := ply.Elements("vertex")
	faces := ply.Elements("face")
	if len(vertices) == 0 || len(faces) == 0 {
		return nil, errors.Errorf("PLY file %q has %d vertices and %d faces", path, len(vertices), len(faces))
	}

	mesh := &Mesh{
		Vertices: make([]r3.Vector, 0, len(vertices)),
		Normals:  make([]r3.Vector, 0, len(vertices)),
	}
	hasNormals := true
	for _, vertex := range vertices {
		mesh.Vertices = append(mesh.Vertices, r3.Vector{
			X: plyFloat(vertex["x"]),
			Y: plyFloat(vertex["y"]),
			Z: plyFloat(vertex["z"]),
		})
		if _, ok := vertex["nx"]; ok {
			mesh.Normals = append(mesh.Normals, r3.Vector{
				X: plyFloat(vertex["nx"]),
				Y: plyFloat(vertex["ny"]),
				Z: plyFloat(vertex["nz"]),
			})
		} else {
			hasNormals = false
		}
	}
	for _, face := range faces {
		idxs, err := plyIndices(face["vertex_indices"])
		if err != nil {
			return nil, errors.Wrapf(err, "bad face in %q", path)
		}
		// fan-triangulate polygons with more than three vertices
		for i := 2; i < len(idxs); i++ {
			tri := [3]int{idxs[0], idxs[i-1], idxs[i]}
			for _, v := range tri {
				if v < 0 || v >= len(mesh.Vertices) {
					return nil, errors.Errorf("face references vertex %d of %d", v, len(mesh.Vertices))
				}
			}
			mesh.Triangles = append(mesh.Triangles, tri)
		}
	}
	if !hasNormals {
		mesh.ComputeVertexNormals()
	}
	return mesh, nil
}

// ComputeVertexNormals rebuilds per-vertex normals as area-weighted averages
// of the adjacent face normals.
func (m *Mesh) ComputeVertexNormals() {
	normals := make([]r3.Vector, len(m.Vertices))
	for _, tri := range m.Triangles {
		a, b, c := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
		// cross product length carries the area weighting
		faceNormal := b.Sub(a).Cross(c.Sub(a))
		for _, v := range tri {
			normals[v] = normals[v].Add(faceNormal)
		}
	}
	for i := range normals {
		if normals[i].Norm() > 0 {
			normals[i] = normals[i].Normalize()
		}
	}
	m.Normals = normals
}

func plyFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint32:
		return float64(x)
	case uint8:
		return float64(x)
	default:
		return 0
	}
}

func plyIndices(v interface{}) ([]int, error) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, errors.Errorf("vertex_indices is %T, not a list", v)
	}
	if len(list) < 3 {
		return nil, errors.Errorf("face has %d vertices", len(list))
	}
	out := make([]int, len(list))
	for i, item := range list {
		out[i] = int(plyFloat(item))
	}
	return out, nil
}
