package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"gopkg.in/yaml.v3"

	"github.com/ChenMalobani/semiparametric/logging"
	"github.com/ChenMalobani/semiparametric/texture"
)

// CatalogSize is the fixed number of CAD models per class.
const CatalogSize = 10

// Store serves the CAD catalog: for a model index, the triangle mesh and the
// named 3D keypoints of that model.
type Store struct {
	root   string
	class  texture.ObjectClass
	logger logging.Logger
}

// NewStore validates the CAD root and returns a catalog store.
func NewStore(root string, class texture.ObjectClass, logger logging.Logger) (*Store, error) {
	if err := class.CheckValid(); err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, "invalid CAD root")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("CAD root %q is not a directory", root)
	}
	return &Store{root: root, class: class, logger: logger}, nil
}

// Size returns the catalog size.
func (s *Store) Size() int { return CatalogSize }

// ModelPath returns the mesh path of the model at idx.
func (s *Store) ModelPath(idx int) string {
	return filepath.Join(s.root, fmt.Sprintf("pascal_%s_cad_%03d.ply", string(s.class), idx))
}

// Load returns the mesh and 3D keypoints of the model at idx. Keypoints come
// from the YAML sidecar next to the mesh and are immutable for the lifetime
// of the selection.
func (s *Store) Load(idx int) (*Mesh, map[string]r3.Vector, error) {
	if idx < 0 || idx >= CatalogSize {
		return nil, nil, errors.Errorf("model index %d outside catalog [0, %d)", idx, CatalogSize)
	}
	meshPath := s.ModelPath(idx)
	mesh, err := NewMeshFromPLYFile(meshPath)
	if err != nil {
		return nil, nil, err
	}
	kpoints, err := loadKeypoints(keypointSidecar(meshPath))
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debugw("CAD model loaded", "index", idx,
		"vertices", len(mesh.Vertices), "triangles", len(mesh.Triangles), "keypoints", len(kpoints))
	return mesh, kpoints, nil
}

func keypointSidecar(meshPath string) string {
	ext := filepath.Ext(meshPath)
	return meshPath[:len(meshPath)-len(ext)] + ".yaml"
}

type keypointFile struct {
	Kpoints3D map[string][]float64 `yaml:"kpoints_3d"`
}

func loadKeypoints(path string) (map[string]r3.Vector, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening keypoint sidecar")
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	var parsed keypointFile
	if err := yaml.NewDecoder(f).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "error parsing keypoint sidecar")
	}
	if len(parsed.Kpoints3D) == 0 {
		return nil, errors.Errorf("keypoint sidecar %q has no kpoints_3d", path)
	}
	out := make(map[string]r3.Vector, len(parsed.Kpoints3D))
	for name, v := range parsed.Kpoints3D {
		if len(v) != 3 {
			return nil, errors.Errorf("keypoint %q must be [x, y, z], got %v", name, v)
		}
		out[name] = r3.Vector{X: v[0], Y: v[1], Z: v[2]}
	}
	return out, nil
}
