package texture

import (
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"gopkg.in/yaml.v3"
)

// AzimuthBucketDeg is the discretization step of the visibility tables.
const AzimuthBucketDeg = 10

// Oracle decides which planes of a class are visible from a discretized
// viewpoint. Implementations must return exactly NumPlanes() booleans in
// canonical plane order.
type Oracle interface {
	Visibilities(class ObjectClass, azDeg, elDeg float64) ([]bool, error)
}

// AzimuthBucket discretizes an azimuth into its table bucket.
func AzimuthBucket(azDeg float64) int {
	az := math.Mod(azDeg, 360)
	if az < 0 {
		az += 360
	}
	return int(az/AzimuthBucketDeg) * AzimuthBucketDeg
}

// plane outward normals in the world frame, used by the geometric oracle
var planeNormals = map[ObjectClass]map[string]r3.Vector{
	ClassCar: {
		"left":  {X: 0, Y: 1, Z: 0},
		"right": {X: 0, Y: -1, Z: 0},
		"roof":  {X: 0, Y: 0, Z: 1},
		"front": {X: 1, Y: 0, Z: 0},
		"back":  {X: -1, Y: 0, Z: 0},
	},
	ClassChair: {
		"back":  {X: -1, Y: 0, Z: 0},
		"seat":  {X: 0, Y: 0, Z: 1},
		"left":  {X: 0, Y: 1, Z: 0},
		"right": {X: 0, Y: -1, Z: 0},
	},
}

// GeometricOracle derives visibility from the angle between each plane's
// outward normal and the direction to the camera. It is the fallback when no
// per-class visibility table ships with the CAD catalog.
type GeometricOracle struct{}

// Visibilities implements Oracle.
func (GeometricOracle) Visibilities(class ObjectClass, azDeg, elDeg float64) ([]bool, error) {
	if err := class.CheckValid(); err != nil {
		return nil, err
	}
	az := float64(AzimuthBucket(azDeg)) * math.Pi / 180
	el := elDeg * math.Pi / 180
	toCamera := r3.Vector{
		X: -math.Cos(el) * math.Cos(az),
		Y: -math.Cos(el) * math.Sin(az),
		Z: math.Sin(el),
	}
	defs := class.Planes()
	out := make([]bool, len(defs))
	for i, def := range defs {
		out[i] = planeNormals[class][def.Name].Dot(toCamera) > 1e-3
	}
	return out, nil
}

// TableOracle looks visibility up in a per-class table keyed by azimuth
// bucket, as shipped with the CAD catalog.
type TableOracle struct {
	buckets map[int][]bool
	class   ObjectClass
}

type visibilityFile struct {
	Class   string         `yaml:"class"`
	Buckets map[int][]bool `yaml:"buckets"`
}

// NewTableOracleFromFile loads a YAML visibility table.
func NewTableOracleFromFile(path string, class ObjectClass) (*TableOracle, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening visibility table")
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	var parsed visibilityFile
	if err := yaml.NewDecoder(f).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "error parsing visibility table")
	}
	if parsed.Class != string(class) {
		return nil, errors.Errorf("visibility table is for class %q, want %q", parsed.Class, string(class))
	}
	for bucket, vs := range parsed.Buckets {
		if len(vs) != class.NumPlanes() {
			return nil, errors.Errorf("bucket %d has %d flags, class %q has %d planes",
				bucket, len(vs), string(class), class.NumPlanes())
		}
	}
	return &TableOracle{buckets: parsed.Buckets, class: class}, nil
}

// Visibilities implements Oracle. Buckets absent from the table fall back to
// the geometric oracle so a sparse table still answers every viewpoint.
func (o *TableOracle) Visibilities(class ObjectClass, azDeg, elDeg float64) ([]bool, error) {
	if class != o.class {
		return nil, errors.Errorf("oracle loaded for class %q, asked about %q", string(o.class), string(class))
	}
	if vs, ok := o.buckets[AzimuthBucket(azDeg)]; ok {
		out := make([]bool, len(vs))
		copy(out, vs)
		return out, nil
	}
	return GeometricOracle{}.Visibilities(class, azDeg, elDeg)
}
