package texture

import (
	"image"
	"image/color"
	_ "image/jpeg" // dataset images may be JPEG or PNG
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"gopkg.in/yaml.v3"

	"github.com/ChenMalobani/semiparametric/logging"
	"github.com/ChenMalobani/semiparametric/vimage"
)

// FastLoadLimit is how many records fast-load mode reads instead of the
// whole set.
const FastLoadLimit = 100

// TextureExample is one dataset record: a source image, its plane patches
// with their keypoint layouts and visibilities, and a precomputed central
// reference crop. Immutable once loaded.
type TextureExample struct {
	Name         string
	Image        *vimage.Image
	Central      *vimage.Image
	Planes       []*vimage.Image
	PlaneLayouts []Plane
	Azimuth      float64
	Elevation    float64
}

// Dataset is an indexable, immutable collection of texture examples.
type Dataset struct {
	examples []TextureExample
}

// NewDataset wraps already-built examples, mainly for tests.
func NewDataset(examples []TextureExample) *Dataset {
	return &Dataset{examples: examples}
}

// Len returns the number of examples.
func (d *Dataset) Len() int { return len(d.examples) }

// Get returns the example at index i modulo the dataset size, so sequential
// enumeration wraps around.
func (d *Dataset) Get(i int) (*TextureExample, error) {
	if len(d.examples) == 0 {
		return nil, errors.New("dataset is empty")
	}
	return &d.examples[i%len(d.examples)], nil
}

type exampleMeta struct {
	Vpoint       []float64            `yaml:"vpoint"`
	Kpoints2D    map[string][]float64 `yaml:"kpoints_2d"`
	Visibilities []bool               `yaml:"visibilities"`
}

// LoadDataset reads every image/YAML sidecar pair under dir. fastLoad stops
// after FastLoadLimit records. When a sidecar carries no visibility flags the
// oracle fills them in from the record's viewpoint.
func LoadDataset(dir string, class ObjectClass, fastLoad bool, oracle Oracle, logger logging.Logger) (*Dataset, error) {
	if err := class.CheckValid(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "error reading dataset directory")
	}
	var names []string
	for _, e := range entries {
		if ext := strings.ToLower(filepath.Ext(e.Name())); ext == ".png" || ext == ".jpg" || ext == ".jpeg" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var examples []TextureExample
	for _, name := range names {
		if fastLoad && len(examples) >= FastLoadLimit {
			logger.Debugf("fast-load mode, stopping at %d examples", FastLoadLimit)
			break
		}
		example, err := loadExample(dir, name, class, oracle)
		if err != nil {
			return nil, errors.Wrapf(err, "error loading example %q", name)
		}
		examples = append(examples, *example)
	}
	if len(examples) == 0 {
		return nil, errors.Errorf("no usable examples under %q", dir)
	}
	logger.Infow("dataset loaded", "dir", dir, "examples", len(examples), "class", string(class))
	return &Dataset{examples: examples}, nil
}

func loadExample(dir, name string, class ObjectClass, oracle Oracle) (*TextureExample, error) {
	img, err := readImage(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	meta, err := readMeta(filepath.Join(dir, base+".yaml"))
	if err != nil {
		return nil, err
	}
	if len(meta.Vpoint) != 2 {
		return nil, errors.Errorf("meta vpoint must be [azimuth, elevation], got %v", meta.Vpoint)
	}
	kpoints := make(map[string]r2.Point, len(meta.Kpoints2D))
	for kName, v := range meta.Kpoints2D {
		if len(v) != 2 {
			return nil, errors.Errorf("keypoint %q must be [x, y], got %v", kName, v)
		}
		kpoints[kName] = r2.Point{X: v[0], Y: v[1]}
	}

	visibilities := meta.Visibilities
	if visibilities == nil {
		visibilities, err = oracle.Visibilities(class, meta.Vpoint[0], meta.Vpoint[1])
		if err != nil {
			return nil, err
		}
	}
	layouts, err := ResolvePlanes(class, kpoints, visibilities)
	if err != nil {
		return nil, err
	}

	return &TextureExample{
		Name:         base,
		Image:        img,
		Central:      CentralCrop(img),
		Planes:       CutPlanes(img, layouts),
		PlaneLayouts: layouts,
		Azimuth:      meta.Vpoint[0],
		Elevation:    meta.Vpoint[1],
	}, nil
}

// CutPlanes extracts one patch per plane from the source image: the image
// resampled to patch size with everything outside the plane polygon blacked
// out. Invisible planes get zero patches.
func CutPlanes(img *vimage.Image, layouts []Plane) []*vimage.Image {
	out := make([]*vimage.Image, len(layouts))
	for i, layout := range layouts {
		if !layout.Visible {
			out[i] = vimage.NewImage(PatchSize, PatchSize)
			continue
		}
		patch := fitToPatch(img)
		quad := denormalizeQuad(layout.Quad)
		for y := 0; y < PatchSize; y++ {
			for x := 0; x < PatchSize; x++ {
				if !insidePolygon(quad, r2.Point{X: float64(x), Y: float64(y)}) {
					patch.SetXY(x, y, color.NRGBA{})
				}
			}
		}
		out[i] = patch
	}
	return out
}

// CentralCrop cuts the middle half of the image and resizes it to patch
// size. It anchors the synthesis input independent of viewpoint geometry.
func CentralCrop(img *vimage.Image) *vimage.Image {
	w, h := img.Width(), img.Height()
	crop := vimage.NewImage(w/2, h/2)
	for y := 0; y < h/2; y++ {
		for x := 0; x < w/2; x++ {
			crop.SetXY(x, y, img.GetXY(x+w/4, y+h/4))
		}
	}
	return fitToPatch(crop)
}

func fitToPatch(img *vimage.Image) *vimage.Image {
	if img.Width() == PatchSize && img.Height() == PatchSize {
		return img.Clone()
	}
	resized := resize.Resize(PatchSize, PatchSize, img, resize.Bilinear)
	return vimage.NewImageFromImage(resized)
}

// insidePolygon is a ray-casting point-in-polygon test over the plane quad.
func insidePolygon(poly []r2.Point, pt r2.Point) bool {
	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		pi, pj := poly[i], poly[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) &&
			pt.X < (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

func readImage(path string) (*vimage.Image, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening image")
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding image")
	}
	return vimage.NewImageFromImage(img), nil
}

func readMeta(path string) (*exampleMeta, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening example meta")
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	var meta exampleMeta
	if err := yaml.NewDecoder(f).Decode(&meta); err != nil {
		return nil, errors.Wrap(err, "error parsing example meta")
	}
	return &meta, nil
}
