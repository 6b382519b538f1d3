package session

import (
	"context"
	"image"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ChenMalobani/semiparametric/logging"
	"github.com/ChenMalobani/semiparametric/scene"
	"github.com/ChenMalobani/semiparametric/synth"
	"github.com/ChenMalobani/semiparametric/texture"
	"github.com/ChenMalobani/semiparametric/viewpoint"
	"github.com/ChenMalobani/semiparametric/vimage"
)

// Renderer produces the normal/silhouette sketch of the selected mesh for a
// camera pose. It must support being re-pointed every tick.
type Renderer interface {
	Render(pose *viewpoint.CameraPose, mesh *scene.Mesh) (*vimage.Image, error)
}

// ModelStore serves the CAD catalog.
type ModelStore interface {
	Load(idx int) (*scene.Mesh, map[string]r3.Vector, error)
	Size() int
}

// Config wires the collaborators of a session. Validation failures are fatal
// at startup and never recovered.
type Config struct {
	Class    texture.ObjectClass
	Dataset  *texture.Dataset
	Store    ModelStore
	Oracle   texture.Oracle
	Renderer Renderer
	Model    synth.Synthesizer
	Sink     FrameSink
	DumpDir  string
	Logger   logging.Logger
}

// CheckValid checks that every required collaborator is wired.
func (c *Config) CheckValid() error {
	var err error
	if classErr := c.Class.CheckValid(); classErr != nil {
		err = multierr.Append(err, classErr)
	}
	if c.Dataset == nil {
		err = multierr.Append(err, errors.New("config needs a Dataset"))
	}
	if c.Store == nil {
		err = multierr.Append(err, errors.New("config needs a model Store"))
	}
	if c.Oracle == nil {
		err = multierr.Append(err, errors.New("config needs a visibility Oracle"))
	}
	if c.Renderer == nil {
		err = multierr.Append(err, errors.New("config needs a Renderer"))
	}
	if c.Model == nil {
		err = multierr.Append(err, errors.New("config needs a synthesis Model"))
	}
	if c.Logger == nil {
		err = multierr.Append(err, errors.New("config needs a Logger"))
	}
	return err
}

// Session is the single owner of all mutable interactive state. Collaborators
// only ever receive the slice of it they need as plain arguments.
type Session struct {
	cfg    Config
	logger logging.Logger

	controls   viewpoint.Controls
	cadIdx     int
	datasetIdx int
	example    *texture.TextureExample
	mesh       *scene.Mesh
	kpoints3D  map[string]r3.Vector

	dumpID    int
	lastFrame *image.NRGBA
}

// New validates the config, selects CAD model 0 and the first texture
// example, and returns an idle session.
func New(cfg Config) (*Session, error) {
	if err := cfg.CheckValid(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:      cfg,
		logger:   cfg.Logger,
		controls: viewpoint.NewControls(),
	}
	mesh, kpoints, err := cfg.Store.Load(0)
	if err != nil {
		return nil, errors.Wrap(err, "error loading initial CAD model")
	}
	s.mesh, s.kpoints3D = mesh, kpoints
	example, err := cfg.Dataset.Get(0)
	if err != nil {
		return nil, errors.Wrap(err, "error loading initial texture example")
	}
	s.example = example
	s.datasetIdx = 1
	return s, nil
}

// Viewpoint returns the viewpoint derived from the current controls.
func (s *Session) Viewpoint() viewpoint.Viewpoint {
	return s.controls.Viewpoint()
}

// CADIndex returns the selected CAD model index.
func (s *Session) CADIndex() int { return s.cadIdx }

// DumpCount returns how many frames have been persisted.
func (s *Session) DumpCount() int { return s.dumpID }

// LastFrame returns the most recently composited display frame, nil before
// the first completed tick.
func (s *Session) LastFrame() *image.NRGBA { return s.lastFrame }

// HandleEvent consumes exactly one event: it applies the event's single
// state mutation and runs a full pipeline pass. A failed tick leaves the
// previous composited frame in place and the session usable.
func (s *Session) HandleEvent(ctx context.Context, event Event) error {
	switch event {
	case NoOp:
		// re-render only
	case RotateUp:
		s.controls.PitchDeg -= RotateStepDeg
	case RotateDown:
		s.controls.PitchDeg += RotateStepDeg
	case RotateLeft:
		s.controls.YawDeg -= RotateStepDeg
	case RotateRight:
		s.controls.YawDeg += RotateStepDeg
	case ZoomIn:
		s.controls.Radius -= ZoomStep
	case ZoomOut:
		s.controls.Radius += ZoomStep
	case NextExample:
		example, err := s.cfg.Dataset.Get(s.datasetIdx)
		if err != nil {
			return err
		}
		s.example = example
		s.datasetIdx++
	case NextModel:
		next := (s.cadIdx + 1) % s.cfg.Store.Size()
		mesh, kpoints, err := s.cfg.Store.Load(next)
		if err != nil {
			return err
		}
		s.cadIdx, s.mesh, s.kpoints3D = next, mesh, kpoints
	case DumpFrame:
		return s.dumpFrame(ctx)
	default:
		return errors.Wrapf(ErrUnsupportedEvent, "event %d", int(event))
	}
	return s.tick(ctx)
}

// Run consumes events until the source closes or the context is done.
// Unsupported events and collaborator failures abort only their own tick.
func (s *Session) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.HandleEvent(ctx, event); err != nil {
				s.logger.Errorw("tick aborted", "event", event.String(), "error", err)
			}
		}
	}
}

// dumpFrame persists the last composited frame without touching viewpoint
// state. Before the first tick there is nothing composited yet, so one is
// rendered first.
func (s *Session) dumpFrame(ctx context.Context) error {
	if s.lastFrame == nil {
		if err := s.tick(ctx); err != nil {
			return err
		}
	}
	if s.cfg.DumpDir == "" {
		return errors.New("no dump directory configured")
	}
	vp := s.Viewpoint()
	name := DumpFilename(s.dumpID, vp.ElevationDeg, vp.AzimuthDeg, vp.Radius)
	path, err := writeDump(s.cfg.DumpDir, name, s.lastFrame)
	if err != nil {
		return err
	}
	s.dumpID++
	s.logger.Infof("saved %s", path)
	return nil
}

// tick runs one full pipeline pass: viewpoint -> sketch -> keypoints ->
// plane layout -> warp -> synthesis -> composite -> display.
func (s *Session) tick(ctx context.Context) error {
	vp := s.Viewpoint()
	pose := vp.CameraPose(texture.PatchSize, texture.PatchSize)
	s.logger.Debugw("rendering viewpoint",
		"azimuth", vp.AzimuthDeg, "elevation", vp.ElevationDeg, "radius", vp.Radius)

	sketch, err := s.cfg.Renderer.Render(pose, s.mesh)
	if err != nil {
		return errors.Wrap(err, "renderer failed")
	}

	kpoints2D := viewpoint.ProjectKeypoints(s.kpoints3D, pose, s.logger)
	visibilities, err := s.cfg.Oracle.Visibilities(s.cfg.Class, vp.AzimuthDeg, vp.ElevationDeg)
	if err != nil {
		return errors.Wrap(err, "visibility oracle failed")
	}
	target, err := texture.ResolvePlanes(s.cfg.Class, kpoints2D, visibilities)
	if err != nil {
		return err
	}

	warped, _, err := texture.WarpUnwarpPlanes(
		s.cfg.Class, s.example.Planes, s.example.PlaneLayouts, target, s.logger)
	if err != nil {
		return err
	}

	input, err := synth.AssembleInput(sketch, s.example.Central, warped, s.cfg.Class)
	if err != nil {
		return err
	}
	output, err := s.cfg.Model.Synthesize(ctx, input)
	if err != nil {
		return errors.Wrap(err, "synthesis model failed")
	}
	synthesized, err := synth.DecodeImage(output)
	if err != nil {
		return err
	}

	masked := MaskSynthesis(synthesized, sketch)
	frame := TileFrame(sketch, s.example.Central, masked, s.example.Image)
	if s.cfg.Sink != nil {
		if err := s.cfg.Sink.Display(frame); err != nil {
			return errors.Wrap(err, "frame sink failed")
		}
	}
	s.lastFrame = frame
	return nil
}
