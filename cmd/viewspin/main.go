// Command viewspin is an interactive viewer for semi-parametric novel view
// synthesis: it spins a CAD model around a spherical viewpoint and re-renders
// the warped texture pipeline on every keypress.
package main

import (
	"bufio"
	"context"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"

	"github.com/ChenMalobani/semiparametric/logging"
	"github.com/ChenMalobani/semiparametric/scene"
	"github.com/ChenMalobani/semiparametric/session"
	"github.com/ChenMalobani/semiparametric/synth"
	"github.com/ChenMalobani/semiparametric/texture"
)

var logger = logging.NewLogger("viewspin")

var app = &cli.App{
	Name:            "viewspin",
	Usage:           "interactively rotate and re-synthesize a textured CAD model",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "class",
			Usage:    "object class, car or chair",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "dataset-dir",
			Usage:    "directory of texture examples (images + YAML sidecars)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "cad-root",
			Usage:    "directory of the PLY CAD catalog",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "dump-dir",
			Usage: "where dumped frames go",
			Value: "dumps",
		},
		&cli.StringFlag{
			Name:  "view-file",
			Usage: "write the latest composited frame to `FILE` after every tick",
		},
		&cli.BoolFlag{
			Name:  "demo",
			Usage: "fast-load mode, read only the first examples of the dataset",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Action: runAction,
}

func runAction(c *cli.Context) error {
	if c.Bool("debug") {
		logger = logging.NewDebugLogger("viewspin")
	}
	class := texture.ObjectClass(c.String("class"))
	if err := class.CheckValid(); err != nil {
		return err
	}

	oracle := pickOracle(c.String("cad-root"), class)
	dataset, err := texture.LoadDataset(
		c.String("dataset-dir"), class, c.Bool("demo"), oracle, logger.Sublogger("dataset"))
	if err != nil {
		return err
	}
	store, err := scene.NewStore(c.String("cad-root"), class, logger.Sublogger("store"))
	if err != nil {
		return err
	}

	sess, err := session.New(session.Config{
		Class:    class,
		Dataset:  dataset,
		Store:    store,
		Oracle:   oracle,
		Renderer: &scene.NormalRenderer{Width: texture.PatchSize, Height: texture.PatchSize},
		Model:    &synth.Passthrough{Class: class},
		Sink:     viewSink(c.String("view-file")),
		DumpDir:  c.String("dump-dir"),
		Logger:   logger.Sublogger("session"),
	})
	if err != nil {
		return err
	}

	logger.Info("keys: A/S yaw, D/F pitch, G/H zoom, space next example, N next model, X dump, Q quit")
	events := make(chan session.Event)
	go readEvents(c.App.Reader, events)
	return sess.Run(c.Context, events)
}

// pickOracle prefers a visibility table shipped next to the CAD catalog and
// falls back to the geometric oracle.
func pickOracle(cadRoot string, class texture.ObjectClass) texture.Oracle {
	path := filepath.Join(cadRoot, "visibility_"+string(class)+".yaml")
	oracle, err := texture.NewTableOracleFromFile(path, class)
	if err != nil {
		logger.Debugw("no usable visibility table, using geometric oracle", "path", path, "error", err)
		return texture.GeometricOracle{}
	}
	logger.Infof("visibility table %s", path)
	return oracle
}

func viewSink(path string) session.FrameSink {
	if path == "" {
		return nil
	}
	return session.FuncSink(func(frame image.Image) error {
		return imaging.Save(frame, path)
	})
}

// readEvents maps the original tool's key bindings onto session events and
// closes the channel on EOF or Q.
func readEvents(in io.Reader, events chan<- session.Event) {
	defer close(events)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		switch line[0] {
		case 'q', 'Q':
			return
		case 'a', 'A':
			events <- session.RotateLeft
		case 's', 'S':
			events <- session.RotateRight
		case 'd', 'D':
			events <- session.RotateUp
		case 'f', 'F':
			events <- session.RotateDown
		case 'g', 'G':
			events <- session.ZoomIn
		case 'h', 'H':
			events <- session.ZoomOut
		case ' ':
			events <- session.NextExample
		case 'n', 'N':
			events <- session.NextModel
		case 'x', 'X':
			events <- session.DumpFrame
		default:
			events <- session.NoOp
		}
	}
}

func main() {
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		logger.Fatal(err)
	}
}
