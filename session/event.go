// Package session owns the interactive state machine: one user event drives
// one full pipeline pass from viewpoint to composited frame.
package session

import "github.com/pkg/errors"

// Event is one discrete user action. Exactly one event is consumed per tick.
type Event int

// The closed set of session events.
const (
	NoOp Event = iota
	RotateUp
	RotateDown
	RotateLeft
	RotateRight
	ZoomIn
	ZoomOut
	NextExample
	NextModel
	DumpFrame

	numEvents
)

// Control step sizes per event.
const (
	RotateStepDeg = 5.
	ZoomStep      = 0.05
)

// ErrUnsupportedEvent is returned for events outside the closed set. It is
// fatal to the current tick only; the session continues on the next event.
var ErrUnsupportedEvent = errors.New("unsupported event")

func (e Event) String() string {
	switch e {
	case NoOp:
		return "no_op"
	case RotateUp:
		return "rotate_up"
	case RotateDown:
		return "rotate_down"
	case RotateLeft:
		return "rotate_left"
	case RotateRight:
		return "rotate_right"
	case ZoomIn:
		return "zoom_in"
	case ZoomOut:
		return "zoom_out"
	case NextExample:
		return "next_example"
	case NextModel:
		return "next_model"
	case DumpFrame:
		return "dump_frame"
	default:
		return "unknown"
	}
}
