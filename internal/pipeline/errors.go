package pipeline

import "fmt"

// State tracks the orchestrator through one conversion. Transitions are
// strictly sequential; no state is re-entered. Any failure jumps straight
// to StateFailed and the Result reports the state that was active.
type State int

const (
	StateIdle State = iota
	StateProbing
	StatePlanning
	StatePaletteBuilding
	StateEncoding
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:            "idle",
	StateProbing:         "probing",
	StatePlanning:        "planning",
	StatePaletteBuilding: "palette",
	StateEncoding:        "encoding",
	StateDone:            "done",
	StateFailed:          "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// InvalidRequestError reports a request rejected before any external tool
// is invoked (bad FPS, bad width, missing input path).
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string { return "invalid request: " + e.Reason }

// IOError reports filesystem failures around the conversion proper:
// unreadable input, unwritable output directory.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }
