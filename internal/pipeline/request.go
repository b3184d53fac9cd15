package pipeline

import (
	"fmt"
	"time"

	"github.com/Weixin07/Webm2Gif/internal/config"
)

// SourceFPS selects the input's own frame rate for the output GIF.
const SourceFPS = -1

// Request describes one conversion. The loop policy is fixed: every output
// GIF loops forever.
type Request struct {
	InputPath  string
	OutputPath string // Empty: derived next to the input.

	// FPS must be positive or SourceFPS. Zero is rejected: a zero frame
	// rate is always a caller bug, never a default.
	FPS int

	// MaxWidth bounds the output width; 0 keeps the native width. The
	// planner never upscales regardless of this value.
	MaxWidth int

	Dither    config.Dither
	StatsMode config.StatsMode
	MaxColors int
}

// NewRequest builds a Request for input from the resolved configuration.
func NewRequest(cfg *config.Config, input, output string) Request {
	fps := cfg.FPS
	if fps == 0 {
		fps = SourceFPS
	}
	return Request{
		InputPath:  input,
		OutputPath: output,
		FPS:        fps,
		MaxWidth:   cfg.MaxWidth,
		Dither:     cfg.Dither,
		StatsMode:  cfg.StatsMode,
		MaxColors:  cfg.MaxColors,
	}
}

// Validate rejects malformed requests before any external tool runs.
func (r *Request) Validate() error {
	if r.InputPath == "" {
		return &InvalidRequestError{Reason: "input path is empty"}
	}
	if r.FPS != SourceFPS && r.FPS <= 0 {
		return &InvalidRequestError{Reason: fmt.Sprintf("fps must be positive (got %d)", r.FPS)}
	}
	if r.FPS > config.MaxFPS {
		return &InvalidRequestError{Reason: fmt.Sprintf("fps above %d (got %d)", config.MaxFPS, r.FPS)}
	}
	if r.MaxWidth < 0 {
		return &InvalidRequestError{Reason: fmt.Sprintf("max width must be positive (got %d)", r.MaxWidth)}
	}
	if r.MaxColors < 2 || r.MaxColors > 256 {
		return &InvalidRequestError{Reason: fmt.Sprintf("max colors out of range (got %d)", r.MaxColors)}
	}
	return nil
}

// Result is the terminal object for one conversion. Err is nil exactly when
// the conversion reached StateDone and the output file exists.
type Result struct {
	Input   string
	Output  string
	Stage   State // StateDone, or the state active when the failure occurred.
	Err     error
	Skipped bool // Output already existed and overwrite was off.
	DryRun  bool
	Elapsed time.Duration
}

// Failed reports whether the conversion produced an error.
func (r Result) Failed() bool { return r.Err != nil }
