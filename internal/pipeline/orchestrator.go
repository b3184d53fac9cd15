package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Weixin07/Webm2Gif/internal/config"
	"github.com/Weixin07/Webm2Gif/internal/display"
	"github.com/Weixin07/Webm2Gif/internal/gif"
	"github.com/Weixin07/Webm2Gif/internal/logging"
	"github.com/Weixin07/Webm2Gif/internal/naming"
	"github.com/Weixin07/Webm2Gif/internal/planner"
	"github.com/Weixin07/Webm2Gif/internal/probe"
)

// Inputs smaller than this are rejected before probing; a WebM header alone
// is bigger.
const minInputSize = 100

// Orchestrator drives one conversion through the probe → plan → palette →
// encode sequence. Each instance owns a private working directory for its
// transient artifacts, so instances are independent — the batch runner
// creates one per file.
type Orchestrator struct {
	cfg   *config.Config
	log   *logging.Logger
	state State

	// Stage functions. Tests replace them to reach the failure paths
	// without real tools.
	probeFile       func(ctx context.Context, path string) (*probe.Result, error)
	generatePalette func(ctx context.Context, cfg *config.Config, input, workDir string, spec gif.FilterSpec) (*gif.PaletteArtifact, error)
	encode          func(ctx context.Context, cfg *config.Config, input string, pal *gif.PaletteArtifact, output, workDir string, spec gif.FilterSpec) error
}

// NewOrchestrator returns an idle orchestrator.
func NewOrchestrator(cfg *config.Config, log *logging.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:             cfg,
		log:             log,
		state:           StateIdle,
		probeFile:       probe.Probe,
		generatePalette: gif.GeneratePalette,
		encode:          gif.Encode,
	}
}

// State returns the current pipeline state.
func (o *Orchestrator) State() State { return o.state }

// Convert runs the full pipeline for one request. Side effects are confined
// to reading the input, writing exactly one output file on success (zero on
// failure), and transient artifacts under a working directory that is
// removed on every exit path.
func (o *Orchestrator) Convert(ctx context.Context, req Request) Result {
	start := time.Now()
	res := o.convert(ctx, req)
	res.Elapsed = time.Since(start)
	return res
}

func (o *Orchestrator) convert(ctx context.Context, req Request) Result {
	o.state = StateIdle

	if err := req.Validate(); err != nil {
		return o.fail(req, err)
	}

	fi, err := os.Stat(req.InputPath)
	if err != nil {
		return o.fail(req, &IOError{Op: "read", Path: req.InputPath, Err: err})
	}

	// --- Probe ---
	o.state = StateProbing
	if fi.Size() < minInputSize {
		return o.fail(req, &probe.ProbeError{Path: req.InputPath,
			Err: fmt.Errorf("file too small (%d bytes), possibly truncated", fi.Size())})
	}
	pr, err := o.probeFile(ctx, req.InputPath)
	if err != nil {
		return o.fail(req, err)
	}
	o.log.Debug("probed %s: %s %s @ %.2f fps, %s",
		filepath.Base(req.InputPath), pr.Codec, pr.Resolution(), pr.FrameRate,
		display.FormatDuration(pr.Duration))

	// --- Plan ---
	o.state = StatePlanning
	plan := planner.BuildScalePlan(pr.Width, pr.Height, req.MaxWidth)
	fps := req.FPS
	if fps == SourceFPS {
		fps = planner.Clamp(pr.RoundedFPS(), config.MinFPS, config.MaxFPS)
	}
	spec := gif.FilterSpec{
		FPS:       fps,
		Scale:     plan,
		StatsMode: req.StatsMode,
		Dither:    req.Dither,
		MaxColors: req.MaxColors,
	}

	output := req.OutputPath
	if output == "" {
		output = naming.DefaultGIFPath(req.InputPath)
	}
	o.log.Debug("plan: %s @ %d fps, dither %s", plan, fps, spec.Dither)

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return o.fail(req, &IOError{Op: "create output directory", Path: filepath.Dir(output), Err: err})
	}

	workDir := filepath.Join(os.TempDir(), "webm2gif-"+uuid.NewString())
	if err := os.Mkdir(workDir, 0o700); err != nil {
		return o.fail(req, &IOError{Op: "create work directory", Path: workDir, Err: err})
	}
	defer os.RemoveAll(workDir)

	// --- Palette pass ---
	o.state = StatePaletteBuilding
	pal, err := o.generatePalette(ctx, o.cfg, req.InputPath, workDir, spec)
	if err != nil {
		o.logStderr(err)
		return o.fail(req, err)
	}

	// --- Encode pass ---
	o.state = StateEncoding
	if err := o.encode(ctx, o.cfg, req.InputPath, pal, output, workDir, spec); err != nil {
		os.Remove(output)
		o.logStderr(err)
		return o.fail(req, err)
	}

	o.state = StateDone
	return Result{Input: req.InputPath, Output: output, Stage: StateDone}
}

// fail records the failure and reports the state that was active when the
// underlying error occurred.
func (o *Orchestrator) fail(req Request, err error) Result {
	at := o.state
	o.state = StateFailed
	return Result{Input: req.InputPath, Stage: at, Err: err}
}

// logStderr surfaces the tail of the failing tool's stderr at debug level.
func (o *Orchestrator) logStderr(err error) {
	var stderr string
	var pe *gif.PaletteGenerationError
	var ee *gif.EncodeError
	switch {
	case errors.As(err, &pe):
		stderr = pe.Stderr
	case errors.As(err, &ee):
		stderr = ee.Stderr
	}
	if stderr == "" {
		return
	}
	lines := tailLines(stderr, 20)
	o.log.Debug("tool output:")
	for _, l := range lines {
		o.log.Debug("  %s", l)
	}
}
