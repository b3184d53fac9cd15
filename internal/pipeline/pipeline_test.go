package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Weixin07/Webm2Gif/internal/config"
	"github.com/Weixin07/Webm2Gif/internal/gif"
	"github.com/Weixin07/Webm2Gif/internal/logging"
	"github.com/Weixin07/Webm2Gif/internal/probe"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.New(&config.Config{})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.SkipExisting = false
	return &cfg
}

func validRequest() Request {
	return Request{
		InputPath: "clip.webm",
		FPS:       15,
		Dither:    config.DitherFloydSteinberg,
		StatsMode: config.StatsFull,
		MaxColors: 256,
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		wantOK bool
	}{
		{"valid", func(r *Request) {}, true},
		{"source fps sentinel", func(r *Request) { r.FPS = SourceFPS }, true},
		{"zero fps", func(r *Request) { r.FPS = 0 }, false},
		{"negative fps", func(r *Request) { r.FPS = -5 }, false},
		{"fps too high", func(r *Request) { r.FPS = 500 }, false},
		{"empty input", func(r *Request) { r.InputPath = "" }, false},
		{"negative max width", func(r *Request) { r.MaxWidth = -1 }, false},
		{"max colors too low", func(r *Request) { r.MaxColors = 1 }, false},
		{"max colors too high", func(r *Request) { r.MaxColors = 300 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.wantOK {
				var ire *InvalidRequestError
				if !errors.As(err, &ire) {
					t.Errorf("Validate() = %v, want *InvalidRequestError", err)
				}
			}
		})
	}
}

func TestConvert_ZeroFPSFailsBeforeAnyTool(t *testing.T) {
	cfg := testConfig()
	o := NewOrchestrator(cfg, testLogger(t))

	req := validRequest()
	req.FPS = 0
	res := o.Convert(context.Background(), req)

	if !res.Failed() {
		t.Fatal("Convert() succeeded, want failure")
	}
	var ire *InvalidRequestError
	if !errors.As(res.Err, &ire) {
		t.Errorf("Err = %v, want *InvalidRequestError", res.Err)
	}
	if res.Stage != StateIdle {
		t.Errorf("Stage = %v, want %v (rejection predates any external work)", res.Stage, StateIdle)
	}
	if o.State() != StateFailed {
		t.Errorf("State() = %v, want %v", o.State(), StateFailed)
	}
}

func TestConvert_MissingInput(t *testing.T) {
	o := NewOrchestrator(testConfig(), testLogger(t))

	req := validRequest()
	req.InputPath = filepath.Join(t.TempDir(), "nope.webm")
	res := o.Convert(context.Background(), req)

	var ioErr *IOError
	if !errors.As(res.Err, &ioErr) {
		t.Fatalf("Err = %v, want *IOError", res.Err)
	}
	if !errors.Is(res.Err, os.ErrNotExist) {
		t.Errorf("Err = %v, want wrapped os.ErrNotExist", res.Err)
	}
}

func TestConvert_TruncatedInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.webm")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	o := NewOrchestrator(testConfig(), testLogger(t))
	req := validRequest()
	req.InputPath = path
	res := o.Convert(context.Background(), req)

	var pe *probe.ProbeError
	if !errors.As(res.Err, &pe) {
		t.Fatalf("Err = %v, want *probe.ProbeError", res.Err)
	}
	if res.Stage != StateProbing {
		t.Errorf("Stage = %v, want %v", res.Stage, StateProbing)
	}
}

// writeInput creates a plausible input file large enough to pass the size
// guard.
func writeInput(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, 4096), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func stubProbe(ctx context.Context, path string) (*probe.Result, error) {
	return &probe.Result{
		Path: path, FormatName: "matroska,webm", Codec: "vp9",
		Width: 1280, Height: 720, FrameRate: 30, Duration: 3.2,
	}, nil
}

func TestConvert_PaletteFailureRemovesWorkDir(t *testing.T) {
	dir := t.TempDir()
	o := NewOrchestrator(testConfig(), testLogger(t))
	o.probeFile = stubProbe

	var workDir string
	o.generatePalette = func(ctx context.Context, cfg *config.Config, input, wd string, spec gif.FilterSpec) (*gif.PaletteArtifact, error) {
		workDir = wd
		return nil, &gif.PaletteGenerationError{Input: input, Err: errors.New("palettegen exploded")}
	}

	req := validRequest()
	req.InputPath = writeInput(t, dir, "rec.webm")
	req.OutputPath = filepath.Join(dir, "rec.gif")
	res := o.Convert(context.Background(), req)

	var pge *gif.PaletteGenerationError
	if !errors.As(res.Err, &pge) {
		t.Fatalf("Err = %v, want *gif.PaletteGenerationError", res.Err)
	}
	if res.Stage != StatePaletteBuilding {
		t.Errorf("Stage = %v, want %v", res.Stage, StatePaletteBuilding)
	}
	if workDir == "" {
		t.Fatal("palette stage was never reached")
	}
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Errorf("work directory %s should be removed after failure", workDir)
	}
}

func TestConvert_EncodeFailureRemovesPartialOutputAndWorkDir(t *testing.T) {
	dir := t.TempDir()
	o := NewOrchestrator(testConfig(), testLogger(t))
	o.probeFile = stubProbe
	o.generatePalette = func(ctx context.Context, cfg *config.Config, input, wd string, spec gif.FilterSpec) (*gif.PaletteArtifact, error) {
		return &gif.PaletteArtifact{Path: filepath.Join(wd, "palette.png")}, nil
	}

	var workDir string
	o.encode = func(ctx context.Context, cfg *config.Config, input string, pal *gif.PaletteArtifact, output, wd string, spec gif.FilterSpec) error {
		workDir = wd
		if err := os.WriteFile(output, []byte("GIF89a truncated"), 0o644); err != nil {
			t.Fatal(err)
		}
		return &gif.EncodeError{Input: input, Err: errors.New("encoder exploded")}
	}

	req := validRequest()
	req.InputPath = writeInput(t, dir, "rec.webm")
	req.OutputPath = filepath.Join(dir, "rec.gif")
	res := o.Convert(context.Background(), req)

	var ee *gif.EncodeError
	if !errors.As(res.Err, &ee) {
		t.Fatalf("Err = %v, want *gif.EncodeError", res.Err)
	}
	if res.Stage != StateEncoding {
		t.Errorf("Stage = %v, want %v", res.Stage, StateEncoding)
	}
	if _, err := os.Stat(req.OutputPath); !os.IsNotExist(err) {
		t.Errorf("partial output %s should be removed after failure", req.OutputPath)
	}
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Errorf("work directory %s should be removed after failure", workDir)
	}
}

func TestConvert_SuccessRemovesWorkDirKeepsOutput(t *testing.T) {
	dir := t.TempDir()
	o := NewOrchestrator(testConfig(), testLogger(t))
	o.probeFile = stubProbe
	o.generatePalette = func(ctx context.Context, cfg *config.Config, input, wd string, spec gif.FilterSpec) (*gif.PaletteArtifact, error) {
		return &gif.PaletteArtifact{Path: filepath.Join(wd, "palette.png")}, nil
	}

	var workDir string
	o.encode = func(ctx context.Context, cfg *config.Config, input string, pal *gif.PaletteArtifact, output, wd string, spec gif.FilterSpec) error {
		workDir = wd
		return os.WriteFile(output, []byte("GIF89a"), 0o644)
	}

	req := validRequest()
	req.InputPath = writeInput(t, dir, "rec.webm")
	req.OutputPath = filepath.Join(dir, "rec.gif")
	res := o.Convert(context.Background(), req)

	if res.Failed() {
		t.Fatalf("Convert() failed: %v", res.Err)
	}
	if res.Stage != StateDone {
		t.Errorf("Stage = %v, want %v", res.Stage, StateDone)
	}
	if _, err := os.Stat(res.Output); err != nil {
		t.Errorf("output should exist after success: %v", err)
	}
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Errorf("work directory %s should be removed after success", workDir)
	}
}

// writeBatchDir creates n fake .webm files and returns the directory.
func writeBatchDir(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	names := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, names[i]+".webm")
		if err := os.WriteFile(path, []byte("webm"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestBatchRunner_OneFailureDoesNotStopTheRest(t *testing.T) {
	dir := writeBatchDir(t, 5)
	cfg := testConfig()
	b := NewBatchRunner(cfg, testLogger(t))

	var calls []string
	b.convert = func(ctx context.Context, req Request) Result {
		name := filepath.Base(req.InputPath)
		calls = append(calls, name)
		if name == "charlie.webm" {
			return Result{Input: req.InputPath, Stage: StateEncoding, Err: errors.New("boom")}
		}
		return Result{Input: req.InputPath, Output: req.OutputPath, Stage: StateDone}
	}

	stats, err := b.Run(context.Background(), dir)
	if err == nil {
		t.Error("Run() error = nil, want failure summary")
	}
	if stats.Total != 5 || stats.Converted != 4 || stats.Failed != 1 {
		t.Errorf("stats = %+v, want total 5, converted 4, failed 1", stats)
	}
	if len(calls) != 5 {
		t.Errorf("convert called %d times, want 5", len(calls))
	}
}

func TestBatchRunner_ResultsAreLazy(t *testing.T) {
	dir := writeBatchDir(t, 5)
	b := NewBatchRunner(testConfig(), testLogger(t))

	var calls int
	b.convert = func(ctx context.Context, req Request) Result {
		calls++
		return Result{Input: req.InputPath, Stage: StateDone}
	}

	seen := 0
	for range b.Results(context.Background(), dir) {
		seen++
		if seen == 2 {
			break
		}
	}
	if calls != 2 {
		t.Errorf("convert called %d times after stopping at 2 results, want 2", calls)
	}
}

func TestBatchRunner_SkipExisting(t *testing.T) {
	dir := writeBatchDir(t, 2)
	cfg := testConfig()
	cfg.SkipExisting = true
	if err := os.WriteFile(filepath.Join(dir, "alpha.gif"), []byte("GIF89a"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := NewBatchRunner(cfg, testLogger(t))
	b.convert = func(ctx context.Context, req Request) Result {
		return Result{Input: req.InputPath, Stage: StateDone}
	}

	stats, err := b.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Skipped != 1 || stats.Converted != 1 {
		t.Errorf("stats = %+v, want 1 skipped, 1 converted", stats)
	}
}

func TestBatchRunner_DryRun(t *testing.T) {
	dir := writeBatchDir(t, 3)
	cfg := testConfig()
	cfg.DryRun = true

	b := NewBatchRunner(cfg, testLogger(t))
	b.convert = func(ctx context.Context, req Request) Result {
		t.Error("convert must not run in dry-run mode")
		return Result{}
	}

	stats, err := b.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Total != 3 || stats.Skipped != 3 {
		t.Errorf("stats = %+v, want 3 total, 3 skipped", stats)
	}
}

func TestBatchRunner_CancelStopsBetweenFiles(t *testing.T) {
	dir := writeBatchDir(t, 5)
	b := NewBatchRunner(testConfig(), testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	b.convert = func(ctx context.Context, req Request) Result {
		calls++
		if calls == 2 {
			cancel()
		}
		return Result{Input: req.InputPath, Stage: StateDone}
	}

	stats, _ := b.Run(ctx, dir)
	if calls != 2 {
		t.Errorf("convert called %d times after cancel on the second, want 2", calls)
	}
	if stats.Total != 2 {
		t.Errorf("stats.Total = %d, want 2", stats.Total)
	}
}

func TestBatchRunner_SummaryReportsSizeDelta(t *testing.T) {
	dir := writeBatchDir(t, 2)

	logPath := filepath.Join(t.TempDir(), "run.log")
	cfg := testConfig()
	cfg.LogFile = logPath
	log, err := logging.New(cfg)
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	b := NewBatchRunner(cfg, log)
	b.convert = func(ctx context.Context, req Request) Result {
		if err := os.WriteFile(req.OutputPath, []byte("gifdata"), 0o644); err != nil {
			t.Fatal(err)
		}
		return Result{Input: req.InputPath, Output: req.OutputPath, Stage: StateDone}
	}

	if _, err := b.Run(context.Background(), dir); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	log.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	out := string(data)
	// Two 4-byte inputs become two 7-byte outputs: 8 B -> 14 B, + 6 B.
	if !strings.Contains(out, "total size 8 B -> 14 B (+ 6 B)") {
		t.Errorf("summary missing signed size delta, got: %q", out)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(rel string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("b.webm")
	mustWrite("a.WEBM")
	mustWrite("nested/deep/c.webm")
	mustWrite("notes.txt")
	mustWrite("movie.mp4")
	mustWrite(".cache/hidden.webm")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.WEBM"),
		filepath.Join(dir, "b.webm"),
		filepath.Join(dir, "nested", "deep", "c.webm"),
	}
	if len(files) != len(want) {
		t.Fatalf("Discover() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestTailLines(t *testing.T) {
	got := tailLines("a\nb\n\nc\nd\n", 2)
	if len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Errorf("tailLines() = %v, want [c d]", got)
	}
}

func TestNewRequest_ZeroFPSMeansSource(t *testing.T) {
	cfg := testConfig()
	cfg.FPS = 0
	req := NewRequest(cfg, "in.webm", "out.gif")
	if req.FPS != SourceFPS {
		t.Errorf("FPS = %d, want SourceFPS", req.FPS)
	}

	cfg.FPS = 24
	req = NewRequest(cfg, "in.webm", "out.gif")
	if req.FPS != 24 {
		t.Errorf("FPS = %d, want 24", req.FPS)
	}
}

func TestStateString(t *testing.T) {
	if got := StatePaletteBuilding.String(); got != "palette" {
		t.Errorf("String() = %q, want %q", got, "palette")
	}
}
