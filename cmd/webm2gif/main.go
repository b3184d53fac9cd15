// Command webm2gif converts .webm screen recordings to animated GIFs.
// It parses flags, validates config, and runs one of three modes: system
// check (--check), a single conversion (file argument or GUI flow), or a
// batch over a directory tree.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/Weixin07/Webm2Gif/internal/check"
	"github.com/Weixin07/Webm2Gif/internal/config"
	"github.com/Weixin07/Webm2Gif/internal/display"
	"github.com/Weixin07/Webm2Gif/internal/gui"
	"github.com/Weixin07/Webm2Gif/internal/logging"
	"github.com/Weixin07/Webm2Gif/internal/naming"
	"github.com/Weixin07/Webm2Gif/internal/pipeline"
	"github.com/Weixin07/Webm2Gif/internal/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.DefaultConfig()
	config.LoadEnv(&cfg)
	if err := config.ParseFlags(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "webm2gif: %v\n", err)
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "webm2gif: %v\n", err)
		return 2
	}

	term.Configure(cfg.ColorMode)
	log, err := logging.New(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "webm2gif: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner()

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		return 0
	}

	if err := check.ResolveTools(&cfg, log); err != nil {
		log.Error("%v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.InputPath == "" {
		return runGUI(ctx, &cfg, log)
	}

	fi, err := os.Stat(cfg.InputPath)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputPath)
		return 1
	}
	if fi.IsDir() {
		return runBatch(ctx, &cfg, log)
	}
	return runSingle(ctx, &cfg, log)
}

// runSingle converts the one file named on the command line.
func runSingle(ctx context.Context, cfg *config.Config, log *logging.Logger) int {
	log.Info("=== Webm2Gif v%s ===", config.Version())

	output := cfg.OutputPath
	if output == "" {
		output = naming.DefaultGIFPath(cfg.InputPath)
	}
	if cfg.SkipExisting {
		if _, err := os.Stat(output); err == nil {
			log.Warn("%s exists; pass --force to overwrite", output)
			return 1
		}
	}
	if cfg.DryRun {
		log.Info("would convert %s -> %s", cfg.InputPath, output)
		return 0
	}

	req := pipeline.NewRequest(cfg, cfg.InputPath, output)
	res := pipeline.NewOrchestrator(cfg, log).Convert(ctx, req)
	if res.Failed() {
		log.Error("%s failed during %s: %v", filepath.Base(res.Input), res.Stage, res.Err)
		return 1
	}
	log.Success("%s -> %s (%s, %s)",
		filepath.Base(res.Input), res.Output,
		display.FormatBytes(fileSize(res.Output)), res.Elapsed.Round(10*time.Millisecond))
	return 0
}

// runBatch converts every .webm under the directory named on the command line.
func runBatch(ctx context.Context, cfg *config.Config, log *logging.Logger) int {
	log.Info("=== Webm2Gif v%s ===", config.Version())
	log.Info("In:  %s", cfg.InputPath)
	if cfg.OutputPath != "" {
		log.Info("Out: %s", cfg.OutputPath)
	}
	if cfg.DryRun {
		log.Warn("DRY RUN")
	}

	runner := pipeline.NewBatchRunner(cfg, log)
	if _, err := runner.Run(ctx, cfg.InputPath); err != nil {
		return 1
	}
	return 0
}

// runGUI walks the interactive flow: pick a recording, pick a destination,
// ask for frame rate and width, convert, and report through dialogs.
func runGUI(ctx context.Context, cfg *config.Config, log *logging.Logger) int {
	dialogs := gui.New(cfg)

	input, err := dialogs.PickInputFile(cfg.StartDir)
	if err != nil {
		return guiExit(log, err)
	}
	if !strings.EqualFold(filepath.Ext(input), ".webm") {
		ok, err := dialogs.Confirm(fmt.Sprintf("%s is not a .webm recording. Convert anyway?", filepath.Base(input)))
		if err != nil {
			return guiExit(log, err)
		}
		if !ok {
			return 0
		}
	}

	output, err := dialogs.PickSaveFile(naming.DefaultGIFPath(input))
	if err != nil {
		return guiExit(log, err)
	}

	suggestedFPS := cfg.FPS
	if suggestedFPS == 0 {
		suggestedFPS = 15
	}
	fps, err := dialogs.PromptFPS(suggestedFPS)
	if err != nil {
		return guiExit(log, err)
	}
	maxWidth, err := dialogs.PromptMaxWidth(cfg.MaxWidth)
	if err != nil {
		return guiExit(log, err)
	}

	cfg.FPS = fps
	cfg.MaxWidth = maxWidth
	req := pipeline.NewRequest(cfg, input, output)

	log.Info("Converting %s...", filepath.Base(input))
	res := pipeline.NewOrchestrator(cfg, log).Convert(ctx, req)
	if res.Failed() {
		log.Error("%s failed during %s: %v", filepath.Base(res.Input), res.Stage, res.Err)
		dialogs.ShowError(fmt.Sprintf("Conversion failed during %s:\n%v", res.Stage, res.Err))
		return 1
	}

	log.Success("%s -> %s", filepath.Base(res.Input), res.Output)
	dialogs.ShowSuccess(fmt.Sprintf("Saved %s (%s)", res.Output, display.FormatBytes(fileSize(res.Output))))

	open, err := dialogs.Confirm("Open the containing folder?")
	if err == nil && open {
		openFolder(filepath.Dir(res.Output))
	}
	return 0
}

// guiExit distinguishes a user cancel (clean exit) from a dialog failure.
func guiExit(log *logging.Logger, err error) int {
	if errors.Is(err, gui.ErrCancelled) {
		log.Info("Cancelled")
		return 0
	}
	log.Error("%v", err)
	return 1
}

// openFolder opens dir in the platform file manager. Failures are ignored;
// this is a convenience, not a step of the conversion.
func openFolder(dir string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", dir)
	case "windows":
		cmd = exec.Command("explorer", dir)
	default:
		cmd = exec.Command("xdg-open", dir)
	}
	_ = cmd.Start()
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}
