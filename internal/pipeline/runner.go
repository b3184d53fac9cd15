package pipeline

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/Weixin07/Webm2Gif/internal/config"
	"github.com/Weixin07/Webm2Gif/internal/display"
	"github.com/Weixin07/Webm2Gif/internal/logging"
	"github.com/Weixin07/Webm2Gif/internal/naming"
)

// BatchRunner converts every .webm found under a directory, one file at a
// time. A failure on one file never stops the rest of the batch.
type BatchRunner struct {
	cfg *config.Config
	log *logging.Logger

	// convert performs a single conversion. Tests replace it.
	convert func(ctx context.Context, req Request) Result
}

func NewBatchRunner(cfg *config.Config, log *logging.Logger) *BatchRunner {
	return &BatchRunner{
		cfg: cfg,
		log: log,
		convert: func(ctx context.Context, req Request) Result {
			return NewOrchestrator(cfg, log).Convert(ctx, req)
		},
	}
}

// Results yields one Result per discovered file, lazily: the next conversion
// does not start until the consumer asks for it, and stopping the iteration
// runs nothing further. Discovery errors surface as a single failed Result.
func (b *BatchRunner) Results(ctx context.Context, inputDir string) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		files, err := Discover(inputDir)
		if err != nil {
			yield(Result{Input: inputDir, Stage: StateIdle, Err: err})
			return
		}

		outDir := b.cfg.OutputPath
		if outDir == "" {
			outDir = inputDir
		}

		resolver := naming.NewCollisionResolver()
		for _, file := range files {
			if ctx.Err() != nil {
				return
			}

			output := naming.OutputPath(file, inputDir, outDir)
			output = resolver.Resolve(file, output)

			if b.cfg.SkipExisting && fileExists(output) {
				if !yield(Result{Input: file, Output: output, Stage: StateDone, Skipped: true}) {
					return
				}
				continue
			}
			if b.cfg.DryRun {
				if !yield(Result{Input: file, Output: output, Stage: StateDone, DryRun: true}) {
					return
				}
				continue
			}

			req := NewRequest(b.cfg, file, output)
			if !yield(b.convert(ctx, req)) {
				return
			}
		}
	}
}

// Run consumes Results for inputDir, logging each outcome, and returns the
// aggregate. The error is non-nil only when any file failed.
func (b *BatchRunner) Run(ctx context.Context, inputDir string) (RunStats, error) {
	var stats RunStats
	for res := range b.Results(ctx, inputDir) {
		stats.Total++
		name := filepath.Base(res.Input)
		switch {
		case res.Skipped:
			stats.Skipped++
			b.log.Info("skip %s (output exists)", name)
		case res.DryRun:
			stats.Skipped++
			b.log.Info("would convert %s -> %s", name, res.Output)
		case res.Failed():
			stats.Failed++
			b.log.Error("%s: %v", name, res.Err)
		default:
			stats.Converted++
			in, out := fileSize(res.Input), fileSize(res.Output)
			stats.InputBytes += in
			stats.OutputBytes += out
			b.log.Success("%s -> %s (%s -> %s, %s)",
				name, filepath.Base(res.Output),
				display.FormatBytes(in), display.FormatBytes(out),
				res.Elapsed.Round(10*time.Millisecond))
		}
	}
	if ctx.Err() != nil {
		b.log.Warn("interrupted after %d of %d files", stats.Converted+stats.Skipped+stats.Failed, stats.Total)
	}

	b.log.Info("done: %d converted, %d skipped, %d failed", stats.Converted, stats.Skipped, stats.Failed)
	if stats.Converted > 0 {
		b.log.Info("total size %s -> %s (%s)",
			display.FormatBytes(stats.InputBytes),
			display.FormatBytes(stats.OutputBytes),
			display.FormatBytesWithSign(stats.OutputBytes-stats.InputBytes))
	}
	if !stats.AllOK() {
		return stats, fmt.Errorf("%d of %d conversions failed", stats.Failed, stats.Total)
	}
	return stats, nil
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}
