package gif

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/Weixin07/Webm2Gif/internal/config"
)

// assembleWithMagick is the Riemersma backend: ffmpeg dumps the filtered
// frames as PNGs, then ImageMagick assembles them, remapping every frame to
// the shared palette. ImageMagick is the only tool of the pair that
// implements Riemersma dithering, which keeps flat UI art free of the
// checkerboard patterns error-diffusion dithers leave on solid fills.
func assembleWithMagick(ctx context.Context, cfg *config.Config, input string, pal *PaletteArtifact, output, workDir string, spec FilterSpec) error {
	if cfg.MagickBin == "" {
		return &EncodeError{Input: input, Err: fmt.Errorf("riemersma dithering requires ImageMagick")}
	}

	framesDir := filepath.Join(workDir, "frames")
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return &EncodeError{Input: input, Err: err}
	}

	pattern := filepath.Join(framesDir, "f_%06d.png")
	res := run(ctx, cfg.Verbose, "ffmpeg", FrameExtractArgs(input, pattern, spec))
	if res.err != nil {
		return &EncodeError{Input: input, Stderr: res.stderr, Err: fmt.Errorf("frame extraction: %w", res.err)}
	}

	frames, err := filepath.Glob(filepath.Join(framesDir, "f_*.png"))
	if err != nil || len(frames) == 0 {
		return &EncodeError{Input: input, Stderr: res.stderr, Err: fmt.Errorf("no frames extracted")}
	}
	sort.Strings(frames)

	res = run(ctx, cfg.Verbose, cfg.MagickBin, magickArgs(frames, pal.Path, output, spec))
	if res.err != nil {
		return &EncodeError{Input: input, Stderr: res.stderr, Err: res.err}
	}
	return validateOutput(input, output)
}

// magickArgs builds the assemble command: per-frame delay, infinite loop,
// palette remap with Riemersma dithering, and transparency-aware frame
// optimization. Works with IM7 magick and IM6 convert alike.
func magickArgs(frames []string, palettePath, output string, spec FilterSpec) []string {
	args := make([]string, 0, len(frames)+12)
	args = append(args,
		"-delay", strconv.Itoa(magickDelay(spec.FPS)),
		"-loop", "0",
	)
	args = append(args, frames...)
	args = append(args,
		"-dither", "Riemersma",
		"-remap", palettePath,
		"-layers", "OptimizeTransparency",
		output,
	)
	return args
}

// magickDelay converts frames per second to ImageMagick's centisecond
// per-frame delay, never below 1.
func magickDelay(fps int) int {
	d := int(math.Round(100 / float64(fps)))
	if d < 1 {
		return 1
	}
	return d
}
