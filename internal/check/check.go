// Package check provides system diagnostics (--check mode) and pre-pipeline
// tool resolution for ffmpeg, ffprobe, and ImageMagick.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/Weixin07/Webm2Gif/internal/config"
)

// Sentinel errors returned by ResolveTools when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrMagickNotFound  = errors.New("ImageMagick not found on PATH (riemersma dithering requires it)")
)

// Logger is the minimal logging interface needed by this package.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// ResolveTools verifies that ffmpeg and ffprobe are on PATH and resolves the
// ImageMagick binary when the dither policy needs one. An explicitly
// requested riemersma with no ImageMagick is fatal; the default riemersma
// downgrades to floyd_steinberg with a warning.
func ResolveTools(cfg *config.Config, log Logger) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}

	if !cfg.Dither.NeedsImageMagick() {
		return nil
	}
	if bin := FindImageMagick(); bin != "" {
		cfg.MagickBin = bin
		return nil
	}
	if cfg.DitherExplicit {
		return ErrMagickNotFound
	}
	log.Warn("ImageMagick not found, falling back to floyd_steinberg dithering")
	cfg.Dither = config.DitherFloydSteinberg
	return nil
}

// FindImageMagick returns the ImageMagick binary to invoke, preferring the
// v7 "magick" entry point over the legacy "convert". Empty when neither is
// on PATH.
func FindImageMagick() string {
	for _, name := range []string{"magick", "convert"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// RunCheck runs the interactive --check flow: prints availability of ffmpeg,
// ffprobe, the palette filters, and ImageMagick. This is informational only,
// it does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkTool(log, "ffmpeg")
	checkTool(log, "ffprobe")
	checkPaletteFilters(log)
	checkImageMagick(cfg, log)
}

// checkTool verifies a binary is on PATH and logs its version string.
func checkTool(log Logger, name string) {
	if _, err := exec.LookPath(name); err != nil {
		log.Error("%s not found", name)
		return
	}
	cmd := exec.Command(name, "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return
	}
	log.Success("%s: %s", name, firstLine(string(out)))
}

// checkPaletteFilters runs a minimal two-pass encode against a synthetic
// source to verify palettegen and paletteuse work.
func checkPaletteFilters(log Logger) {
	log.Info("Testing palette filters...")
	ok := runSilent("ffmpeg",
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=size=64x64:rate=5:duration=0.4",
		"-filter_complex", "[0:v]split[a][b];[a]palettegen=max_colors=32[p];[b][p]paletteuse",
		"-f", "null", "-",
	)
	if ok {
		log.Success("palettegen/paletteuse work")
	} else {
		log.Error("palette filter test failed")
	}
}

// checkImageMagick reports which ImageMagick entry point would be used and
// whether the configured dither policy can be honored.
func checkImageMagick(cfg *config.Config, log Logger) {
	bin := FindImageMagick()
	if bin == "" {
		if cfg.Dither.NeedsImageMagick() {
			log.Warn("ImageMagick not found; riemersma dithering unavailable")
		} else {
			log.Info("ImageMagick not found (not needed for %s dithering)", cfg.Dither)
		}
		return
	}
	cmd := exec.Command(bin, "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("ImageMagick found but -version failed: %v", err)
		return
	}
	log.Success("ImageMagick: %s", firstLine(string(out)))
}

// firstLine returns the first line of s, trimmed.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
