package gif

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Weixin07/Webm2Gif/internal/config"
)

// PaletteGenerationError wraps a failed palette pass: non-zero ffmpeg exit
// or an empty/corrupt palette file.
type PaletteGenerationError struct {
	Input  string
	Stderr string
	Err    error
}

func (e *PaletteGenerationError) Error() string {
	return fmt.Sprintf("palette generation for %s: %v", e.Input, e.Err)
}
func (e *PaletteGenerationError) Unwrap() error { return e.Err }

// PaletteArtifact is the transient palette image produced by the palette
// pass and consumed exactly once by the encode pass. It lives inside the
// conversion's working directory, which the orchestrator removes on every
// exit path.
type PaletteArtifact struct {
	Path string
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// GeneratePalette runs the palette pass: the input is decoded through the
// shared filter chain and palettegen emits a single palette PNG into
// workDir. The source file is only read.
func GeneratePalette(ctx context.Context, cfg *config.Config, input, workDir string, spec FilterSpec) (*PaletteArtifact, error) {
	palettePath := filepath.Join(workDir, "palette.png")

	res := run(ctx, cfg.Verbose, "ffmpeg", PaletteArgs(input, palettePath, spec))
	if res.err != nil {
		return nil, &PaletteGenerationError{Input: input, Stderr: res.stderr, Err: res.err}
	}

	if err := validatePalette(palettePath); err != nil {
		return nil, &PaletteGenerationError{Input: input, Stderr: res.stderr, Err: err}
	}
	return &PaletteArtifact{Path: palettePath}, nil
}

// validatePalette rejects empty or corrupt palette files by checking the
// PNG signature. ffmpeg occasionally exits zero after writing a truncated
// file when the demuxer gives up mid-stream.
func validatePalette(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(f, sig); err != nil {
		return fmt.Errorf("palette file unreadable: %w", err)
	}
	if !bytes.Equal(sig, pngSignature) {
		return fmt.Errorf("palette file is not a PNG")
	}
	return nil
}
