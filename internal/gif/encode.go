package gif

import (
	"context"
	"fmt"
	"os"

	"github.com/Weixin07/Webm2Gif/internal/config"
)

// EncodeError wraps a failed encode pass: non-zero tool exit or a
// zero-byte output file.
type EncodeError struct {
	Input  string
	Stderr string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Input, e.Err)
}
func (e *EncodeError) Unwrap() error { return e.Err }

// Encode runs the encode pass: the input is re-decoded through the same
// filter chain as the palette pass, the palette is applied with the
// configured dither, and the output GIF loops forever.
//
// Riemersma dithering routes through the ImageMagick assemble backend; all
// other modes use ffmpeg's paletteuse. On success the output is a valid
// animated GIF; on failure no output file remains.
func Encode(ctx context.Context, cfg *config.Config, input string, pal *PaletteArtifact, output, workDir string, spec FilterSpec) error {
	var err error
	if spec.Dither.NeedsImageMagick() {
		err = assembleWithMagick(ctx, cfg, input, pal, output, workDir, spec)
	} else {
		err = encodeWithFFmpeg(ctx, cfg, input, pal, output, spec)
	}
	if err != nil {
		os.Remove(output)
		return err
	}
	return nil
}

func encodeWithFFmpeg(ctx context.Context, cfg *config.Config, input string, pal *PaletteArtifact, output string, spec FilterSpec) error {
	res := run(ctx, cfg.Verbose, "ffmpeg", EncodeArgs(input, pal.Path, output, spec))
	if res.err != nil {
		return &EncodeError{Input: input, Stderr: res.stderr, Err: res.err}
	}
	return validateOutput(input, output)
}

// validateOutput rejects zero-byte results so a "successful" exit with no
// frames written still fails the conversion.
func validateOutput(input, output string) error {
	fi, err := os.Stat(output)
	if err != nil {
		return &EncodeError{Input: input, Err: fmt.Errorf("output missing: %w", err)}
	}
	if fi.Size() == 0 {
		return &EncodeError{Input: input, Err: fmt.Errorf("output is empty")}
	}
	return nil
}
